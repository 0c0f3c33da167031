package source

import (
	"context"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"
)

// DefaultMaxBytes caps how much of a single file is worth scanning.
const DefaultMaxBytes = 10 << 20

var defaultExcludeDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"target":       true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"out":          true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	".tox":         true,
	".idea":        true,
	"coverage":     true,
}

// noisy or non-text suffixes skipped when default excludes are on
var defaultExcludeFileSuffixes = []string{
	".min.js", ".map",
	".png", ".jpg", ".jpeg", ".gif", ".webp", ".ico", ".svg",
	".pdf", ".zip", ".gz", ".tar", ".tgz", ".7z",
	".jar", ".class", ".exe", ".dll", ".so", ".dylib",
	".wasm", ".pyc",
	".woff", ".woff2", ".ttf", ".eot",
	".mp3", ".mp4", ".mov", ".avi",
}

var defaultExcludeFileNames = map[string]bool{
	"yarn.lock":         true,
	"package-lock.json": true,
	"pnpm-lock.yaml":    true,
	"composer.lock":     true,
	"poetry.lock":       true,
	".DS_Store":         true,
}

// DirSource walks a directory tree, emitting each eligible text file.
type DirSource struct {
	MaxBytes        int64
	IncludeGlobs    []string
	ExcludeGlobs    []string
	DefaultExcludes bool
	Log             logrus.FieldLogger
}

func NewDirSource(log logrus.FieldLogger) *DirSource {
	return &DirSource{
		MaxBytes:        DefaultMaxBytes,
		DefaultExcludes: true,
		Log:             log,
	}
}

func (d *DirSource) Acquire(ctx context.Context, target string, emit EmitFunc) error {
	ign, err := LoadIgnore(filepath.Join(target, IgnoreFileName))
	if err != nil {
		d.Log.WithError(err).Debug("ignore file unreadable, scanning everything")
	}
	return filepath.WalkDir(target, func(p string, entry fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			return nil
		}
		if entry.IsDir() {
			if d.DefaultExcludes && isDefaultDirExcluded(entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, _ := filepath.Rel(target, p)
		if ign.Match(rel) {
			return nil
		}
		if !d.allowedByGlobs(rel) {
			return nil
		}
		info, _ := entry.Info()
		if info != nil && d.MaxBytes > 0 && info.Size() > d.MaxBytes {
			return nil
		}
		if d.DefaultExcludes && isDefaultFileExcluded(strings.ToLower(rel)) {
			return nil
		}
		b, err := os.ReadFile(p)
		if err != nil {
			d.Log.WithError(err).WithField("path", p).Debug("skipping unreadable file")
			return nil
		}
		if looksBinary(b) || looksNonTextMIME(rel) {
			return nil
		}
		emit(p, string(b))
		return nil
	})
}

// allowedByGlobs applies include globs as a positive filter, then subtracts
// exclude globs. Matching uses forward-slash semantics.
func (d *DirSource) allowedByGlobs(relPath string) bool {
	rp := strings.ReplaceAll(relPath, "\\", "/")
	if len(d.IncludeGlobs) > 0 && !matchAnyGlob(rp, d.IncludeGlobs) {
		return false
	}
	if len(d.ExcludeGlobs) > 0 && matchAnyGlob(rp, d.ExcludeGlobs) {
		return false
	}
	return true
}

func matchAnyGlob(pathToMatch string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, pathToMatch); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, filepath.Base(pathToMatch)); ok {
			return true
		}
	}
	return false
}

func isDefaultDirExcluded(name string) bool {
	return defaultExcludeDirs[name] || strings.HasPrefix(name, ".git")
}

func isDefaultFileExcluded(lowerRel string) bool {
	if strings.HasSuffix(lowerRel, ".lock") {
		return true
	}
	for _, s := range defaultExcludeFileSuffixes {
		if strings.HasSuffix(lowerRel, s) {
			return true
		}
	}
	base := lowerRel
	if i := strings.LastIndex(lowerRel, "/"); i >= 0 {
		base = lowerRel[i+1:]
	}
	return defaultExcludeFileNames[base]
}

func looksBinary(b []byte) bool {
	const sniff = 800
	n := len(b)
	if n > sniff {
		n = sniff
	}
	for i := 0; i < n; i++ {
		if b[i] == 0 {
			return true
		}
	}
	return false
}

// looksNonTextMIME skips clearly non-text content by extension, catching
// binaries that slip past the NUL sniff.
func looksNonTextMIME(path string) bool {
	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		return false
	}
	if strings.HasPrefix(ct, "image/") || strings.HasPrefix(ct, "video/") || strings.HasPrefix(ct, "audio/") {
		return true
	}
	return strings.Contains(ct, "zip") || strings.Contains(ct, "tar") || strings.Contains(ct, "gzip")
}
