package source

import (
	"bufio"
	"os"
	"strings"
)

// IgnoreFileName is looked up at the root of every directory scan.
const IgnoreFileName = ".sensitignore"

// IgnoreMatcher holds patterns from an ignore file. Lines are glob
// patterns; a trailing slash matches the whole directory subtree; # starts
// a comment.
type IgnoreMatcher struct {
	dirs  []string
	globs []string
}

// LoadIgnore reads an ignore file. A missing file yields an empty matcher.
func LoadIgnore(path string) (IgnoreMatcher, error) {
	var m IgnoreMatcher
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return m, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasSuffix(line, "/") {
			m.dirs = append(m.dirs, strings.TrimSuffix(line, "/"))
			continue
		}
		m.globs = append(m.globs, line)
	}
	return m, sc.Err()
}

// Match reports whether a slash-separated relative path is ignored.
func (m IgnoreMatcher) Match(rel string) bool {
	rel = strings.ReplaceAll(rel, "\\", "/")
	for _, d := range m.dirs {
		if rel == d || strings.HasPrefix(rel, d+"/") {
			return true
		}
	}
	return matchAnyGlob(rel, m.globs)
}
