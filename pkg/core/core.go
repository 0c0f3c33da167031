package core

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/sensit/sensit/internal/extract"
	"github.com/sensit/sensit/internal/pipeline"
	"github.com/sensit/sensit/internal/rules"
	"github.com/sensit/sensit/internal/source"
	"github.com/sensit/sensit/internal/types"
)

// Re-export the result model as a stable public API surface. These are
// type aliases so external consumers can depend on a stable path.
type Secret = types.Secret
type ScanResult = types.ScanResult

// Options tunes a facade scan. Zero values take the built-in defaults.
type Options struct {
	// RulesPath points at a custom YAML rule file; empty uses the builtin
	// rule set.
	RulesPath string
	// MinEntropy and MinLength tune the entropy analyzer.
	MinEntropy float64
	MinLength  int
	// Log receives scan diagnostics; nil discards them.
	Log logrus.FieldLogger
}

// ScanFile extracts credentials from a single file.
func ScanFile(ctx context.Context, path string, opts Options) (*ScanResult, error) {
	return run(ctx, source.NewFileSource(), path, opts)
}

// ScanDir extracts credentials from a directory tree.
func ScanDir(ctx context.Context, dir string, opts Options) (*ScanResult, error) {
	return run(ctx, source.NewDirSource(logOrDiscard(opts)), dir, opts)
}

// ScanURL extracts credentials from a web page and same-domain links.
func ScanURL(ctx context.Context, url string, opts Options) (*ScanResult, error) {
	return run(ctx, source.NewCrawlSource(logOrDiscard(opts)), url, opts)
}

func run(ctx context.Context, src source.Source, target string, opts Options) (*ScanResult, error) {
	log := logOrDiscard(opts)
	var set rules.Set
	if opts.RulesPath != "" {
		set = rules.Load(opts.RulesPath, log)
	} else {
		set = rules.Builtin(log)
	}
	p := &pipeline.Pipeline{
		Matcher:  extract.NewMatcher(set, log),
		Analyzer: extract.NewAnalyzer(opts.MinEntropy, opts.MinLength, log),
		Log:      log,
	}
	return p.Run(ctx, src, target)
}

func logOrDiscard(opts Options) logrus.FieldLogger {
	if opts.Log != nil {
		return opts.Log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
