package rules

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/sensit/sensit/internal/types"
)

//go:embed patterns.yml
var builtinPatterns []byte

// Rule is a named regular expression with a default severity and an
// optional context-keyword gate.
type Rule struct {
	Name            string
	Severity        types.Severity
	ContextKeywords []string

	re *regexp.Regexp
}

// Regexp returns the compiled expression for the rule.
func (r Rule) Regexp() *regexp.Regexp { return r.re }

// Set is an ordered collection of compiled rules.
type Set []Rule

type fileRule struct {
	Pattern         string   `yaml:"pattern"`
	Severity        string   `yaml:"severity"`
	ContextKeywords []string `yaml:"context_keywords"`
}

// Parse compiles a YAML rule document. Rules with invalid expressions are
// skipped with a logged error; they never fail the whole set.
func Parse(b []byte, log logrus.FieldLogger) (Set, error) {
	var raw map[string]fileRule
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse rule set: %w", err)
	}
	// yaml maps are unordered; sort by name for a stable match order.
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	var set Set
	for _, name := range names {
		fr := raw[name]
		if fr.Pattern == "" {
			continue
		}
		// Original rule files assume multiline, case-insensitive matching.
		re, err := regexp.Compile("(?im)" + fr.Pattern)
		if err != nil {
			log.WithError(err).WithField("rule", name).Error("invalid rule pattern, skipping")
			continue
		}
		set = append(set, Rule{
			Name:            name,
			Severity:        types.ParseSeverity(fr.Severity),
			ContextKeywords: fr.ContextKeywords,
			re:              re,
		})
	}
	return set, nil
}

// Load reads a rule file from disk. A missing or unparsable file yields an
// empty set so the scan can continue with entropy-only detection.
func Load(path string, log logrus.FieldLogger) Set {
	b, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Error("rule set unavailable, continuing with entropy-only detection")
		return nil
	}
	set, err := Parse(b, log)
	if err != nil {
		log.WithError(err).WithField("path", path).Error("rule set unparsable, continuing with entropy-only detection")
		return nil
	}
	return set
}

// Builtin returns the embedded default rule set.
func Builtin(log logrus.FieldLogger) Set {
	set, err := Parse(builtinPatterns, log)
	if err != nil {
		log.WithError(err).Error("embedded rule set unparsable")
		return nil
	}
	return set
}
