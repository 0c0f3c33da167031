package extract

import (
	"math"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sensit/sensit/internal/types"
)

// RuleTypeHighEntropy tags records produced by entropy analysis alone.
const RuleTypeHighEntropy = "high_entropy_string"

// EntropyContextLines is the context window radius for entropy matches.
const EntropyContextLines = 3

// Defaults for candidate extraction.
const (
	DefaultMinEntropy = 3.5
	DefaultMinLength  = 12
)

// Permissive capture shapes for literals that tend to hold credentials:
// quoted tokens, assignment right-hand sides, env-style exports, and
// JSON-style string values.
var capturePatterns = []*regexp.Regexp{
	regexp.MustCompile(`["']([A-Za-z0-9+/=_-]{12,})["']`),
	regexp.MustCompile(`=\s*([A-Za-z0-9+/=_-]{12,})`),
	regexp.MustCompile(`export\s+\w+=([A-Za-z0-9+/=_-]{12,})`),
	regexp.MustCompile(`:\s*["']([A-Za-z0-9+/=_-]{12,})["']`),
}

// Entropy computes the Shannon entropy of s in bits per symbol over the
// character-frequency distribution. Empty input is 0.0.
func Entropy(s string) float64 {
	if s == "" {
		return 0
	}
	count := map[rune]int{}
	n := 0
	for _, r := range s {
		count[r]++
		n++
	}
	h := 0.0
	for _, c := range count {
		p := float64(c) / float64(n)
		h -= p * math.Log2(p)
	}
	return h
}

// Analyzer emits high-entropy literals independent of any named rule.
type Analyzer struct {
	MinEntropy float64
	MinLength  int

	log logrus.FieldLogger
}

// NewAnalyzer builds an analyzer; zero thresholds take the defaults.
func NewAnalyzer(minEntropy float64, minLength int, log logrus.FieldLogger) *Analyzer {
	if minEntropy <= 0 {
		minEntropy = DefaultMinEntropy
	}
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	return &Analyzer{MinEntropy: minEntropy, MinLength: minLength, log: log}
}

// FindHighEntropy scans content line by line for random-looking literals.
func (a *Analyzer) FindHighEntropy(content, location string) []*types.Secret {
	var out []*types.Secret
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lineNum := i + 1
		for _, pat := range capturePatterns {
			for _, m := range pat.FindAllStringSubmatch(line, -1) {
				value := m[len(m)-1]
				if len(value) < a.MinLength {
					continue
				}
				ent := Entropy(value)
				if ent < a.MinEntropy {
					continue
				}
				s := types.NewSecret(RuleTypeHighEntropy, value, location, lineNum)
				s.Context = contextWindow(lines, lineNum, EntropyContextLines)
				s.Entropy = ent
				out = append(out, s)
			}
		}
	}
	if len(out) > 0 {
		a.log.WithFields(logrus.Fields{"location": location, "candidates": len(out)}).Debug("high-entropy candidates")
	}
	return out
}

// Refresh fills in entropy for records still carrying the zero default.
func (a *Analyzer) Refresh(s *types.Secret) {
	if s.Entropy == 0 {
		s.Entropy = Entropy(s.Value)
	}
}
