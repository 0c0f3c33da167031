package extract

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sensit/sensit/internal/rules"
	"github.com/sensit/sensit/internal/types"
)

// RuleContextLines is the context window radius for rule matches.
const RuleContextLines = 5

// Matcher scans content against a compiled rule set. It is stateless and
// safe for concurrent use.
type Matcher struct {
	set rules.Set
	log logrus.FieldLogger
}

// NewMatcher builds a matcher over the given rule set.
func NewMatcher(set rules.Set, log logrus.FieldLogger) *Matcher {
	return &Matcher{set: set, log: log}
}

// FindMatches returns every rule match in content, tagged with location.
// No threshold filtering happens here; that is the orchestrator's job.
// A rule with a capture group narrows the recorded value to that group,
// so assignment-style patterns yield the credential rather than the whole
// assignment text.
func (m *Matcher) FindMatches(content, location string) []*types.Secret {
	var out []*types.Secret
	lines := strings.Split(content, "\n")
	for _, rule := range m.set {
		spans := rule.Regexp().FindAllStringSubmatchIndex(content, -1)
		for _, span := range spans {
			start, end := span[0], span[1]
			if len(span) >= 4 && span[2] >= 0 {
				start, end = span[2], span[3]
			}
			value := content[start:end]
			line := 1 + strings.Count(content[:start], "\n")
			ctx := contextWindow(lines, line, RuleContextLines)
			if len(rule.ContextKeywords) > 0 && !containsKeyword(ctx, rule.ContextKeywords) {
				continue
			}
			s := types.NewSecret(rule.Name, value, location, line)
			s.Context = ctx
			s.Severity = rule.Severity
			s.MatchedByRule = true
			out = append(out, s)
		}
	}
	if len(out) > 0 {
		m.log.WithFields(logrus.Fields{"location": location, "matches": len(out)}).Debug("rule matches")
	}
	return out
}

// contextWindow returns the lines within radius of the 1-based line number.
func contextWindow(lines []string, line, radius int) string {
	start := line - radius - 1
	if start < 0 {
		start = 0
	}
	end := line + radius
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}

func containsKeyword(ctx string, keywords []string) bool {
	lower := strings.ToLower(ctx)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
