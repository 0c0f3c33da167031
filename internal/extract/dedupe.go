package extract

import (
	xxhash "github.com/cespare/xxhash/v2"

	"github.com/sensit/sensit/internal/types"
)

// Dedupe collapses duplicate records, keeping the first occurrence and
// preserving order. Identity is (ruleType, value, location). A record found
// by both a named rule and the entropy analyzer additionally collapses on
// (value, location): the rule engine runs first, so the rule-tagged record
// wins and the entropy-tagged duplicate is dropped.
func Dedupe(in []*types.Secret) []*types.Secret {
	seen := map[uint64]struct{}{}
	seenLiteral := map[uint64]struct{}{}
	out := make([]*types.Secret, 0, len(in))
	for _, s := range in {
		key := identityKey(s.RuleType, s.Value, s.Location)
		if _, dup := seen[key]; dup {
			continue
		}
		lit := identityKey("", s.Value, s.Location)
		if _, dup := seenLiteral[lit]; dup && s.RuleType == RuleTypeHighEntropy {
			continue
		}
		seen[key] = struct{}{}
		seenLiteral[lit] = struct{}{}
		out = append(out, s)
	}
	return out
}

func identityKey(ruleType, value, location string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(ruleType)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(value)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(location)
	return d.Sum64()
}
