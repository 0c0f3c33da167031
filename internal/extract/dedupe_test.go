package extract

import (
	"testing"

	"github.com/sensit/sensit/internal/types"
)

func TestDedupeFirstWins(t *testing.T) {
	a := types.NewSecret("github_token", "ghp_x", "a.txt", 1)
	a.Entropy = 4.2
	b := types.NewSecret("github_token", "ghp_x", "a.txt", 9)
	out := Dedupe([]*types.Secret{a, b})
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	if out[0].LineNumber != 1 || out[0].Entropy != 4.2 {
		t.Fatalf("first occurrence must be kept")
	}
}

func TestDedupeDistinctLocationsKept(t *testing.T) {
	a := types.NewSecret("github_token", "ghp_x", "a.txt", 1)
	b := types.NewSecret("github_token", "ghp_x", "b.txt", 1)
	if out := Dedupe([]*types.Secret{a, b}); len(out) != 2 {
		t.Fatalf("different locations are different records, got %d", len(out))
	}
}

func TestDedupeCollapsesRuleAndEntropyDuplicates(t *testing.T) {
	// The rule engine runs before the entropy analyzer, so a literal found
	// by both collapses to the rule-tagged record.
	rule := types.NewSecret("generic_api_key", "aGVsbG93b3JsZDEyMzQ1Njc4OTA=", "app.js", 4)
	rule.MatchedByRule = true
	ent := types.NewSecret(RuleTypeHighEntropy, "aGVsbG93b3JsZDEyMzQ1Njc4OTA=", "app.js", 4)
	out := Dedupe([]*types.Secret{rule, ent})
	if len(out) != 1 {
		t.Fatalf("expected rule/entropy duplicate to collapse, got %d", len(out))
	}
	if !out[0].MatchedByRule {
		t.Fatalf("the rule-tagged record must win")
	}
}

func TestDedupeIdempotent(t *testing.T) {
	in := []*types.Secret{
		types.NewSecret("a", "v", "f", 1),
		types.NewSecret("a", "v", "f", 2),
		types.NewSecret("b", "w", "f", 3),
	}
	once := Dedupe(in)
	twice := Dedupe(once)
	if len(once) != len(twice) {
		t.Fatalf("dedupe not idempotent: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("dedupe(dedupe(x)) != dedupe(x) at %d", i)
		}
	}
}
