package types

import "testing"

func TestEscalateStatusNeverDowngrades(t *testing.T) {
	s := NewSecret("github_token", "ghp_x", "a.txt", 1)
	if !s.EscalateStatus(StatusLikely) {
		t.Fatalf("expected escalation to LIKELY")
	}
	if s.EscalateStatus(StatusPossible) {
		t.Fatalf("downgrade to POSSIBLE must be rejected")
	}
	if s.Status != StatusLikely {
		t.Fatalf("status changed on rejected transition: %s", s.Status)
	}
}

func TestEscalateSeverityNeverDowngrades(t *testing.T) {
	s := NewSecret("aws_access_key", "AKIA...", "a.txt", 1)
	s.EscalateSeverity(SevHigh)
	if s.EscalateSeverity(SevLow) {
		t.Fatalf("downgrade to LOW must be rejected")
	}
	if s.Severity != SevHigh {
		t.Fatalf("severity changed on rejected transition: %s", s.Severity)
	}
}

func TestConfirmLiveOverridesEverything(t *testing.T) {
	s := NewSecret("stripe_secret_key", "sk_live_x", "a.txt", 3)
	s.AIConfidence = 12
	s.Status = StatusUnverified
	s.Severity = SevLow
	s.ConfirmLive(map[string]string{"account": "acct_1"})
	if s.Status != StatusConfirmed || s.Severity != SevCritical {
		t.Fatalf("live confirmation must yield CONFIRMED/CRITICAL, got %s/%s", s.Status, s.Severity)
	}
	if s.LiveValid == nil || !*s.LiveValid {
		t.Fatalf("LiveValid not set")
	}
	if s.LiveDetails["account"] != "acct_1" {
		t.Fatalf("details not recorded")
	}
}

func TestParseSeverityDefaultsToMedium(t *testing.T) {
	if ParseSeverity("bogus") != SevMedium {
		t.Fatalf("unknown severity should default to MEDIUM")
	}
	if ParseSeverity("CRITICAL") != SevCritical {
		t.Fatalf("known severity should parse")
	}
}

func TestScoreIsReportingOnly(t *testing.T) {
	s := NewSecret("generic_api_key", "x", "a.txt", 1)
	s.MatchedByRule = true
	s.Entropy = 4.2
	s.AIConfidence = 100
	valid := true
	s.LiveValid = &valid
	if got := s.Score(); got != 100 {
		t.Fatalf("expected capped score 100, got %v", got)
	}
	s.LiveValid = nil
	s.AIConfidence = 50
	// 20 + 15 + 20 = 55
	if got := s.Score(); got != 55 {
		t.Fatalf("expected 55, got %v", got)
	}
}

func TestScanResultCounts(t *testing.T) {
	r := NewScanResult("repo")
	a := NewSecret("a", "v1", "f", 1)
	a.Severity = SevHigh
	a.Status = StatusLikely
	b := NewSecret("b", "v2", "f", 2)
	b.ConfirmLive(nil)
	r.Add(a)
	r.Add(b)
	if r.CountBySeverity()[SevHigh] != 1 || r.CountBySeverity()[SevCritical] != 1 {
		t.Fatalf("severity counts wrong: %v", r.CountBySeverity())
	}
	if r.CountByStatus()[StatusConfirmed] != 1 {
		t.Fatalf("status counts wrong: %v", r.CountByStatus())
	}
	if len(r.LiveConfirmed()) != 1 {
		t.Fatalf("expected one live-confirmed secret")
	}
}
