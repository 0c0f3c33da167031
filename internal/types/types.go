package types

import (
	"time"
)

// Severity is the impact classification of a secret.
type Severity string

const (
	SevLow      Severity = "LOW"
	SevMedium   Severity = "MEDIUM"
	SevHigh     Severity = "HIGH"
	SevCritical Severity = "CRITICAL"
)

var severityRank = map[Severity]int{
	SevLow:      0,
	SevMedium:   1,
	SevHigh:     2,
	SevCritical: 3,
}

// Rank returns the ordering position of s; unknown severities rank lowest.
func (s Severity) Rank() int { return severityRank[s] }

// ParseSeverity maps a string to a Severity, defaulting to MEDIUM.
func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case SevLow, SevMedium, SevHigh, SevCritical:
		return Severity(s)
	}
	return SevMedium
}

// Status is the evidence-escalation stage of a secret.
type Status string

const (
	StatusUnverified Status = "UNVERIFIED"
	StatusPossible   Status = "POSSIBLE"
	StatusLikely     Status = "LIKELY"
	StatusConfirmed  Status = "CONFIRMED"
)

var statusRank = map[Status]int{
	StatusUnverified: 0,
	StatusPossible:   1,
	StatusLikely:     2,
	StatusConfirmed:  3,
}

// Rank returns the ordering position of s; unknown statuses rank lowest.
func (s Status) Rank() int { return statusRank[s] }

// Secret is a detected credential candidate. It is created by extraction
// and mutated in place by at most one validator at a time.
type Secret struct {
	RuleType      string            `json:"type"`
	Value         string            `json:"value"`
	Location      string            `json:"location"`
	LineNumber    int               `json:"line_number"`
	Context       string            `json:"context"`
	Entropy       float64           `json:"entropy"`
	MatchedByRule bool              `json:"matched_by_rule"`
	AIConfidence  float64           `json:"ai_confidence"`
	AIReasoning   string            `json:"ai_reasoning"`
	LiveValid     *bool             `json:"api_valid"` // nil = unknown
	LiveDetails   map[string]string `json:"api_details,omitempty"`
	Severity      Severity          `json:"severity"`
	Status        Status            `json:"status"`
	DiscoveredAt  time.Time         `json:"discovered_at"`
}

// NewSecret returns a Secret with the default MEDIUM/UNVERIFIED classification.
func NewSecret(ruleType, value, location string, line int) *Secret {
	return &Secret{
		RuleType:     ruleType,
		Value:        value,
		Location:     location,
		LineNumber:   line,
		Severity:     SevMedium,
		Status:       StatusUnverified,
		DiscoveredAt: time.Now(),
	}
}

// EscalateStatus raises the status to next if next ranks higher.
// Downgrades are rejected and reported as false.
func (s *Secret) EscalateStatus(next Status) bool {
	if next.Rank() <= s.Status.Rank() {
		return false
	}
	s.Status = next
	return true
}

// EscalateSeverity raises the severity to next if next ranks higher.
func (s *Secret) EscalateSeverity(next Severity) bool {
	if next.Rank() <= s.Severity.Rank() {
		return false
	}
	s.Severity = next
	return true
}

// ConfirmLive records a successful live check. Live proof of a working
// credential dominates any prior classification, so this is the one path
// allowed to set CONFIRMED/CRITICAL unconditionally.
func (s *Secret) ConfirmLive(details map[string]string) {
	valid := true
	s.LiveValid = &valid
	s.LiveDetails = details
	s.Status = StatusConfirmed
	s.Severity = SevCritical
}

// Score computes a composite 0-100 confidence. It is a reporting
// convenience only and is never consulted by pipeline control flow.
func (s *Secret) Score() float64 {
	score := 0.0
	if s.MatchedByRule {
		score += 20
	}
	switch {
	case s.Entropy > 4.0:
		score += 15
	case s.Entropy > 3.5:
		score += 10
	}
	score += (s.AIConfidence / 100) * 40
	if s.LiveValid != nil && *s.LiveValid {
		score += 25
	}
	if score > 100 {
		score = 100
	}
	return score
}

// ScanResult aggregates the secrets discovered for one scan target.
// Secrets keeps first-discovery order through dedup and validation.
type ScanResult struct {
	Target       string
	Secrets      []*Secret
	FilesScanned int
	Duration     time.Duration
	StartedAt    time.Time
}

// NewScanResult starts an empty result for target, stamped with the current time.
func NewScanResult(target string) *ScanResult {
	return &ScanResult{Target: target, StartedAt: time.Now()}
}

// Add appends a secret, preserving discovery order.
func (r *ScanResult) Add(s *Secret) {
	r.Secrets = append(r.Secrets, s)
}

// CountBySeverity returns the number of secrets per severity.
func (r *ScanResult) CountBySeverity() map[Severity]int {
	out := map[Severity]int{}
	for _, s := range r.Secrets {
		out[s.Severity]++
	}
	return out
}

// CountByStatus returns the number of secrets per status.
func (r *ScanResult) CountByStatus() map[Status]int {
	out := map[Status]int{}
	for _, s := range r.Secrets {
		out[s.Status]++
	}
	return out
}

// LiveConfirmed returns the secrets proven valid by a live check.
func (r *ScanResult) LiveConfirmed() []*Secret {
	var out []*Secret
	for _, s := range r.Secrets {
		if s.LiveValid != nil && *s.LiveValid {
			out = append(out, s)
		}
	}
	return out
}
