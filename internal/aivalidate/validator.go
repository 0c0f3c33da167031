package aivalidate

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/sensit/sensit/internal/types"
)

// Confidence bands; each boundary is inclusive on its lower bound.
const (
	confidencePossible  = 30
	confidenceLikely    = 60
	confidenceConfirmed = 85
)

// StatusForConfidence maps a 0-100 confidence onto the status enum.
func StatusForConfidence(c float64) types.Status {
	switch {
	case c >= confidenceConfirmed:
		return types.StatusConfirmed
	case c >= confidenceLikely:
		return types.StatusLikely
	case c >= confidencePossible:
		return types.StatusPossible
	}
	return types.StatusUnverified
}

// Validator runs contextual confidence scoring over extracted secrets.
// With no provider it is a no-op passthrough; the pipeline treats that as
// graceful degradation, not a failure.
type Validator struct {
	provider Provider
	log      logrus.FieldLogger
}

// NewValidator wraps a provider. provider may be nil.
func NewValidator(provider Provider, log logrus.FieldLogger) *Validator {
	return &Validator{provider: provider, log: log}
}

// Enabled reports whether a provider is configured.
func (v *Validator) Enabled() bool { return v != nil && v.provider != nil }

// ValidateAll scores secrets in provider-sized batches, mutating each
// record's confidence, reasoning and status in place. A failed or
// unparsable batch leaves its records untouched; records are never lost.
func (v *Validator) ValidateAll(ctx context.Context, secrets []*types.Secret) {
	if !v.Enabled() || len(secrets) == 0 {
		return
	}
	size := v.provider.BatchSize()
	for start := 0; start < len(secrets); start += size {
		end := start + size
		if end > len(secrets) {
			end = len(secrets)
		}
		v.validateBatch(ctx, secrets[start:end])
	}
}

// ValidateOne scores a single secret.
func (v *Validator) ValidateOne(ctx context.Context, s *types.Secret) {
	if !v.Enabled() {
		return
	}
	score, err := v.provider.ScoreOne(ctx, itemFor(0, s))
	if err != nil {
		v.log.WithError(err).Warn("ai validation failed, record unchanged")
		return
	}
	apply(s, score)
}

func (v *Validator) validateBatch(ctx context.Context, batch []*types.Secret) {
	items := make([]Item, len(batch))
	for i, s := range batch {
		items[i] = itemFor(i, s)
	}
	scores, err := v.provider.ScoreBatch(ctx, items)
	if err != nil {
		v.log.WithError(err).WithField("batch", len(batch)).Warn("ai batch failed, records unchanged")
		return
	}
	byID := make(map[int]Score, len(scores))
	for _, sc := range scores {
		byID[sc.ID] = sc
	}
	for i, s := range batch {
		if sc, ok := byID[i]; ok {
			apply(s, sc)
		}
	}
}

func itemFor(id int, s *types.Secret) Item {
	return Item{
		ID:      id,
		Type:    s.RuleType,
		Value:   s.Value,
		Entropy: s.Entropy,
		Context: s.Context,
	}
}

// apply records the provider's verdict. Status escalates only; this stage
// never touches severity.
func apply(s *types.Secret, sc Score) {
	s.AIConfidence = sc.Confidence
	s.AIReasoning = sc.Reasoning
	s.EscalateStatus(StatusForConfidence(sc.Confidence))
}
