package aivalidate

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensit/sensit/internal/types"
)

func testLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type stubProvider struct {
	batchSize int
	scores    map[int]Score
	err       error
	calls     int
}

func (p *stubProvider) Name() string   { return "stub" }
func (p *stubProvider) BatchSize() int { return p.batchSize }

func (p *stubProvider) ScoreOne(ctx context.Context, item Item) (Score, error) {
	return scoreOneViaBatch(ctx, p, item)
}

func (p *stubProvider) ScoreBatch(_ context.Context, items []Item) ([]Score, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	var out []Score
	for _, it := range items {
		if sc, ok := p.scores[it.ID]; ok {
			out = append(out, sc)
		}
	}
	return out, nil
}

func TestStatusForConfidenceBoundaries(t *testing.T) {
	cases := map[float64]types.Status{
		29: types.StatusUnverified,
		30: types.StatusPossible,
		59: types.StatusPossible,
		60: types.StatusLikely,
		84: types.StatusLikely,
		85: types.StatusConfirmed,
	}
	for c, want := range cases {
		assert.Equal(t, want, StatusForConfidence(c), "confidence %v", c)
	}
}

func TestValidateAllAppliesScores(t *testing.T) {
	p := &stubProvider{
		batchSize: 5,
		scores: map[int]Score{
			0: {ID: 0, Confidence: 90, Reasoning: "live-looking key"},
			1: {ID: 1, Confidence: 10, Reasoning: "placeholder"},
		},
	}
	v := NewValidator(p, testLogger())
	a := types.NewSecret("github_token", "ghp_a", "f", 1)
	b := types.NewSecret("high_entropy_string", "xyz", "f", 2)
	v.ValidateAll(context.Background(), []*types.Secret{a, b})

	require.Equal(t, 90.0, a.AIConfidence)
	assert.Equal(t, types.StatusConfirmed, a.Status)
	assert.Equal(t, "live-looking key", a.AIReasoning)
	assert.Equal(t, types.StatusUnverified, b.Status)
	// The AI stage never touches severity.
	assert.Equal(t, types.SevMedium, a.Severity)
}

func TestValidateAllBatchFailureLeavesRecordsUnchanged(t *testing.T) {
	p := &stubProvider{batchSize: 5, err: errors.New("rate limited")}
	v := NewValidator(p, testLogger())
	secrets := []*types.Secret{
		types.NewSecret("a", "v1", "f", 1),
		types.NewSecret("b", "v2", "f", 2),
	}
	before := make([]types.Secret, len(secrets))
	for i, s := range secrets {
		before[i] = *s
	}
	v.ValidateAll(context.Background(), secrets)
	require.Len(t, secrets, 2)
	for i, s := range secrets {
		assert.Equal(t, before[i], *s, "record %d mutated by failed batch", i)
	}
}

func TestValidateAllPartitionsBatches(t *testing.T) {
	p := &stubProvider{batchSize: 5, scores: map[int]Score{}}
	v := NewValidator(p, testLogger())
	var secrets []*types.Secret
	for i := 0; i < 12; i++ {
		secrets = append(secrets, types.NewSecret("t", "v", "f", i))
	}
	v.ValidateAll(context.Background(), secrets)
	assert.Equal(t, 3, p.calls)
}

func TestNilProviderIsPassthrough(t *testing.T) {
	v := NewValidator(nil, testLogger())
	assert.False(t, v.Enabled())
	s := types.NewSecret("a", "v", "f", 1)
	v.ValidateAll(context.Background(), []*types.Secret{s})
	assert.Equal(t, types.StatusUnverified, s.Status)
	assert.Zero(t, s.AIConfidence)
}

func TestClampBatchSize(t *testing.T) {
	assert.Equal(t, 10, clampBatchSize(0, 10))
	assert.Equal(t, 5, clampBatchSize(2, 10))
	assert.Equal(t, 10, clampBatchSize(50, 10))
	assert.Equal(t, 7, clampBatchSize(7, 10))
}
