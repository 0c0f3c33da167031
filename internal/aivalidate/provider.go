package aivalidate

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Item is one candidate submitted for scoring, identified positionally
// within its batch.
type Item struct {
	ID      int     `json:"id"`
	Type    string  `json:"type"`
	Value   string  `json:"value"`
	Entropy float64 `json:"entropy"`
	Context string  `json:"context"`
}

// Score is a provider's verdict for one item.
type Score struct {
	ID         int     `json:"id"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Provider is a language-model backend able to score candidates.
// Implementations are selected at configuration time; there is no runtime
// provider switching.
type Provider interface {
	Name() string
	BatchSize() int
	ScoreOne(ctx context.Context, item Item) (Score, error)
	ScoreBatch(ctx context.Context, items []Item) ([]Score, error)
}

// Config selects and parameterizes a provider.
type Config struct {
	Provider    string // openai | gemini | ollama | azure-openai
	APIKey      string
	Model       string
	BaseURL     string // ollama/openai base override
	Endpoint    string // azure endpoint
	Deployment  string // azure deployment name
	MaxTokens   int
	Temperature float64
	BatchSize   int
}

// New builds the configured provider. A missing key or unreachable local
// backend returns an error; callers treat that as "validator disabled",
// not as a fatal condition.
func New(cfg Config, log logrus.FieldLogger) (Provider, error) {
	switch cfg.Provider {
	case "", "openai":
		return newOpenAI(cfg, log)
	case "gemini":
		return newGemini(cfg, log)
	case "ollama":
		return newOllama(cfg, log)
	case "azure-openai":
		return newAzureOpenAI(cfg, log)
	}
	return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
}

func clampBatchSize(n, fallback int) int {
	if n <= 0 {
		return fallback
	}
	if n < 5 {
		return 5
	}
	if n > 10 {
		return 10
	}
	return n
}
