package aivalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	ollamaDefaultBaseURL = "http://localhost:11434"
	ollamaDefaultModel   = "llama2"
	ollamaDefaultBatch   = 5
)

// ollamaProvider scores candidates through a locally running Ollama server.
type ollamaProvider struct {
	model       string
	baseURL     string
	maxTokens   int
	temperature float64
	batchSize   int
	httpc       *http.Client
	log         logrus.FieldLogger
}

func newOllama(cfg Config, log logrus.FieldLogger) (Provider, error) {
	p := &ollamaProvider{
		model:       cfg.Model,
		baseURL:     cfg.BaseURL,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		batchSize:   clampBatchSize(cfg.BatchSize, ollamaDefaultBatch),
		httpc:       &http.Client{Timeout: 120 * time.Second},
		log:         log,
	}
	if p.model == "" {
		p.model = ollamaDefaultModel
	}
	if p.baseURL == "" {
		p.baseURL = ollamaDefaultBaseURL
	}
	if p.maxTokens <= 0 {
		p.maxTokens = openAIDefaultMaxTokens
	}
	// Probe the server; an unreachable local backend disables the stage.
	if err := p.ping(); err != nil {
		return nil, fmt.Errorf("ollama not reachable at %s: %w", p.baseURL, err)
	}
	log.WithField("model", p.model).Info("initialized ollama provider")
	return p, nil
}

func (p *ollamaProvider) ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := p.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

func (p *ollamaProvider) Name() string   { return "ollama" }
func (p *ollamaProvider) BatchSize() int { return p.batchSize }

func (p *ollamaProvider) ScoreOne(ctx context.Context, item Item) (Score, error) {
	return scoreOneViaBatch(ctx, p, item)
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

func (p *ollamaProvider) ScoreBatch(ctx context.Context, items []Item) ([]Score, error) {
	reqBody := ollamaRequest{
		Model:  p.model,
		Prompt: batchPrompt(items),
		Stream: false,
		Options: ollamaOptions{
			Temperature: p.temperature,
			NumPredict:  p.maxTokens * 2,
		},
	}
	body, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	var out ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("ollama response: %w", err)
	}
	if out.Error != "" {
		return nil, errors.New("ollama error: " + out.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama status %d", resp.StatusCode)
	}
	return parseBatchResponse(out.Response)
}
