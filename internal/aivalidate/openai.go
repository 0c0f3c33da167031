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
	openAIDefaultBaseURL   = "https://api.openai.com/v1"
	openAIDefaultModel     = "gpt-4o-mini"
	openAIDefaultMaxTokens = 500
	openAIDefaultBatch     = 10
)

// openAIProvider scores candidates through the OpenAI chat completions API.
type openAIProvider struct {
	apiKey      string
	model       string
	baseURL     string
	maxTokens   int
	temperature float64
	batchSize   int
	httpc       *http.Client
	log         logrus.FieldLogger
}

func newOpenAI(cfg Config, log logrus.FieldLogger) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key not configured")
	}
	p := &openAIProvider{
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		baseURL:     cfg.BaseURL,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		batchSize:   clampBatchSize(cfg.BatchSize, openAIDefaultBatch),
		httpc:       &http.Client{Timeout: 60 * time.Second},
		log:         log,
	}
	if p.model == "" {
		p.model = openAIDefaultModel
	}
	if p.baseURL == "" {
		p.baseURL = openAIDefaultBaseURL
	}
	if p.maxTokens <= 0 {
		p.maxTokens = openAIDefaultMaxTokens
	}
	log.WithField("model", p.model).Info("initialized openai provider")
	return p, nil
}

func (p *openAIProvider) Name() string   { return "openai" }
func (p *openAIProvider) BatchSize() int { return p.batchSize }

func (p *openAIProvider) ScoreOne(ctx context.Context, item Item) (Score, error) {
	return scoreOneViaBatch(ctx, p, item)
}

type openAIChatRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	MaxTokens      int             `json:"max_tokens"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *openAIFormat   `json:"response_format,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIFormat struct {
	Type string `json:"type"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *openAIProvider) ScoreBatch(ctx context.Context, items []Item) ([]Score, error) {
	reqBody := openAIChatRequest{
		Model: p.model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: batchPrompt(items)},
		},
		MaxTokens:      p.maxTokens * len(items),
		Temperature:    p.temperature,
		ResponseFormat: &openAIFormat{Type: "json_object"},
	}
	body, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	var out openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("openai response: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("openai error: %s", out.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai status %d", resp.StatusCode)
	}
	if len(out.Choices) == 0 {
		return nil, errors.New("openai returned no choices")
	}
	return parseBatchResponse(out.Choices[0].Message.Content)
}

// scoreOneViaBatch adapts single-item scoring onto a provider's batch call.
func scoreOneViaBatch(ctx context.Context, p Provider, item Item) (Score, error) {
	scores, err := p.ScoreBatch(ctx, []Item{item})
	if err != nil {
		return Score{}, err
	}
	if len(scores) == 0 {
		return Score{}, errors.New("empty batch result")
	}
	return scores[0], nil
}
