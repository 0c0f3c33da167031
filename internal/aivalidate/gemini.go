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
	geminiDefaultBaseURL = "https://generativelanguage.googleapis.com"
	geminiDefaultModel   = "gemini-pro"
	geminiDefaultBatch   = 10
)

// geminiProvider scores candidates through the Google Generative Language API.
type geminiProvider struct {
	apiKey      string
	model       string
	baseURL     string
	maxTokens   int
	temperature float64
	batchSize   int
	httpc       *http.Client
	log         logrus.FieldLogger
}

func newGemini(cfg Config, log logrus.FieldLogger) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key not configured")
	}
	p := &geminiProvider{
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		baseURL:     cfg.BaseURL,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		batchSize:   clampBatchSize(cfg.BatchSize, geminiDefaultBatch),
		httpc:       &http.Client{Timeout: 60 * time.Second},
		log:         log,
	}
	if p.model == "" {
		p.model = geminiDefaultModel
	}
	if p.baseURL == "" {
		p.baseURL = geminiDefaultBaseURL
	}
	if p.maxTokens <= 0 {
		p.maxTokens = openAIDefaultMaxTokens
	}
	log.WithField("model", p.model).Info("initialized gemini provider")
	return p, nil
}

func (p *geminiProvider) Name() string   { return "gemini" }
func (p *geminiProvider) BatchSize() int { return p.batchSize }

func (p *geminiProvider) ScoreOne(ctx context.Context, item Item) (Score, error) {
	return scoreOneViaBatch(ctx, p, item)
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *geminiProvider) ScoreBatch(ctx context.Context, items []Item) ([]Score, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: batchPrompt(items)}}}},
		GenerationConfig: geminiGenConfig{
			Temperature:     p.temperature,
			MaxOutputTokens: p.maxTokens * 2,
		},
	}
	body, _ := json.Marshal(reqBody)

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", p.baseURL, p.model, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("gemini response: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("gemini error: %s", out.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini status %d", resp.StatusCode)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("gemini returned no candidates")
	}
	return parseBatchResponse(out.Candidates[0].Content.Parts[0].Text)
}
