package aivalidate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIScoreBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req openAIChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)

		content := `{"secrets": [{"id": 0, "confidence": 72, "reasoning": "prod-looking"}]}`
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p, err := newOpenAI(Config{APIKey: "sk-test", BaseURL: srv.URL}, testLogger())
	require.NoError(t, err)

	scores, err := p.ScoreBatch(context.Background(), []Item{{ID: 0, Type: "github_token", Value: "ghp_x"}})
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 72.0, scores[0].Confidence)
}

func TestOpenAIServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limit"}}`))
	}))
	defer srv.Close()

	p, err := newOpenAI(Config{APIKey: "sk-test", BaseURL: srv.URL}, testLogger())
	require.NoError(t, err)

	_, err = p.ScoreBatch(context.Background(), []Item{{ID: 0}})
	require.Error(t, err)
}

func TestOpenAIRequiresKey(t *testing.T) {
	_, err := newOpenAI(Config{}, testLogger())
	require.Error(t, err)
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "watson"}, testLogger())
	require.Error(t, err)
}
