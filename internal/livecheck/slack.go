package livecheck

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sensit/sensit/internal/types"
)

const slackAPIBase = "https://slack.com/api"

// SlackTokenChecker verifies a bot or user token via auth.test.
type SlackTokenChecker struct {
	Client  *http.Client
	BaseURL string
}

func (c *SlackTokenChecker) Check(ctx context.Context, s *types.Secret) (bool, map[string]string, error) {
	base := c.BaseURL
	if base == "" {
		base = slackAPIBase
	}
	form := url.Values{"token": {s.Value}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/auth.test", strings.NewReader(form.Encode()))
	if err != nil {
		return false, nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.Client.Do(req)
	if err != nil {
		return false, nil, err
	}
	defer resp.Body.Close()

	var body struct {
		OK    bool   `json:"ok"`
		Team  string `json:"team"`
		User  string `json:"user"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, nil, err
	}
	if !body.OK {
		return false, map[string]string{"service": "slack", "reason": body.Error}, nil
	}
	return true, map[string]string{"service": "slack", "team": body.Team, "user": body.User}, nil
}

// SlackWebhookChecker verifies a webhook URL by posting a minimal payload.
// A live webhook answers "ok"; a revoked one answers 404/no_service.
type SlackWebhookChecker struct {
	Client  *http.Client
	BaseURL string
}

func (c *SlackWebhookChecker) Check(ctx context.Context, s *types.Secret) (bool, map[string]string, error) {
	target := s.Value
	if c.BaseURL != "" {
		// Tests redirect the webhook host while keeping the path.
		if u, err := url.Parse(s.Value); err == nil {
			target = c.BaseURL + u.Path
		}
	}
	payload := strings.NewReader(`{"text": ""}`)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, payload)
	if err != nil {
		return false, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return false, nil, err
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 256))

	if resp.StatusCode == http.StatusOK {
		return true, map[string]string{"service": "slack_webhook"}, nil
	}
	return false, map[string]string{"service": "slack_webhook", "status": resp.Status, "body": strings.TrimSpace(string(raw))}, nil
}
