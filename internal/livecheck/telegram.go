package livecheck

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sensit/sensit/internal/types"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramChecker verifies a bot token via the getMe method.
type TelegramChecker struct {
	Client  *http.Client
	BaseURL string
}

func (c *TelegramChecker) Check(ctx context.Context, s *types.Secret) (bool, map[string]string, error) {
	base := c.BaseURL
	if base == "" {
		base = telegramAPIBase
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/bot"+s.Value+"/getMe", nil)
	if err != nil {
		return false, nil, err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return false, nil, err
	}
	defer resp.Body.Close()

	var body struct {
		OK     bool `json:"ok"`
		Result struct {
			Username string `json:"username"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, nil, err
	}
	if !body.OK {
		return false, map[string]string{"service": "telegram", "status": resp.Status}, nil
	}
	return true, map[string]string{"service": "telegram", "bot": body.Result.Username}, nil
}
