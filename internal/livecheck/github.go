package livecheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sensit/sensit/internal/types"
)

const githubAPIBase = "https://api.github.com"

// GitHubChecker verifies a token against the authenticated-user endpoint.
type GitHubChecker struct {
	Client  *http.Client
	BaseURL string
}

func (c *GitHubChecker) Check(ctx context.Context, s *types.Secret) (bool, map[string]string, error) {
	base := c.BaseURL
	if base == "" {
		base = githubAPIBase
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/user", nil)
	if err != nil {
		return false, nil, err
	}
	req.Header.Set("Authorization", "token "+s.Value)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return false, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, map[string]string{"status": resp.Status}, nil
	}
	var user struct {
		Login string `json:"login"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return false, nil, fmt.Errorf("decode github response: %w", err)
	}
	return true, map[string]string{"service": "github", "login": user.Login}, nil
}
