package livecheck

import (
	"context"
	"net/http"
	"strings"

	"github.com/sensit/sensit/internal/types"
)

const stripeAPIBase = "https://api.stripe.com"

// StripeChecker verifies a secret key with a read-only balance call.
type StripeChecker struct {
	Client  *http.Client
	BaseURL string
}

func (c *StripeChecker) Check(ctx context.Context, s *types.Secret) (bool, map[string]string, error) {
	base := c.BaseURL
	if base == "" {
		base = stripeAPIBase
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/v1/balance", nil)
	if err != nil {
		return false, nil, err
	}
	req.SetBasicAuth(s.Value, "")

	resp, err := c.Client.Do(req)
	if err != nil {
		return false, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, map[string]string{"service": "stripe", "status": resp.Status}, nil
	}
	mode := "live"
	if strings.HasPrefix(s.Value, "sk_test") {
		mode = "test"
	}
	return true, map[string]string{"service": "stripe", "mode": mode}, nil
}
