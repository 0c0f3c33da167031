// Package livecheck verifies candidate credentials against the real service
// APIs they belong to. Checkers are registered per rule type; secrets of an
// unregistered type pass through untouched.
package livecheck

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sensit/sensit/internal/types"
)

// DefaultTimeout bounds a single live check.
const DefaultTimeout = 10 * time.Second

// Checker performs one live verification of a secret. It returns whether
// the credential works plus diagnostic details, or an error when the check
// itself could not complete (transport failure, malformed input).
type Checker interface {
	Check(ctx context.Context, s *types.Secret) (valid bool, details map[string]string, err error)
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(ctx context.Context, s *types.Secret) (bool, map[string]string, error)

func (f CheckerFunc) Check(ctx context.Context, s *types.Secret) (bool, map[string]string, error) {
	return f(ctx, s)
}

// Validator dispatches secrets to per-type checkers and applies the
// resulting state transitions.
type Validator struct {
	registry map[string]Checker
	timeout  time.Duration
	log      logrus.FieldLogger
}

// NewValidator builds a validator with the default checker registry.
func NewValidator(timeout time.Duration, log logrus.FieldLogger) *Validator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpc := &http.Client{Timeout: timeout}
	v := &Validator{
		registry: map[string]Checker{},
		timeout:  timeout,
		log:      log,
	}
	v.Register("github_token", &GitHubChecker{Client: httpc})
	v.Register("slack_token", &SlackTokenChecker{Client: httpc})
	v.Register("slack_webhook", &SlackWebhookChecker{Client: httpc})
	v.Register("stripe_secret_key", &StripeChecker{Client: httpc})
	v.Register("telegram_bot_token", &TelegramChecker{Client: httpc})
	v.Register("twilio_account_sid", CheckerFunc(checkTwilio))
	v.Register("twilio_auth_token", CheckerFunc(checkTwilio))
	v.Register("aws_access_key", CheckerFunc(checkAWS))
	v.Register("aws_secret_key", CheckerFunc(checkAWS))
	return v
}

// Register installs (or replaces) the checker for a rule type.
func (v *Validator) Register(ruleType string, c Checker) {
	v.registry[ruleType] = c
}

// Supports reports whether a checker exists for the rule type.
func (v *Validator) Supports(ruleType string) bool {
	_, ok := v.registry[ruleType]
	return ok
}

// ValidateAll checks every secret with a registered checker. Checks run as
// independent concurrent tasks joined before returning; each task mutates
// only its own record, and one failed check never affects the others.
func (v *Validator) ValidateAll(ctx context.Context, secrets []*types.Secret) {
	var wg sync.WaitGroup
	for _, s := range secrets {
		checker, ok := v.registry[s.RuleType]
		if !ok {
			continue
		}
		wg.Add(1)
		go func(s *types.Secret) {
			defer wg.Done()
			v.validateOne(ctx, checker, s)
		}(s)
	}
	wg.Wait()
}

// ValidateOne runs the registered checker for a single secret, if any.
func (v *Validator) ValidateOne(ctx context.Context, s *types.Secret) {
	checker, ok := v.registry[s.RuleType]
	if !ok {
		return
	}
	v.validateOne(ctx, checker, s)
}

func (v *Validator) validateOne(ctx context.Context, checker Checker, s *types.Secret) {
	cctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	valid, details, err := checker.Check(cctx, s)
	if err != nil {
		// The check could not complete; validity stays unknown.
		s.LiveValid = nil
		s.LiveDetails = map[string]string{"error": err.Error()}
		v.log.WithError(err).WithField("type", s.RuleType).Debug("live check failed")
		return
	}
	if valid {
		s.ConfirmLive(details)
		v.log.WithField("type", s.RuleType).Info("confirmed valid credential")
		return
	}
	f := false
	s.LiveValid = &f
	s.LiveDetails = details
	v.log.WithField("type", s.RuleType).Debug("credential not valid")
}
