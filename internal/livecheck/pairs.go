package livecheck

import (
	"context"
	"errors"

	"github.com/sensit/sensit/internal/types"
)

// Some credentials only work as a pair, and a scan yields them as separate
// records with no reliable way to re-associate them. Those checks report an
// explanatory error so validity stays unknown rather than false.

var (
	errTwilioPair = errors.New("twilio validation requires account SID and auth token together")
	errAWSPair    = errors.New("aws validation requires access key and secret key together")
)

func checkTwilio(_ context.Context, _ *types.Secret) (bool, map[string]string, error) {
	return false, nil, errTwilioPair
}

func checkAWS(_ context.Context, _ *types.Secret) (bool, map[string]string, error) {
	return false, nil, errAWSPair
}
