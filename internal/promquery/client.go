package promquery

import (
	"context"
	"fmt"
	"time"

	"github.com/llm-d-incubation/llm-fleet-controlplane/internal/logger"
	"github.com/prometheus/client_golang/api"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
	"k8s.io/apimachinery/pkg/util/wait"
)

// QueryBackoff retries a single Prometheus query a handful of times before
// the caller treats it as a hard error.
var QueryBackoff = wait.Backoff{
	Duration: 500 * time.Millisecond,
	Factor:   2.0,
	Jitter:   0.1,
	Steps:    5,
}

// ValidationBackoff is the retry policy of ValidateAPIWithBackoff's
// connectivity check.
var ValidationBackoff = wait.Backoff{
	Duration: 5 * time.Second,
	Factor:   2.0,
	Jitter:   0.1,
	Steps:    6,
}

// NewAPI constructs a promv1.API bound to cfg.Address, wired with the TLS and
// bearer-token transport built in transport.go.
func NewAPI(cfg Config) (promv1.API, error) {
	clientConfig, err := NewClientConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("building prometheus client config: %w", err)
	}
	client, err := api.NewClient(*clientConfig)
	if err != nil {
		return nil, fmt.Errorf("creating prometheus client: %w", err)
	}
	return promv1.NewAPI(client), nil
}

// QueryScalarWithBackoff issues query against promAPI with retry, and
// reduces the response to a single scalar per §4.4: found=false means a
// well-formed response with no data points, distinct from err != nil for
// transport/decode failures exhausting retry.
func QueryScalarWithBackoff(ctx context.Context, promAPI promv1.API, query string) (value float64, found bool, err error) {
	var result model.Value
	var lastErr error

	backoffErr := wait.ExponentialBackoffWithContext(ctx, QueryBackoff, func(ctx context.Context) (bool, error) {
		var queryErr error
		result, _, queryErr = promAPI.Query(ctx, query, time.Now())
		if queryErr != nil {
			lastErr = queryErr
			logger.Log.Warnw("prometheus query failed, retrying", "query", query, "error", queryErr)
			return false, nil
		}
		return true, nil
	})
	if backoffErr != nil {
		if lastErr != nil {
			return 0, false, lastErr
		}
		return 0, false, backoffErr
	}

	return scalarFromValue(result)
}

func scalarFromValue(v model.Value) (float64, bool, error) {
	switch val := v.(type) {
	case model.Vector:
		if len(val) == 0 {
			return 0, false, nil
		}
		return float64(val[0].Value), true, nil
	case *model.Scalar:
		if val == nil {
			return 0, false, nil
		}
		return float64(val.Value), true, nil
	case nil:
		return 0, false, nil
	default:
		return 0, false, fmt.Errorf("unexpected prometheus result type %T", v)
	}
}

// ValidateAPIWithBackoff confirms connectivity with a cheap "up" query.
func ValidateAPIWithBackoff(ctx context.Context, promAPI promv1.API) error {
	return wait.ExponentialBackoffWithContext(ctx, ValidationBackoff, func(ctx context.Context) (bool, error) {
		_, _, err := promAPI.Query(ctx, "up", time.Now())
		if err != nil {
			logger.Log.Warnw("prometheus API validation failed, retrying", "error", err)
			return false, nil
		}
		return true, nil
	})
}
