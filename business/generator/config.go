package generator

import (
	"time"

	"sharpPicks/domain"
	"sharpPicks/pkg/config"
)

type Config struct {
	// hard ceiling on picks persisted per (date, category)
	TargetPoolSize int

	// soft prompt target, never enforced
	Distribution domain.RiskDistribution

	Retry RetryPolicy
}

const (
	defaultTargetPoolSize = 25
	defaultMaxAttempts    = 3
	defaultInitialDelay   = 2 * time.Second
	defaultMaxDelay       = 30 * time.Second
	defaultAttemptTimeout = 120 * time.Second
)

func DefaultConfig() Config {
	return Config{
		TargetPoolSize: defaultTargetPoolSize,
		Distribution:   domain.DefaultRiskDistribution(),
		Retry:          DefaultRetryPolicy(),
	}
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    defaultMaxAttempts,
		InitialDelay:   defaultInitialDelay,
		MaxDelay:       defaultMaxDelay,
		AttemptTimeout: defaultAttemptTimeout,
	}
}

// ConfigFrom maps the service configuration onto generator settings. Each
// tool-layer attempt gets the LLM timeout plus a small margin for decoding.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		TargetPoolSize: cfg.Generation.TargetPoolSize,
		Distribution: domain.RiskDistribution{
			Low:    cfg.Generation.RiskLowPct,
			Medium: cfg.Generation.RiskMediumPct,
			High:   cfg.Generation.RiskHighPct,
		},
		Retry: RetryPolicy{
			MaxAttempts:    cfg.Generation.MaxAttempts,
			InitialDelay:   cfg.Generation.InitialBackoff,
			MaxDelay:       cfg.Generation.MaxBackoff,
			AttemptTimeout: cfg.LLM.Timeout + 5*time.Second,
		},
	}
}
