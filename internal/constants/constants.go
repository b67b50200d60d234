package constants

import "time"

var APIConfig = struct {
	CoinGeckoBaseURL string
	CoinGeckoTimeout time.Duration
	SarvamBaseURL    string
	SarvamTimeout    time.Duration
}{
	CoinGeckoBaseURL: "https://api.coingecko.com/api/v3",
	CoinGeckoTimeout: 15 * time.Second,
	SarvamBaseURL:    "https://api.sarvam.ai",
	SarvamTimeout:    30 * time.Second,
}

var RetryConfig = struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      time.Duration
}{
	MaxAttempts: 3,
	BaseDelay:   500 * time.Millisecond,
	Jitter:      250 * time.Millisecond,
}

var CircuitBreakerConfig = struct {
	FailureThreshold    int
	ResetTimeout        time.Duration
	RateLimitTimeout    time.Duration
	HealthCheckInterval time.Duration
}{
	FailureThreshold:    3,
	ResetTimeout:        30 * time.Second,
	RateLimitTimeout:    1 * time.Hour,
	HealthCheckInterval: 10 * time.Minute,
}

var CacheTTL = struct {
	Answer          time.Duration
	CatalogSnapshot time.Duration
}{
	Answer:          time.Minute,
	CatalogSnapshot: 24 * time.Hour,
}

var AIInputLimits = struct {
	MaxQueryLength int
}{
	MaxQueryLength: 500,
}

var EmbeddingConfig = struct {
	Dimension int
	BatchSize int
}{
	Dimension: 384,
	BatchSize: 32,
}

var CatalogConfig = struct {
	PageSize int
}{
	PageSize: 100,
}
