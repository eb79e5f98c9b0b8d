package config

import (
	"os"
	"time"
)

const (
	TRACE_ID_KEY = "traceId"

	// job client
	PollInterval      = 1 * time.Second
	DefaultJobTimeout = 60 * time.Second

	// pre-flight probe gets its own short deadline, independent of the job
	HealthCheckTimeout = 5 * time.Second

	// outgoing connection pool
	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second
	RequestTimeout      = 30 * time.Second

	// defaults overridable via environment
	DefaultBaseURL    = "http://localhost:3000"
	DefaultOutputDir  = "generated"
	DefaultListenAddr = ":3000"

	// render service tunables
	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute
	RenderJobTimeout                = 60 * time.Second

	// job requests buffer limit
	BufferLimit = 100

	// server timeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	// redis
	RedisAddr        = "127.0.0.1:6379"
	RedisPassword    = ""
	RedisJobStore    = 0
	RedisJobStoreTTL = 24 * time.Hour
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// BaseURL is the single externally visible setting selecting the target
// rendering service host.
func BaseURL() string {
	return getEnv("TRADEDOCS_BASE_URL", DefaultBaseURL)
}

// AuthToken is the bearer token the service expects. The client side reads
// it through the token provider, never directly.
func AuthToken() string {
	return os.Getenv("TRADEDOCS_AUTH_TOKEN")
}

// OutputDir is where downloaded artifacts are saved.
func OutputDir() string {
	return getEnv("TRADEDOCS_OUTPUT_DIR", DefaultOutputDir)
}

func ListenAddr() string {
	return getEnv("TRADEDOCS_LISTEN_ADDR", DefaultListenAddr)
}

func RedisAddress() string {
	return getEnv("REDIS_ADDR", RedisAddr)
}
