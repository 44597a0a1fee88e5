package config

import (
	"os"
	"time"
)

// Issuer captures connection settings for the issuer node.
// Timeouts default to the per-operation latency budgets of the issuer API:
// state publication anchors proof material on chain and is by far the slowest
// call, so it gets the largest budget.
type Issuer struct {
	BaseURL  string
	Username string
	Password string

	ResolveTimeout time.Duration
	CreateIdentity time.Duration
	CreateCred     time.Duration
	PublishState   time.Duration
	FetchCred      time.Duration
	Verify         time.Duration

	// SettleDelay is the fixed wait between state publication and the
	// credential refetch. Heuristic, not a guarantee of propagation.
	SettleDelay time.Duration
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	Environment   string
	JWTSigningKey string
	TokenTTL      time.Duration

	Issuer      Issuer
	RedisURL    string
	PostgresURL string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:          getEnv("ZKAUTH_ADDR", ":8080"),
		Environment:   getEnv("ZKAUTH_ENV", "development"),
		JWTSigningKey: getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		TokenTTL:      getDuration("TOKEN_TTL", 15*time.Minute),
		RedisURL:      os.Getenv("REDIS_URL"),
		PostgresURL:   os.Getenv("DATABASE_URL"),
		Issuer: Issuer{
			BaseURL:        getEnv("ISSUER_NODE_URL", "http://localhost:3001"),
			Username:       getEnv("ISSUER_NODE_USER", "user-issuer"),
			Password:       os.Getenv("ISSUER_NODE_PASSWORD"),
			ResolveTimeout: getDuration("ISSUER_RESOLVE_TIMEOUT", 5*time.Second),
			CreateIdentity: getDuration("ISSUER_CREATE_IDENTITY_TIMEOUT", 10*time.Second),
			CreateCred:     getDuration("ISSUER_CREATE_CREDENTIAL_TIMEOUT", 15*time.Second),
			PublishState:   getDuration("ISSUER_PUBLISH_STATE_TIMEOUT", 30*time.Second),
			FetchCred:      getDuration("ISSUER_FETCH_CREDENTIAL_TIMEOUT", 10*time.Second),
			Verify:         getDuration("ISSUER_VERIFY_TIMEOUT", 5*time.Second),
			SettleDelay:    getDuration("ISSUER_SETTLE_DELAY", 3*time.Second),
		},
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
