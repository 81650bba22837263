package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures everything main needs to wire the process: the HTTP
// listener, token signing, the record store backend, and the optional
// audit pipeline.
type Server struct {
	Addr string

	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	TokenTTL      time.Duration

	// StoreBackend selects where records live: memory, postgres, or redis.
	StoreBackend string
	PostgresDSN  string
	RedisURL     string

	// KafkaBrokers empty means audit events stay in the local store only.
	KafkaBrokers []string
	KafkaTopic   string
	AuditBuffer  int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("HUMANPROOF_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	backend := os.Getenv("HUMANPROOF_STORE")
	if backend == "" {
		backend = "memory"
	}

	topic := os.Getenv("HUMANPROOF_KAFKA_TOPIC")
	if topic == "" {
		topic = "humanproof.audit"
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		JWTIssuer:     envOr("HUMANPROOF_JWT_ISSUER", "humanproof"),
		JWTAudience:   envOr("HUMANPROOF_JWT_AUDIENCE", "humanproof-api"),
		TokenTTL:      envDuration("HUMANPROOF_TOKEN_TTL", time.Hour),
		StoreBackend:  backend,
		PostgresDSN:   os.Getenv("HUMANPROOF_POSTGRES_DSN"),
		RedisURL:      os.Getenv("HUMANPROOF_REDIS_URL"),
		KafkaBrokers:  splitList(os.Getenv("HUMANPROOF_KAFKA_BROKERS")),
		KafkaTopic:    topic,
		AuditBuffer:   envInt("HUMANPROOF_AUDIT_BUFFER", 256),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
