package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	// entity store: "postgres" or "file"
	StoreDriver string
	DataFile    string
	DBURL       string

	JWTSecret           string
	JWTAccessTTLMinutes int

	CORSAllowedOrigins []string

	// auth endpoint rate limiting
	AuthRateLimit  int
	AuthRateWindow time.Duration

	// optional redis-backed list cache; empty addr = in-process cache
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// optional bootstrap account, postgres driver only
	SeedEmail    string
	SeedPassword string
	SeedName     string

	OTLPEndpoint string
}

func Load() Config {
	// best effort: local dev keeps its knobs in .env
	_ = godotenv.Load()

	return Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 8080),

		StoreDriver: getEnv("STORE_DRIVER", "file"),
		DataFile:    getEnv("DATA_FILE", "data.json"),
		DBURL:       buildDBURL(),

		JWTSecret:           getEnv("JWT_SECRET", "dev-only-secret"),
		JWTAccessTTLMinutes: getEnvInt("JWT_ACCESS_TTL_MINUTES", 60),

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),

		AuthRateLimit:  getEnvInt("AUTH_RATE_LIMIT", 20),
		AuthRateWindow: time.Duration(getEnvInt("AUTH_RATE_WINDOW_SECONDS", 60)) * time.Second,

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      time.Duration(getEnvInt("CACHE_TTL_SECONDS", 5)) * time.Second,

		SeedEmail:    getEnv("SEED_EMAIL", ""),
		SeedPassword: getEnv("SEED_PASSWORD", ""),
		SeedName:     getEnv("SEED_NAME", "Owner"),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

func buildDBURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "contactdeck")
	pass := getEnv("DB_PASSWORD", "contactdeck")
	name := getEnv("DB_NAME", "contactdeck")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func (c Config) JWTAccessTTL() time.Duration {
	return time.Duration(c.JWTAccessTTLMinutes) * time.Minute
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
