package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains runtime configuration values.
type Config struct {
	Environment              string
	APIPort                  string
	LogLevel                 string
	DatabaseURL              string
	DBConnectTimeout         time.Duration
	JWTSecret                string
	JWTKeyID                 string
	AccessTokenTTL           time.Duration
	RequiredSpecializationID uint
	CORSAllowedOrigins       []string
	TrustedProxies           []string
	LoginRateLimitRPM        int
	MongoURI                 string
	MongoDatabase            string
	TextbeltAPIKey           string
	TextbeltURL              string
}

// Load reads configuration from the environment, after loading an optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:              getEnv("APP_ENV", "development"),
		APIPort:                  getEnv("API_PORT", "8080"),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
		DatabaseURL:              strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBConnectTimeout:         getDuration("DB_CONNECT_TIMEOUT", 30*time.Second),
		JWTSecret:                os.Getenv("JWT_SECRET"),
		JWTKeyID:                 strings.TrimSpace(os.Getenv("JWT_KEY_ID")),
		AccessTokenTTL:           getDuration("ACCESS_TOKEN_TTL", 60*time.Minute),
		RequiredSpecializationID: uint(getInt("REQUIRED_SPECIALIZATION_ID", 2)),
		CORSAllowedOrigins:       getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		TrustedProxies:           getList("TRUSTED_PROXIES", nil),
		LoginRateLimitRPM:        getInt("LOGIN_RATE_LIMIT_RPM", 30),
		MongoURI:                 strings.TrimSpace(os.Getenv("MONGO_URI")),
		MongoDatabase:            getEnv("MONGO_DATABASE", "apoio"),
		TextbeltAPIKey:           os.Getenv("TEXTBELT_API_KEY"),
		TextbeltURL:              getEnv("TEXTBELT_URL", "https://textbelt.com/text"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.AccessTokenTTL <= 0 {
		return Config{}, fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getList(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok {
		var cleaned []string
		for _, p := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) > 0 {
			return cleaned
		}
	}
	return def
}
