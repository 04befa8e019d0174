package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv             string
	LogLevel           string
	Port               string
	DatabaseURL        string
	SslCertPath        string
	AwsAccessKey       string
	AwsSecretKey       string
	AwsRegion          string
	BucketName         string
	JWTSecret          string
	CORSAllowOrigins   []string
	MaxUploadMB        int
	ExtractConcurrency int
	RateLimitPerMin    int
	DefaultLocale      string

	// Warnings collects recoverable problems found while loading, logged once the logger exists.
	Warnings []string
}

// LoadConfig loads the environment variables (and .env if present) and returns the config.
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "dev"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		SslCertPath:   getEnv("SSL_CERT_PATH", ""),
		AwsAccessKey:  getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey:  getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:     getEnv("AWS_REGION", "us-east-2"),
		BucketName:    getEnv("BUCKET_NAME", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
	}
	cfg.CORSAllowOrigins = parseList(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173,http://localhost:8888"))
	cfg.MaxUploadMB = cfg.getEnvInt("MAX_UPLOAD_MB", 20)
	cfg.ExtractConcurrency = cfg.getEnvInt("EXTRACT_CONCURRENCY", 4)
	cfg.RateLimitPerMin = cfg.getEnvInt("RATE_LIMIT_PER_MIN", 60)

	return cfg
}

func (c *Config) IsDev() bool { return strings.EqualFold(c.AppEnv, "dev") }

// ArchiveEnabled reports whether uploaded originals should be copied to S3.
func (c *Config) ArchiveEnabled() bool { return c.BucketName != "" }

// AuthEnabled reports whether the JSON API requires a bearer token.
func (c *Config) AuthEnabled() bool { return c.JWTSecret != "" }

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func (c *Config) getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		c.Warnings = append(c.Warnings, key+"="+strconv.Quote(v)+" is not a positive int, using default "+strconv.Itoa(def))
		return def
	}
	return n
}

func parseList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
