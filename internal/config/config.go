package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string
	BaseURL    string

	DB struct {
		DSN string
	}

	OAuth struct {
		ClientID     string
		ClientSecret string
		IssuerURL    string
		RedirectPath string
	}

	Session struct {
		Secret string
	}

	Calendar struct {
		APIBaseURL string
	}

	Storage struct {
		Bucket        string
		Region        string
		PublicBaseURL string
	}

	PrometheusEnabled bool
	TrustedProxies    []string
}

func Load() (*Config, error) {
	// Optional .env file for local development. Real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.ListenAddr = getenvDefault("APP_LISTEN_ADDR", ":8080")
	cfg.BaseURL = getenvDefault("APP_BASE_URL", "http://localhost:8080")
	cfg.DB.DSN = os.Getenv("APP_DB_DSN")

	if cfg.DB.DSN == "" {
		host := os.Getenv("APP_DB_HOST")
		name := os.Getenv("APP_DB_NAME")
		user := os.Getenv("APP_DB_USER")
		password := os.Getenv("APP_DB_PASSWORD")
		port := getenvDefault("APP_DB_PORT", "5432")
		sslmode := getenvDefault("APP_DB_SSLMODE", "disable")

		if host != "" && name != "" && user != "" && password != "" {
			cfg.DB.DSN = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, password, host, port, name, sslmode)
		}
	}

	cfg.OAuth.ClientID = os.Getenv("APP_OAUTH_CLIENT_ID")
	cfg.OAuth.ClientSecret = os.Getenv("APP_OAUTH_CLIENT_SECRET")
	cfg.OAuth.IssuerURL = getenvDefault("APP_OAUTH_ISSUER_URL", "https://accounts.google.com")
	cfg.OAuth.RedirectPath = getenvDefault("APP_OAUTH_REDIRECT_PATH", "/auth/callback")
	cfg.Session.Secret = os.Getenv("APP_SESSION_SECRET")
	cfg.Calendar.APIBaseURL = getenvDefault("APP_CALENDAR_API_BASE_URL", "https://www.googleapis.com/calendar/v3")
	cfg.Storage.Bucket = os.Getenv("APP_STORAGE_BUCKET")
	cfg.Storage.Region = getenvDefault("APP_STORAGE_REGION", "us-east-1")
	cfg.Storage.PublicBaseURL = os.Getenv("APP_STORAGE_PUBLIC_BASE_URL")
	cfg.PrometheusEnabled = getenvBool("APP_PROMETHEUS_ENDPOINT_ENABLED", false)
	cfg.TrustedProxies = getenvList("APP_TRUSTED_PROXIES")

	if cfg.DB.DSN == "" {
		return nil, errors.New("APP_DB_DSN is required (or set APP_DB_HOST, APP_DB_NAME, APP_DB_USER, and APP_DB_PASSWORD)")
	}
	if cfg.OAuth.ClientID == "" || cfg.OAuth.ClientSecret == "" {
		return nil, errors.New("oauth configuration is required: APP_OAUTH_CLIENT_ID and APP_OAUTH_CLIENT_SECRET")
	}
	if cfg.Session.Secret == "" {
		return nil, errors.New("APP_SESSION_SECRET is required")
	}
	if len(cfg.Session.Secret) < 32 {
		return nil, fmt.Errorf("APP_SESSION_SECRET must be at least 32 characters long (got %d)", len(cfg.Session.Secret))
	}
	if cfg.Storage.Bucket == "" {
		return nil, errors.New("APP_STORAGE_BUCKET is required")
	}

	if cfg.Storage.PublicBaseURL == "" {
		cfg.Storage.PublicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Storage.Bucket, cfg.Storage.Region)
	}

	if len(cfg.TrustedProxies) == 0 {
		fmt.Println("WARNING: No APP_TRUSTED_PROXIES configured. The server will trust all proxies - not recommended for public environments.")
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return def
}

func getenvList(key string) []string {
	if v := os.Getenv(key); v != "" {
		var result []string
		for _, item := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return nil
}
