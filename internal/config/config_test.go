package config

import (
	"strings"
	"testing"
)

func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_DB_DSN", "postgres://app:pw@localhost:5432/app")
	t.Setenv("APP_OAUTH_CLIENT_ID", "client-id")
	t.Setenv("APP_OAUTH_CLIENT_SECRET", "client-secret")
	t.Setenv("APP_SESSION_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("APP_STORAGE_BUCKET", "landscaping-uploads")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setValidEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ListenAddr != ":8080" {
		t.Errorf("listen addr = %q", cfg.ListenAddr)
	}
	if cfg.OAuth.IssuerURL != "https://accounts.google.com" {
		t.Errorf("issuer = %q", cfg.OAuth.IssuerURL)
	}
	if cfg.OAuth.RedirectPath != "/auth/callback" {
		t.Errorf("redirect path = %q", cfg.OAuth.RedirectPath)
	}
	if cfg.Calendar.APIBaseURL != "https://www.googleapis.com/calendar/v3" {
		t.Errorf("calendar base = %q", cfg.Calendar.APIBaseURL)
	}
	if cfg.Storage.PublicBaseURL != "https://landscaping-uploads.s3.us-east-1.amazonaws.com" {
		t.Errorf("public base = %q", cfg.Storage.PublicBaseURL)
	}
	if cfg.PrometheusEnabled {
		t.Error("prometheus enabled by default")
	}
}

func TestLoadBuildsDSNFromParts(t *testing.T) {
	setValidEnv(t)
	t.Setenv("APP_DB_DSN", "")
	t.Setenv("APP_DB_HOST", "db.internal")
	t.Setenv("APP_DB_NAME", "landscaping")
	t.Setenv("APP_DB_USER", "app")
	t.Setenv("APP_DB_PASSWORD", "pw")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := "postgres://app:pw@db.internal:5432/landscaping?sslmode=disable"
	if cfg.DB.DSN != want {
		t.Errorf("dsn = %q, want %q", cfg.DB.DSN, want)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(t *testing.T)
		wantErr string
	}{
		{
			"missing db",
			func(t *testing.T) { t.Setenv("APP_DB_DSN", "") },
			"APP_DB_DSN",
		},
		{
			"missing oauth",
			func(t *testing.T) { t.Setenv("APP_OAUTH_CLIENT_ID", "") },
			"oauth configuration",
		},
		{
			"missing session secret",
			func(t *testing.T) { t.Setenv("APP_SESSION_SECRET", "") },
			"APP_SESSION_SECRET",
		},
		{
			"short session secret",
			func(t *testing.T) { t.Setenv("APP_SESSION_SECRET", "short") },
			"at least 32 characters",
		},
		{
			"missing bucket",
			func(t *testing.T) { t.Setenv("APP_STORAGE_BUCKET", "") },
			"APP_STORAGE_BUCKET",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setValidEnv(t)
			tt.mutate(t)

			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetenvHelpers(t *testing.T) {
	t.Setenv("APP_TEST_BOOL", "yes")
	if !getenvBool("APP_TEST_BOOL", false) {
		t.Error("yes not parsed as true")
	}
	t.Setenv("APP_TEST_BOOL", "off")
	if getenvBool("APP_TEST_BOOL", true) {
		t.Error("off not parsed as false")
	}
	t.Setenv("APP_TEST_BOOL", "garbage")
	if !getenvBool("APP_TEST_BOOL", true) {
		t.Error("garbage should fall back to default")
	}

	t.Setenv("APP_TEST_LIST", "10.0.0.0/8, 192.168.0.1 ,")
	got := getenvList("APP_TEST_LIST")
	if len(got) != 2 || got[0] != "10.0.0.0/8" || got[1] != "192.168.0.1" {
		t.Errorf("list = %v", got)
	}
}
