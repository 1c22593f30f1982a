package main

import (
	"strings"
	"testing"
)

func envFrom(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func validEnv() map[string]string {
	return map[string]string{
		"APP_OAUTH_CLIENT_ID":     "client-id",
		"APP_OAUTH_CLIENT_SECRET": "client-secret",
		"APP_SESSION_SECRET":      "0123456789abcdef0123456789abcdef",
		"APP_STORAGE_BUCKET":      "landscaping-uploads",
		"APP_DB_DSN":              "postgres://app:pw@localhost:5432/app",
	}
}

func TestCheckEnvPasses(t *testing.T) {
	if problems := checkEnv(envFrom(validEnv())); len(problems) != 0 {
		t.Errorf("problems = %v, want none", problems)
	}
}

func TestCheckEnvReportsMissing(t *testing.T) {
	env := validEnv()
	delete(env, "APP_OAUTH_CLIENT_ID")
	delete(env, "APP_DB_DSN")

	problems := checkEnv(envFrom(env))
	if len(problems) != 2 {
		t.Fatalf("problems = %v, want 2", problems)
	}
	if !strings.Contains(problems[0], "APP_OAUTH_CLIENT_ID") {
		t.Errorf("problems[0] = %q", problems[0])
	}
	if !strings.Contains(problems[1], "database") {
		t.Errorf("problems[1] = %q", problems[1])
	}
}

func TestCheckEnvReportsPlaceholders(t *testing.T) {
	env := validEnv()
	env["APP_OAUTH_CLIENT_SECRET"] = "YOUR_CLIENT_SECRET_HERE"

	problems := checkEnv(envFrom(env))
	if len(problems) != 1 || !strings.Contains(problems[0], "placeholder") {
		t.Errorf("problems = %v", problems)
	}
}

func TestCheckEnvShortSessionSecret(t *testing.T) {
	env := validEnv()
	env["APP_SESSION_SECRET"] = "too-short"

	problems := checkEnv(envFrom(env))
	if len(problems) != 1 || !strings.Contains(problems[0], "32 characters") {
		t.Errorf("problems = %v", problems)
	}
}

func TestIsPlaceholder(t *testing.T) {
	if !isPlaceholder("your_client_id") || !isPlaceholder("YOUR_SECRET") {
		t.Error("placeholder values not detected")
	}
	if isPlaceholder("real-value") {
		t.Error("real value flagged as placeholder")
	}
}
