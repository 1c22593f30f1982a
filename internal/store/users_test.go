package store

import (
	"testing"
	"time"
)

func TestDecodeProfileFillsDefaults(t *testing.T) {
	created := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	base := UserProfile{UID: "u1", CreatedAt: created, LastLoginAt: created}

	p, err := decodeProfile(base, nil, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("decodeProfile: %v", err)
	}

	if p.Preferences != defaultPreferences {
		t.Errorf("preferences = %+v, want defaults", p.Preferences)
	}
	if p.Subscription.Plan != "free" || p.Subscription.Status != "active" {
		t.Errorf("subscription = %+v", p.Subscription)
	}
	if !p.Subscription.StartDate.Equal(created) {
		t.Errorf("startDate = %v, want createdAt", p.Subscription.StartDate)
	}
	if p.Limits != defaultLimits {
		t.Errorf("limits = %+v, want defaults", p.Limits)
	}
	if p.Metadata.SignUpMethod != "google" || p.Metadata.LoginCount != 1 {
		t.Errorf("metadata = %+v", p.Metadata)
	}
	if p.Role != "user" {
		t.Errorf("role = %q, want user", p.Role)
	}
	if p.Calendar.Calendars == nil {
		t.Error("calendars should be an empty list, not nil")
	}
	if p.Calendar.IsConnected {
		t.Error("fresh profile should not be connected")
	}
}

func TestDecodeProfileKeepsStoredValues(t *testing.T) {
	base := UserProfile{UID: "u1", Role: "admin"}

	prefs := []byte(`{"theme":"dark","notifications":false,"language":"es","timezone":"America/Chicago"}`)
	sub := []byte(`{"plan":"pro","status":"trialing"}`)
	limits := []byte(`{"projects":50,"storage":2048}`)
	meta := []byte(`{"signUpMethod":"google","loginCount":12,"emailVerified":true,"company":"GreenScape"}`)
	cal := []byte(`{"isConnected":true,"accessToken":"tok","calendars":[{"id":"primary","name":"Work"}]}`)

	p, err := decodeProfile(base, prefs, sub, limits, meta, cal)
	if err != nil {
		t.Fatalf("decodeProfile: %v", err)
	}

	if p.Preferences.Theme != "dark" || p.Preferences.Notifications {
		t.Errorf("preferences = %+v", p.Preferences)
	}
	if p.Preferences.Language != "es" || p.Preferences.Timezone != "America/Chicago" {
		t.Errorf("preferences = %+v", p.Preferences)
	}
	if p.Subscription.Plan != "pro" || p.Subscription.Status != "trialing" {
		t.Errorf("subscription = %+v", p.Subscription)
	}
	if p.Limits.Projects != 50 || p.Limits.StorageMB != 2048 {
		t.Errorf("limits = %+v", p.Limits)
	}
	// Unset limit fields still fall back.
	if p.Limits.TeamMembers != defaultLimits.TeamMembers {
		t.Errorf("teamMembers = %d, want default", p.Limits.TeamMembers)
	}
	if p.Metadata.LoginCount != 12 || !p.Metadata.EmailVerified || p.Metadata.Company != "GreenScape" {
		t.Errorf("metadata = %+v", p.Metadata)
	}
	if !p.Calendar.IsConnected || p.Calendar.AccessToken != "tok" {
		t.Errorf("calendar = %+v", p.Calendar)
	}
	if len(p.Calendar.Calendars) != 1 || p.Calendar.Calendars[0].ID != "primary" {
		t.Errorf("calendars = %+v", p.Calendar.Calendars)
	}
	if p.Role != "admin" {
		t.Errorf("role = %q, want admin", p.Role)
	}
}

func TestDecodeProfileRejectsCorruptDocument(t *testing.T) {
	base := UserProfile{UID: "u1"}
	if _, err := decodeProfile(base, []byte(`{broken`), nil, nil, nil, nil); err == nil {
		t.Error("corrupt preferences accepted")
	}
}

func TestNewProfileWithDefaults(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	p := NewProfileWithDefaults("u1", LoginUpdate{
		Email:         "pat@example.com",
		DisplayName:   "Pat",
		EmailVerified: true,
	}, now)

	if p.UID != "u1" || p.Email != "pat@example.com" {
		t.Errorf("profile = %+v", p)
	}
	if !p.IsActive || p.Role != "user" {
		t.Errorf("flags = active %v role %q", p.IsActive, p.Role)
	}
	if p.Metadata.LoginCount != 1 || !p.Metadata.EmailVerified {
		t.Errorf("metadata = %+v", p.Metadata)
	}
	if !p.Subscription.StartDate.Equal(now) {
		t.Errorf("startDate = %v", p.Subscription.StartDate)
	}
	if p.Calendar.Calendars == nil {
		t.Error("calendars should be an empty list")
	}
}
