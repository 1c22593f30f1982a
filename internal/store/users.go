package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Documented defaults applied when a stored profile document is missing
// fields. Older documents were written by clients that merged partial shapes;
// decoding materializes the full record once at the storage boundary.
var (
	defaultPreferences = Preferences{
		Theme:         "light",
		Notifications: true,
		Language:      "en",
		Timezone:      "UTC",
	}
	defaultSubscription = Subscription{
		Plan:   "free",
		Status: "active",
	}
	defaultLimits = Limits{
		Projects:    3,
		StorageMB:   100,
		TeamMembers: 1,
		APICalls:    1000,
	}
	defaultSignUpMethod = "google"
)

type userRepo struct {
	pool Pool
}

const userColumns = `uid, email, display_name, photo_url, is_active, role,
	preferences, subscription, limits, metadata, calendar, created_at, last_login_at`

func (r *userRepo) GetByUID(ctx context.Context, uid string) (*UserProfile, error) {
	defer observeDB(ctx, "users.get")()

	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE uid=$1`, uid)
	profile, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", uid, err)
	}
	return profile, nil
}

func (r *userRepo) Create(ctx context.Context, profile *UserProfile) error {
	defer observeDB(ctx, "users.create")()

	prefs, err := json.Marshal(profile.Preferences)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	sub, err := json.Marshal(profile.Subscription)
	if err != nil {
		return fmt.Errorf("encode subscription: %w", err)
	}
	limits, err := json.Marshal(profile.Limits)
	if err != nil {
		return fmt.Errorf("encode limits: %w", err)
	}
	meta, err := json.Marshal(profile.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	cal, err := json.Marshal(profile.Calendar)
	if err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}

	const q = `INSERT INTO users
		(uid, email, display_name, photo_url, is_active, role,
		 preferences, subscription, limits, metadata, calendar, created_at, last_login_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`
	_, err = r.pool.Exec(ctx, q,
		profile.UID, profile.Email, profile.DisplayName, profile.PhotoURL,
		profile.IsActive, profile.Role, prefs, sub, limits, meta, cal,
		profile.CreatedAt, profile.LastLoginAt)
	if err != nil {
		return fmt.Errorf("create user %s: %w", profile.UID, err)
	}
	return nil
}

func (r *userRepo) RecordLogin(ctx context.Context, uid string, login LoginUpdate) (*UserProfile, error) {
	defer observeDB(ctx, "users.record_login")()

	existing, err := r.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	existing.LastLoginAt = now
	existing.Metadata.LastSeen = now
	existing.Metadata.LoginCount++
	if login.Email != "" {
		existing.Email = login.Email
	}
	if login.DisplayName != "" {
		existing.DisplayName = login.DisplayName
	}
	if login.PhotoURL != "" {
		existing.PhotoURL = login.PhotoURL
	}
	if login.EmailVerified {
		existing.Metadata.EmailVerified = true
	}

	meta, err := json.Marshal(existing.Metadata)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}

	const q = `UPDATE users SET
		email=$2, display_name=$3, photo_url=$4, metadata=$5, last_login_at=$6
		WHERE uid=$1`
	if _, err := r.pool.Exec(ctx, q, uid,
		existing.Email, existing.DisplayName, existing.PhotoURL, meta, existing.LastLoginAt); err != nil {
		return nil, fmt.Errorf("record login for %s: %w", uid, err)
	}
	return existing, nil
}

func (r *userRepo) SaveCalendarLink(ctx context.Context, uid string, link CalendarLink) error {
	defer observeDB(ctx, "users.save_calendar_link")()

	cal, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("encode calendar link: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `UPDATE users SET calendar=$2 WHERE uid=$1`, uid, cal)
	if err != nil {
		return fmt.Errorf("save calendar link for %s: %w", uid, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*UserProfile, error) {
	var (
		p                             UserProfile
		prefs, sub, limits, meta, cal []byte
	)
	err := row.Scan(&p.UID, &p.Email, &p.DisplayName, &p.PhotoURL, &p.IsActive, &p.Role,
		&prefs, &sub, &limits, &meta, &cal, &p.CreatedAt, &p.LastLoginAt)
	if err != nil {
		return nil, err
	}
	return decodeProfile(p, prefs, sub, limits, meta, cal)
}

// decodeProfile unmarshals the JSONB sub-documents and fills any missing
// fields with the documented defaults, so callers always see a complete,
// validated record.
func decodeProfile(p UserProfile, prefs, sub, limits, meta, cal []byte) (*UserProfile, error) {
	var rawPrefs struct {
		Theme         *string `json:"theme"`
		Notifications *bool   `json:"notifications"`
		Language      *string `json:"language"`
		Timezone      *string `json:"timezone"`
	}
	if len(prefs) > 0 {
		if err := json.Unmarshal(prefs, &rawPrefs); err != nil {
			return nil, fmt.Errorf("decode preferences: %w", err)
		}
	}
	p.Preferences = Preferences{
		Theme:         stringOr(rawPrefs.Theme, defaultPreferences.Theme),
		Notifications: boolOr(rawPrefs.Notifications, defaultPreferences.Notifications),
		Language:      stringOr(rawPrefs.Language, defaultPreferences.Language),
		Timezone:      stringOr(rawPrefs.Timezone, defaultPreferences.Timezone),
	}

	var rawSub struct {
		Plan        *string    `json:"plan"`
		Status      *string    `json:"status"`
		StartDate   *time.Time `json:"startDate"`
		EndDate     *time.Time `json:"endDate"`
		TrialEndsAt *time.Time `json:"trialEndsAt"`
	}
	if len(sub) > 0 {
		if err := json.Unmarshal(sub, &rawSub); err != nil {
			return nil, fmt.Errorf("decode subscription: %w", err)
		}
	}
	p.Subscription = Subscription{
		Plan:        stringOr(rawSub.Plan, defaultSubscription.Plan),
		Status:      stringOr(rawSub.Status, defaultSubscription.Status),
		StartDate:   timeOr(rawSub.StartDate, p.CreatedAt),
		EndDate:     rawSub.EndDate,
		TrialEndsAt: rawSub.TrialEndsAt,
	}

	var rawLimits struct {
		Projects    *int `json:"projects"`
		StorageMB   *int `json:"storage"`
		TeamMembers *int `json:"teamMembers"`
		APICalls    *int `json:"apiCalls"`
	}
	if len(limits) > 0 {
		if err := json.Unmarshal(limits, &rawLimits); err != nil {
			return nil, fmt.Errorf("decode limits: %w", err)
		}
	}
	p.Limits = Limits{
		Projects:    intOr(rawLimits.Projects, defaultLimits.Projects),
		StorageMB:   intOr(rawLimits.StorageMB, defaultLimits.StorageMB),
		TeamMembers: intOr(rawLimits.TeamMembers, defaultLimits.TeamMembers),
		APICalls:    intOr(rawLimits.APICalls, defaultLimits.APICalls),
	}

	var rawMeta struct {
		SignUpMethod  *string    `json:"signUpMethod"`
		LastSeen      *time.Time `json:"lastSeen"`
		LoginCount    *int       `json:"loginCount"`
		EmailVerified *bool      `json:"emailVerified"`
		PhoneNumber   *string    `json:"phoneNumber"`
		Company       *string    `json:"company"`
		Location      *string    `json:"location"`
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &rawMeta); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	p.Metadata = Metadata{
		SignUpMethod:  stringOr(rawMeta.SignUpMethod, defaultSignUpMethod),
		LastSeen:      timeOr(rawMeta.LastSeen, p.LastLoginAt),
		LoginCount:    intOr(rawMeta.LoginCount, 1),
		EmailVerified: boolOr(rawMeta.EmailVerified, false),
		PhoneNumber:   stringOr(rawMeta.PhoneNumber, ""),
		Company:       stringOr(rawMeta.Company, ""),
		Location:      stringOr(rawMeta.Location, ""),
	}

	p.Calendar = CalendarLink{Calendars: []CalendarRef{}}
	if len(cal) > 0 {
		if err := json.Unmarshal(cal, &p.Calendar); err != nil {
			return nil, fmt.Errorf("decode calendar link: %w", err)
		}
		if p.Calendar.Calendars == nil {
			p.Calendar.Calendars = []CalendarRef{}
		}
	}

	if p.Role == "" {
		p.Role = "user"
	}

	return &p, nil
}

// NewProfileWithDefaults builds a fresh profile for a first sign-in.
func NewProfileWithDefaults(uid string, login LoginUpdate, now time.Time) *UserProfile {
	return &UserProfile{
		UID:         uid,
		Email:       login.Email,
		DisplayName: login.DisplayName,
		PhotoURL:    login.PhotoURL,
		IsActive:    true,
		Role:        "user",
		Preferences: defaultPreferences,
		Subscription: Subscription{
			Plan:      defaultSubscription.Plan,
			Status:    defaultSubscription.Status,
			StartDate: now,
		},
		Limits: defaultLimits,
		Metadata: Metadata{
			SignUpMethod:  defaultSignUpMethod,
			LastSeen:      now,
			LoginCount:    1,
			EmailVerified: login.EmailVerified,
		},
		Calendar:    CalendarLink{Calendars: []CalendarRef{}},
		CreatedAt:   now,
		LastLoginAt: now,
	}
}

func stringOr(v *string, def string) string {
	if v != nil && *v != "" {
		return *v
	}
	return def
}

func boolOr(v *bool, def bool) bool {
	if v != nil {
		return *v
	}
	return def
}

func intOr(v *int, def int) int {
	if v != nil && *v != 0 {
		return *v
	}
	return def
}

func timeOr(v *time.Time, def time.Time) time.Time {
	if v != nil && !v.IsZero() {
		return *v
	}
	return def
}
