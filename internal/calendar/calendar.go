// Package calendar manages the external calendar connection for a user:
// OAuth token storage and refresh, and proxied reads/writes against the
// upstream calendar REST API.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/saramagdits/landscaping-saas/internal/config"
	"github.com/saramagdits/landscaping-saas/internal/metrics"
	"github.com/saramagdits/landscaping-saas/internal/store"
)

// ErrNotConnected is returned when a user has no active calendar connection.
var ErrNotConnected = errors.New("calendar not connected")

// APIError carries a non-2xx upstream response. Callers surface the status
// text and do not retry.
type APIError struct {
	StatusCode int
	Status     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("calendar API request failed: %s", e.Status)
}

const (
	// assumedTokenLifetime applies when the provider did not report an expiry.
	assumedTokenLifetime = time.Hour
	// refreshWindow is how long before expiry a token counts as stale.
	refreshWindow = 5 * time.Minute

	defaultCalendarColor = "#4285f4"
)

// Service proxies the upstream calendar API, keeping the per-user token state
// fresh in the persisted CalendarLink.
type Service struct {
	users      store.UserRepository
	httpClient *http.Client
	baseURL    string
	oauth      *oauth2.Config
	log        zerolog.Logger
	now        func() time.Time
}

func NewService(cfg *config.Config, users store.UserRepository, log zerolog.Logger) *Service {
	return &Service{
		users:      users,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    cfg.Calendar.APIBaseURL,
		oauth: &oauth2.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://accounts.google.com/o/oauth2/auth",
				TokenURL: "https://oauth2.googleapis.com/token",
			},
		},
		log: log,
		now: time.Now,
	}
}

// EventTime is either a timed instant (DateTime) or an all-day date (Date).
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

type Attendee struct {
	Email          string `json:"email"`
	DisplayName    string `json:"displayName,omitempty"`
	ResponseStatus string `json:"responseStatus,omitempty"`
}

type Organizer struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

// Event mirrors the upstream calendar event resource; unknown fields are
// dropped rather than round-tripped.
type Event struct {
	ID          string     `json:"id,omitempty"`
	Summary     string     `json:"summary"`
	Description string     `json:"description,omitempty"`
	Start       EventTime  `json:"start"`
	End         EventTime  `json:"end"`
	Location    string     `json:"location,omitempty"`
	Attendees   []Attendee `json:"attendees,omitempty"`
	Organizer   *Organizer `json:"organizer,omitempty"`
	HTMLLink    string     `json:"htmlLink,omitempty"`
	Created     string     `json:"created,omitempty"`
	Updated     string     `json:"updated,omitempty"`
}

// ListCalendars fetches the user's calendar list, refreshes the cached copy
// on the profile, and returns it.
func (s *Service) ListCalendars(ctx context.Context, uid string) ([]store.CalendarRef, error) {
	var payload struct {
		Items []struct {
			ID              string `json:"id"`
			Summary         string `json:"summary"`
			BackgroundColor string `json:"backgroundColor"`
			Primary         bool   `json:"primary"`
			Selected        bool   `json:"selected"`
		} `json:"items"`
	}
	if err := s.do(ctx, uid, "calendars.list", http.MethodGet, "/users/me/calendarList", nil, nil, &payload); err != nil {
		return nil, err
	}

	refs := make([]store.CalendarRef, 0, len(payload.Items))
	for _, item := range payload.Items {
		color := item.BackgroundColor
		if color == "" {
			color = defaultCalendarColor
		}
		refs = append(refs, store.CalendarRef{
			ID:        item.ID,
			Name:      item.Summary,
			Color:     color,
			IsPrimary: item.Primary,
			IsEnabled: item.Selected,
		})
	}

	if err := s.saveCalendarList(ctx, uid, refs); err != nil {
		s.log.Warn().Err(err).Str("uid", uid).Msg("failed to cache calendar list")
	}

	return refs, nil
}

// ListEvents fetches events for one calendar, expanded to single instances
// and ordered by start time. timeMin/timeMax are RFC3339 and optional.
func (s *Service) ListEvents(ctx context.Context, uid, calendarID, timeMin, timeMax string) ([]Event, error) {
	query := url.Values{
		"singleEvents": {"true"},
		"orderBy":      {"startTime"},
	}
	if timeMin != "" {
		query.Set("timeMin", timeMin)
	}
	if timeMax != "" {
		query.Set("timeMax", timeMax)
	}

	var payload struct {
		Items []Event `json:"items"`
	}
	path := "/calendars/" + url.PathEscape(calendarID) + "/events"
	if err := s.do(ctx, uid, "events.list", http.MethodGet, path, query, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

func (s *Service) CreateEvent(ctx context.Context, uid, calendarID string, event Event) (*Event, error) {
	var created Event
	path := "/calendars/" + url.PathEscape(calendarID) + "/events"
	if err := s.do(ctx, uid, "events.create", http.MethodPost, path, nil, event, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) UpdateEvent(ctx context.Context, uid, calendarID, eventID string, event Event) (*Event, error) {
	var updated Event
	path := "/calendars/" + url.PathEscape(calendarID) + "/events/" + url.PathEscape(eventID)
	if err := s.do(ctx, uid, "events.update", http.MethodPut, path, nil, event, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) DeleteEvent(ctx context.Context, uid, calendarID, eventID string) error {
	path := "/calendars/" + url.PathEscape(calendarID) + "/events/" + url.PathEscape(eventID)
	return s.do(ctx, uid, "events.delete", http.MethodDelete, path, nil, nil, nil)
}

// do issues one authorized request against the upstream API. The access
// token is freshened first; a non-2xx response maps to *APIError.
func (s *Service) do(ctx context.Context, uid, operation, method, path string, query url.Values, body, out any) error {
	token, err := s.ensureFreshToken(ctx, uid)
	if err != nil {
		return err
	}

	u := s.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	defer resp.Body.Close()

	metrics.ObserveCalendarAPICall(operation, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", operation, err)
		}
	}
	return nil
}

func (s *Service) saveCalendarList(ctx context.Context, uid string, refs []store.CalendarRef) error {
	profile, err := s.users.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	link := profile.Calendar
	link.Calendars = refs
	now := s.now().UTC()
	link.LastSync = &now
	return s.users.SaveCalendarLink(ctx, uid, link)
}
