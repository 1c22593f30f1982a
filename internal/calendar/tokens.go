package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"github.com/saramagdits/landscaping-saas/internal/metrics"
	"github.com/saramagdits/landscaping-saas/internal/store"
)

// TokenResponse is the payload returned to clients exchanging a refresh
// token for a new access token.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// Connect stores a freshly granted token pair on the user's profile and
// marks the calendar connected. The provider's token response is consumed
// elsewhere, so the access token's lifetime is assumed to be one hour. The
// cached calendar list is cleared until the next sync. An empty refresh
// token leaves any previously stored one in place.
func (s *Service) Connect(ctx context.Context, uid, accessToken, refreshToken string) error {
	if accessToken == "" {
		return fmt.Errorf("connect calendar: access token is required")
	}

	profile, err := s.users.GetByUID(ctx, uid)
	if err != nil {
		return fmt.Errorf("connect calendar: %w", err)
	}

	now := s.now().UTC()
	expiry := now.Add(assumedTokenLifetime)

	link := store.CalendarLink{
		IsConnected:  true,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenExpiry:  &expiry,
		LastSync:     &now,
		Calendars:    []store.CalendarRef{},
	}
	if refreshToken == "" {
		link.RefreshToken = profile.Calendar.RefreshToken
	}

	if err := s.users.SaveCalendarLink(ctx, uid, link); err != nil {
		return fmt.Errorf("connect calendar: %w", err)
	}
	return nil
}

// Disconnect clears all stored token state and marks the calendar
// disconnected. The upstream grant is not revoked.
func (s *Service) Disconnect(ctx context.Context, uid string) error {
	link := store.CalendarLink{
		IsConnected: false,
		Calendars:   []store.CalendarRef{},
	}
	if err := s.users.SaveCalendarLink(ctx, uid, link); err != nil {
		return fmt.Errorf("disconnect calendar: %w", err)
	}
	return nil
}

// RefreshAccessToken exchanges a refresh token for a new access token at
// the provider. Used by the explicit refresh endpoint; automatic refresh
// goes through ensureFreshToken.
func (s *Service) RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	tok, err := s.redeemRefreshToken(ctx, refreshToken)
	if err != nil {
		metrics.ObserveTokenRefresh("failure")
		return nil, err
	}
	metrics.ObserveTokenRefresh("success")

	expiresIn := int64(tok.Expiry.Sub(s.now()).Seconds())
	if tok.Expiry.IsZero() {
		expiresIn = int64(assumedTokenLifetime.Seconds())
	}

	resp := &TokenResponse{
		AccessToken: tok.AccessToken,
		ExpiresIn:   expiresIn,
		TokenType:   tok.TokenType,
	}
	if tok.RefreshToken != refreshToken {
		resp.RefreshToken = tok.RefreshToken
	}
	return resp, nil
}

// ensureFreshToken returns an access token for the user, refreshing it first
// when it is within the refresh window of expiry. Refresh failures are not
// fatal: the stored token is returned and the upstream call decides whether
// it still works.
func (s *Service) ensureFreshToken(ctx context.Context, uid string) (string, error) {
	profile, err := s.users.GetByUID(ctx, uid)
	if err != nil {
		return "", fmt.Errorf("load calendar link: %w", err)
	}

	link := profile.Calendar
	if !link.IsConnected || link.AccessToken == "" {
		return "", ErrNotConnected
	}

	if link.RefreshToken == "" {
		s.log.Warn().Str("uid", uid).Msg("no refresh token stored, using access token as-is")
		return link.AccessToken, nil
	}

	var expiry time.Time
	if link.TokenExpiry != nil {
		expiry = *link.TokenExpiry
	}
	if s.now().Before(expiry.Add(-refreshWindow)) {
		return link.AccessToken, nil
	}

	token, err := s.refreshAndPersist(ctx, uid, link)
	if err != nil {
		metrics.ObserveTokenRefresh("failure")
		s.log.Warn().Err(err).Str("uid", uid).Msg("token refresh failed, falling back to stored token")
		return link.AccessToken, nil
	}
	metrics.ObserveTokenRefresh("success")
	return token, nil
}

// refreshAndPersist redeems the refresh token and stores the new access
// token before it is used, so a crash mid-request cannot lose it.
func (s *Service) refreshAndPersist(ctx context.Context, uid string, link store.CalendarLink) (string, error) {
	tok, err := s.redeemRefreshToken(ctx, link.RefreshToken)
	if err != nil {
		return "", err
	}

	expiry := tok.Expiry.UTC()
	if tok.Expiry.IsZero() {
		expiry = s.now().UTC().Add(assumedTokenLifetime)
	}

	link.AccessToken = tok.AccessToken
	link.TokenExpiry = &expiry
	if tok.RefreshToken != "" {
		link.RefreshToken = tok.RefreshToken
	}

	if err := s.users.SaveCalendarLink(ctx, uid, link); err != nil {
		return "", fmt.Errorf("persist refreshed token: %w", err)
	}
	return tok.AccessToken, nil
}

func (s *Service) redeemRefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	src := s.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("redeem refresh token: %w", err)
	}
	return tok, nil
}
