// Package auth implements the OAuth sign-in flow and session middleware.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/saramagdits/landscaping-saas/internal/calendar"
	"github.com/saramagdits/landscaping-saas/internal/config"
	"github.com/saramagdits/landscaping-saas/internal/store"
)

const stateCookieName = "landscapepro_oauth_state"

// calendarScopes grant read/write access to the user's calendars; requested
// at sign-in so the connection can be established in the same flow.
var calendarScopes = []string{
	"https://www.googleapis.com/auth/calendar",
	"https://www.googleapis.com/auth/calendar.events",
}

// Service runs the OAuth/OIDC sign-in flow and guards authenticated routes.
type Service struct {
	cfg      *config.Config
	store    *store.Store
	sessions *SessionManager
	calendar *calendar.Service
	verifier *oidc.IDTokenVerifier
	oauth    *oauth2.Config
	log      zerolog.Logger
	secure   bool
}

func NewService(ctx context.Context, cfg *config.Config, st *store.Store, sessions *SessionManager, cal *calendar.Service, log zerolog.Logger) (*Service, error) {
	provider, err := oidc.NewProvider(ctx, cfg.OAuth.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("discover oidc provider: %w", err)
	}

	scopes := append([]string{oidc.ScopeOpenID, "profile", "email"}, calendarScopes...)
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		RedirectURL:  cfg.BaseURL + cfg.OAuth.RedirectPath,
		Endpoint:     provider.Endpoint(),
		Scopes:       scopes,
	}

	return &Service{
		cfg:      cfg,
		store:    st,
		sessions: sessions,
		calendar: cal,
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.OAuth.ClientID}),
		oauth:    oauthCfg,
		log:      log,
		secure:   sessions.secure,
	}, nil
}

// BeginOAuth starts the authorization flow. Offline access and a consent
// prompt are always requested so a refresh token is granted.
func (s *Service) BeginOAuth(w http.ResponseWriter, r *http.Request) {
	state, err := randomState()
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})

	url := s.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"))
	http.Redirect(w, r, url, http.StatusFound)
}

// BeginCalendarConsent restarts the consent flow for an already signed-in
// user whose calendar grant was denied or revoked. The callback reconnects
// the calendar as part of the normal sign-in path.
func (s *Service) BeginCalendarConsent(w http.ResponseWriter, r *http.Request) {
	s.BeginOAuth(w, r)
}

// HandleOAuthCallback completes the flow: it verifies state and identity,
// creates or updates the profile, connects the calendar, and starts a
// session.
func (s *Service) HandleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		http.Error(w, "invalid oauth state", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0)})

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing authorization code", http.StatusBadRequest)
		return
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		s.log.Error().Err(err).Msg("oauth code exchange failed")
		http.Error(w, "sign-in failed", http.StatusBadGateway)
		return
	}

	claims, err := s.verifyIdentity(ctx, token)
	if err != nil {
		s.log.Error().Err(err).Msg("id token verification failed")
		http.Error(w, "sign-in failed", http.StatusUnauthorized)
		return
	}

	profile, err := s.upsertProfile(ctx, claims)
	if err != nil {
		s.log.Error().Err(err).Str("uid", claims.Subject).Msg("profile upsert failed")
		http.Error(w, "sign-in failed", http.StatusInternalServerError)
		return
	}

	// A failed calendar connection must not block sign-in.
	if err := s.calendar.Connect(ctx, profile.UID, token.AccessToken, token.RefreshToken); err != nil {
		s.log.Warn().Err(err).Str("uid", profile.UID).Msg("calendar connect failed during sign-in")
	}

	if err := s.sessions.Issue(w, profile.UID); err != nil {
		s.log.Error().Err(err).Msg("session issue failed")
		http.Error(w, "sign-in failed", http.StatusInternalServerError)
		return
	}

	s.log.Info().Str("uid", profile.UID).Msg("user signed in")
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// Logout clears the session and sends the user home.
func (s *Service) Logout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Clear(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

// RequireSession loads the signed-in user's profile into the request context
// or rejects with 401.
func (s *Service) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := s.sessions.CurrentUID(r)
		if !ok {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}

		profile, err := s.store.Users.GetByUID(r.Context(), uid)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				s.log.Error().Err(err).Str("uid", uid).Msg("profile load failed")
			}
			s.sessions.Clear(w)
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		if !profile.IsActive {
			http.Error(w, "account disabled", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), profile)))
	})
}

type identityClaims struct {
	Subject       string
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (s *Service) verifyIdentity(ctx context.Context, token *oauth2.Token) (*identityClaims, error) {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, fmt.Errorf("token response missing id_token")
	}

	idToken, err := s.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}

	var claims identityClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}
	claims.Subject = idToken.Subject
	return &claims, nil
}

// upsertProfile creates the profile on first sign-in and merges login stats
// on every subsequent one.
func (s *Service) upsertProfile(ctx context.Context, claims *identityClaims) (*store.UserProfile, error) {
	login := store.LoginUpdate{
		Email:         claims.Email,
		DisplayName:   claims.Name,
		PhotoURL:      claims.Picture,
		EmailVerified: claims.EmailVerified,
	}

	profile, err := s.store.Users.RecordLogin(ctx, claims.Subject, login)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	profile = store.NewProfileWithDefaults(claims.Subject, login, time.Now().UTC())
	if err := s.store.Users.Create(ctx, profile); err != nil {
		return nil, err
	}
	s.log.Info().Str("uid", profile.UID).Msg("new user profile created")
	return profile, nil
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
