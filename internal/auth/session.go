package auth

import (
	"crypto/sha256"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/saramagdits/landscaping-saas/internal/config"
)

const sessionLifetime = 7 * 24 * time.Hour

// SessionManager manages browser sessions.
type SessionManager struct {
	cfg        *config.Config
	cookieName string
	codec      *securecookie.SecureCookie
	secure     bool
}

func NewSessionManager(cfg *config.Config) *SessionManager {
	hash := sha256.Sum256([]byte(cfg.Session.Secret))
	hashKey := hash[:]

	// Derive an AES-256 sized block key to avoid invalid key length errors.
	blockKey := hash[:]
	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(int(sessionLifetime.Seconds()))
	sc.SetSerializer(securecookie.JSONEncoder{})

	secure := true
	if base, err := url.Parse(cfg.BaseURL); err == nil && base.Scheme != "https" {
		secure = false
	}

	return &SessionManager{
		cfg:        cfg,
		cookieName: "landscapepro_session",
		codec:      sc,
		secure:     secure,
	}
}

// Issue sets the session cookie for a user.
func (m *SessionManager) Issue(w http.ResponseWriter, uid string) error {
	value := map[string]any{
		"uid": uid,
		"exp": time.Now().Add(sessionLifetime).Unix(),
	}

	encoded, err := m.codec.Encode(m.cookieName, value)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    encoded,
		Path:     "/",
		Expires:  time.Now().Add(sessionLifetime),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear removes the session cookie.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:    m.cookieName,
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
		Secure:  m.secure,
	})
}

// CurrentUID extracts the user ID from the request session if present.
func (m *SessionManager) CurrentUID(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.cookieName)
	if err != nil {
		return "", false
	}

	var value map[string]any
	if err := m.codec.Decode(m.cookieName, c.Value, &value); err != nil {
		return "", false
	}

	exp, ok := value["exp"].(float64)
	if !ok || time.Unix(int64(exp), 0).Before(time.Now()) {
		return "", false
	}

	uid, ok := value["uid"].(string)
	if !ok || uid == "" {
		return "", false
	}

	return uid, true
}
