package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/saramagdits/landscaping-saas/internal/config"
)

func testHandler(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{BaseURL: "http://localhost:8080"}
	return Middleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if TokenFromContext(r.Context()) == "" {
			t.Error("token missing from context")
		}
		w.WriteHeader(http.StatusOK)
	}))
}

func TestGetIssuesTokenCookie(t *testing.T) {
	h := testHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "landscapepro_csrf" {
		t.Fatalf("cookies = %v", cookies)
	}
	if cookies[0].Value == "" {
		t.Error("empty token issued")
	}
	if cookies[0].HttpOnly {
		t.Error("token cookie must be readable by the client")
	}
}

func TestPostRequiresMatchingToken(t *testing.T) {
	h := testHandler(t)

	// Obtain a token first.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	token := rec.Result().Cookies()[0]

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", token.Value, http.StatusOK},
		{"missing token", "", http.StatusForbidden},
		{"wrong token", "bogus", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.AddCookie(token)
			if tt.header != "" {
				req.Header.Set("X-CSRF-Token", tt.header)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestPostWithoutCookieRejected(t *testing.T) {
	h := testHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-CSRF-Token", "anything")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
