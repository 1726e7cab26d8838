package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bobarin/echoverse/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyAuth(t *testing.T) {
	a := newTestAPI(RouterConfig{BackendAPIKey: "secret"})

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"missing key", "", "", http.StatusUnauthorized},
		{"wrong key", "X-API-Key", "nope", http.StatusForbidden},
		{"x-api-key", "X-API-Key", "secret", http.StatusOK},
		{"bearer", "Authorization", "Bearer secret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/options", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			a.router.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	// Health stays public.
	rec := a.do(http.MethodGet, "/health", "", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	require.FailNow(t, "session cookie not set")
	return nil
}

func TestSessions_IssuesNewID(t *testing.T) {
	a := newTestAPI(RouterConfig{SecureCookies: true})

	rec := a.do(http.MethodGet, "/v1/narrations", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	id := rec.Header().Get(SessionHeader)
	assert.True(t, session.ValidID(id))

	c := sessionCookie(t, rec)
	assert.Equal(t, id, c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
}

func TestSessions_ReusesCookieThenHeader(t *testing.T) {
	a := newTestAPI(RouterConfig{})
	fromCookie, fromHeader := session.NewID(), session.NewID()

	req := httptest.NewRequest(http.MethodGet, "/v1/narrations", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: fromCookie})
	req.Header.Set(SessionHeader, fromHeader)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	assert.Equal(t, fromCookie, rec.Header().Get(SessionHeader))

	rec = a.do(http.MethodGet, "/v1/narrations", fromHeader, "", nil)
	assert.Equal(t, fromHeader, rec.Header().Get(SessionHeader))
}

func TestSessions_ReplacesInvalidID(t *testing.T) {
	a := newTestAPI(RouterConfig{})

	rec := a.do(http.MethodGet, "/v1/narrations", "../../etc/passwd", "", nil)

	id := rec.Header().Get(SessionHeader)
	assert.NotEqual(t, "../../etc/passwd", id)
	assert.True(t, session.ValidID(id))
}

func TestSessionID_OutsideMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, SessionID(req.Context()))
}

func TestParseOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, parseOrigins(""))
	assert.Equal(t, []string{"*"}, parseOrigins(" , "))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, parseOrigins("https://a.example, https://b.example"))
}
