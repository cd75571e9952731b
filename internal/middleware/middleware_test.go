package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharebnb/internal/auth"
	apperrors "sharebnb/internal/errors"
	"sharebnb/internal/logging"
	"sharebnb/internal/model"
)

type fakeAccounts map[string]*model.Account

func (f fakeAccounts) Lookup(_ context.Context, username string) (*model.Account, error) {
	if username == "broken" {
		return nil, errors.New("db unavailable")
	}
	if a, ok := f[username]; ok {
		return a, nil
	}
	return nil, apperrors.ErrAccountNotFound
}

func newProtectedServer(t *testing.T, tokens *auth.JWTService, buf *bytes.Buffer) *echo.Echo {
	t.Helper()
	accounts := fakeAccounts{"alice": {ID: 1, Username: "alice"}}

	e := echo.New()
	e.Use(NoStore())
	e.GET("/me", func(c echo.Context) error {
		account, ok := CurrentAccount(c)
		require.True(t, ok)
		return c.String(http.StatusOK, account.Username)
	}, Authenticate(tokens, accounts, logging.NewJSON(buf, "debug")))
	return e
}

func TestAuthenticate(t *testing.T) {
	tokens := auth.NewJWTService("test-secret", time.Hour)

	valid, err := tokens.Issue("alice")
	require.NoError(t, err)
	deleted, err := tokens.Issue("bob")
	require.NoError(t, err)
	broken, err := tokens.Issue("broken")
	require.NoError(t, err)
	wrongKey, err := auth.NewJWTService("other", time.Hour).Issue("alice")
	require.NoError(t, err)
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &auth.Claims{
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
		wantReason string
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, "alice", ""},
		{"missing header", "", http.StatusUnauthorized, `"code":"UNAUTHORIZED"`, "missing token"},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, `"code":"UNAUTHORIZED"`, "missing token"},
		{"malformed", "Bearer abc.def", http.StatusUnauthorized, `"code":"UNAUTHORIZED"`, "malformed"},
		{"bad signature", "Bearer " + wrongKey, http.StatusUnauthorized, `"code":"UNAUTHORIZED"`, "bad signature"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, `"code":"UNAUTHORIZED"`, "expired"},
		{"account deleted after issuance", "Bearer " + deleted, http.StatusUnauthorized, `"code":"UNAUTHORIZED"`, "account missing"},
		{"lookup failure", "Bearer " + broken, http.StatusInternalServerError, `"code":"INTERNAL_ERROR"`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			e := newProtectedServer(t, tokens, &logs)

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), `"error":"unauthorized"`)
				assert.NotContains(t, rec.Body.String(), tt.wantReason)
				assert.Contains(t, logs.String(), `"reason":"`+tt.wantReason+`"`)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	e := echo.New()
	e.POST("/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RateLimit(1))

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2"))
}

func TestRequestLogger(t *testing.T) {
	var logs bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(logging.NewJSON(&logs, "info")))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/boom", func(c echo.Context) error { return errors.New("kaput") })

	for _, path := range []string{"/ok", "/boom"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	out := logs.String()
	assert.Contains(t, out, `"uri":"/ok"`)
	assert.Contains(t, out, `"status":200`)
	assert.Contains(t, out, `"uri":"/boom"`)
	assert.Contains(t, out, `"status":500`)
	assert.Contains(t, out, `"error":"kaput"`)
}
