package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireIdentityRejectsAnonymous(t *testing.T) {
	guard := RequireIdentity(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireIdentityPassesIdentityThrough(t *testing.T) {
	var seen string
	guard := RequireIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = identityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	req.Header.Set(HeaderIdentity, "TestUser")
	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "TestUser", seen)
}

func TestRequireCSRFTokenSkipsSafeMethods(t *testing.T) {
	guard := RequireCSRFToken(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireCSRFTokenRejectsMissingHeader(t *testing.T) {
	guard := RequireCSRFToken(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireCSRFTokenRejectsMismatch(t *testing.T) {
	guard := RequireCSRFToken(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	req.Header.Set(HeaderCSRFToken, "token-a")
	req.AddCookie(&http.Cookie{Name: CookieCSRFToken, Value: "token-b"})
	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireCSRFTokenAcceptsMatchingPair(t *testing.T) {
	guard := RequireCSRFToken(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	req.Header.Set(HeaderCSRFToken, "token")
	req.AddCookie(&http.Cookie{Name: CookieCSRFToken, Value: "token"})
	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
