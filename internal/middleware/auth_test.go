package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/teamlattice/lattice/internal/auth"
	"github.com/teamlattice/lattice/internal/middleware"
)

func TestAuthMiddleware(t *testing.T) {
	tokenManager := auth.NewTokenManager("test_secret", time.Hour)

	var gotClaims *auth.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = middleware.ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	protected := middleware.AuthMiddleware(tokenManager)(next)

	t.Run("valid token passes with claims in context", func(t *testing.T) {
		token, err := tokenManager.Generate("account-1", "jdoe@example.com", true)
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		if assert.NotNil(t, gotClaims) {
			assert.Equal(t, "account-1", gotClaims.AccountID)
			assert.True(t, gotClaims.Staff)
		}
	})

	t.Run("missing header replies 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"detail": "No authorization header"}`, rec.Body.String())
	})

	t.Run("malformed header replies 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic abc123")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token replies 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token signed with another secret replies 401", func(t *testing.T) {
		other := auth.NewTokenManager("other_secret", time.Hour)
		token, err := other.Generate("account-1", "jdoe@example.com", false)
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireStaff(t *testing.T) {
	tokenManager := auth.NewTokenManager("test_secret", time.Hour)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	protected := middleware.AuthMiddleware(tokenManager)(middleware.RequireStaff(next))

	t.Run("staff token passes", func(t *testing.T) {
		token, _ := tokenManager.Generate("account-1", "jdoe@example.com", true)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non-staff token replies 403", func(t *testing.T) {
		token, _ := tokenManager.Generate("account-2", "user@example.com", false)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"detail": "staff capability required"}`, rec.Body.String())
	})

	t.Run("without auth middleware replies 403", func(t *testing.T) {
		bare := middleware.RequireStaff(next)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		bare.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
