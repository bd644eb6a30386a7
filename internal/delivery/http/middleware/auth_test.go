package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Fawadali4423/UEMS/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeVerifier struct {
	identity *domain.Identity
	err      error
}

func (f *fakeVerifier) Verify(token string) (*domain.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

func TestRequireAuth(t *testing.T) {
	identity := &domain.Identity{Subject: "stu-1", Name: "Ayesha Khan"}

	next := func(w http.ResponseWriter, r *http.Request) {
		got, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, identity, got)
		w.WriteHeader(http.StatusOK)
	}

	t.Run("valid token passes through with identity", func(t *testing.T) {
		handler := RequireAuth(&fakeVerifier{identity: identity}, testLogger)(next)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()
		handler(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		handler := RequireAuth(&fakeVerifier{identity: identity}, testLogger)(next)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Token missing"}`, rec.Body.String())
	})

	t.Run("non-bearer scheme", func(t *testing.T) {
		handler := RequireAuth(&fakeVerifier{identity: identity}, testLogger)(next)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		handler(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid authorization format"}`, rec.Body.String())
	})

	t.Run("empty bearer token", func(t *testing.T) {
		handler := RequireAuth(&fakeVerifier{identity: identity}, testLogger)(next)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer ")
		rec := httptest.NewRecorder()
		handler(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Token missing"}`, rec.Body.String())
	})

	t.Run("verifier rejects token", func(t *testing.T) {
		handler := RequireAuth(&fakeVerifier{err: errors.New("expired")}, testLogger)(next)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		rec := httptest.NewRecorder()
		handler(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid token"}`, rec.Body.String())
	})
}
