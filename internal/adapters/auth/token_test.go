package auth

import (
	"testing"
	"time"

	"github.com/Fawadali4423/UEMS/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewJWTIssuer("test-secret")
	verifier := NewJWTVerifier("test-secret")

	identity := &domain.Identity{
		Subject:    "stu-1",
		Name:       "Ayesha Khan",
		Email:      "ayesha@example.edu",
		RollNumber: "BCS-21-042",
	}
	token, err := issuer.Issue(identity, time.Hour)
	require.NoError(t, err)

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, identity, got)
}

func TestVerify_Failures(t *testing.T) {
	verifier := NewJWTVerifier("test-secret")

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTIssuer("other-secret").Issue(&domain.Identity{Subject: "stu-1"}, time.Hour)
		require.NoError(t, err)
		_, err = verifier.Verify(token)
		require.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := NewJWTIssuer("test-secret").Issue(&domain.Identity{Subject: "stu-1"}, -time.Minute)
		require.NoError(t, err)
		_, err = verifier.Verify(token)
		require.Error(t, err)
	})

	t.Run("missing subject", func(t *testing.T) {
		token, err := NewJWTIssuer("test-secret").Issue(&domain.Identity{Name: "No Subject"}, time.Hour)
		require.NoError(t, err)
		_, err = verifier.Verify(token)
		require.Error(t, err)
	})

	t.Run("unsigned token rejected", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "stu-1"})
		raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = verifier.Verify(raw)
		require.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := verifier.Verify("not-a-jwt")
		require.Error(t, err)
	})
}
