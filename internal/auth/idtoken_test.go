package auth

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIssuer = "https://issuer.example.com"

type testSigner struct {
	key *rsa.PrivateKey
}

func newTestSigner(t *testing.T) *testSigner {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return &testSigner{key: key}
}

func (s *testSigner) keySet() *oidc.StaticKeySet {
	return &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&s.key.PublicKey}}
}

func (s *testSigner) sign(t *testing.T, subject, audience string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.key)
	require.NoError(t, err)
	return raw
}

func TestIDTokenVerifier_Verify(t *testing.T) {
	signer := newTestSigner(t)
	verifier := NewStaticIDTokenVerifier(testIssuer, "client-id", signer.keySet())
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		sub, err := verifier.Verify(ctx, signer.sign(t, "user-1", "client-id", time.Hour))
		require.NoError(t, err)
		assert.Equal(t, "user-1", sub)
	})

	t.Run("wrong audience", func(t *testing.T) {
		_, err := verifier.Verify(ctx, signer.sign(t, "user-1", "other-client", time.Hour))
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		_, err := verifier.Verify(ctx, signer.sign(t, "user-1", "client-id", -time.Hour))
		assert.Error(t, err)
	})

	t.Run("foreign key", func(t *testing.T) {
		other := newTestSigner(t)
		_, err := verifier.Verify(ctx, other.sign(t, "user-1", "client-id", time.Hour))
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.Verify(ctx, "not-a-jwt")
		assert.Error(t, err)
	})
}
