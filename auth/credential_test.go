package auth

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/dgrijalva/jwt-go"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.StandardClaims{Subject: "agent"}
	if !expiresAt.IsZero() {
		claims.ExpiresAt = expiresAt.Unix()
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	return tok
}

func TestParseAPIKey(t *testing.T) {
	cred, err := Parse("  0123456789abcdef  ", time.Now())
	assert.NoError(t, err)
	assert.Equal(t, SchemeAPIKey, cred.Scheme())

	h := http.Header{}
	cred.Apply(h)
	assert.Equal(t, "0123456789abcdef", h.Get(APIKeyHeader))
	assert.Equal(t, "", h.Get("Authorization"))
}

func TestParseMissing(t *testing.T) {
	_, err := Parse("   ", time.Now())
	assert.IsError(t, err, ErrMissingCredential)
}

func TestParseBearer(t *testing.T) {
	now := time.Now()
	tok := signedToken(t, now.Add(time.Hour))

	cred, err := Parse(tok, now)
	assert.NoError(t, err)
	assert.Equal(t, SchemeBearer, cred.Scheme())
	assert.Equal(t, now.Add(time.Hour).Unix(), cred.ExpiresAt().Unix())

	h := http.Header{}
	cred.Apply(h)
	assert.Equal(t, "Bearer "+tok, h.Get("Authorization"))
	assert.Equal(t, "", h.Get(APIKeyHeader))
}

func TestParseBearerWithoutExpiry(t *testing.T) {
	cred, err := Parse(signedToken(t, time.Time{}), time.Now())
	assert.NoError(t, err)
	assert.Equal(t, SchemeBearer, cred.Scheme())
	assert.True(t, cred.ExpiresAt().IsZero())
}

func TestParseExpiredBearer(t *testing.T) {
	now := time.Now()
	_, err := Parse(signedToken(t, now.Add(-time.Minute)), now)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrExpiredCredential))
}

func TestParseDottedKeyIsNotJWT(t *testing.T) {
	cred, err := Parse("not.a.jwt", time.Now())
	assert.NoError(t, err)
	assert.Equal(t, SchemeAPIKey, cred.Scheme())
}

func TestStringRedacts(t *testing.T) {
	cred, err := Parse("supersecretkey1234", time.Now())
	assert.NoError(t, err)
	assert.NotContains(t, cred.String(), "supersecret")
	assert.Contains(t, cred.String(), "1234")
}
