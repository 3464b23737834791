package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// APIKeyHeader carries a plain tracker API key.
const APIKeyHeader = "X-Redmine-API-Key"

var (
	ErrMissingCredential = errors.New("API credential is not set")
	ErrExpiredCredential = errors.New("API credential has expired")
)

type Scheme int

const (
	// SchemeAPIKey sends the credential in APIKeyHeader.
	SchemeAPIKey Scheme = iota
	// SchemeBearer sends a JWT in the Authorization header.
	SchemeBearer
)

func (s Scheme) String() string {
	if s == SchemeBearer {
		return "bearer"
	}
	return "api-key"
}

// Credential authenticates calls to the remote API. It is resolved once at startup.
type Credential struct {
	token     string
	scheme    Scheme
	expiresAt time.Time
}

// Parse resolves a configured credential. Tokens that parse as a JWT are sent as
// bearer tokens and are rejected when their exp claim is already in the past;
// anything else is an API key. The JWT signature is not checked here, only the
// remote API can do that.
func Parse(token string, now time.Time) (Credential, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Credential{}, ErrMissingCredential
	}
	if strings.Count(token, ".") != 2 {
		return Credential{token: token, scheme: SchemeAPIKey}, nil
	}

	claims := &jwt.StandardClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return Credential{token: token, scheme: SchemeAPIKey}, nil
	}

	cred := Credential{token: token, scheme: SchemeBearer}
	if claims.ExpiresAt != 0 {
		cred.expiresAt = time.Unix(claims.ExpiresAt, 0).UTC()
		if !claims.VerifyExpiresAt(now.Unix(), true) {
			return Credential{}, fmt.Errorf("%w at %s", ErrExpiredCredential, cred.expiresAt.Format(time.RFC3339))
		}
	}
	return cred, nil
}

func (c Credential) Scheme() Scheme { return c.scheme }

// ExpiresAt is zero when the credential carries no expiry.
func (c Credential) ExpiresAt() time.Time { return c.expiresAt }

// Apply sets the authentication header on an outgoing request.
func (c Credential) Apply(h http.Header) {
	switch c.scheme {
	case SchemeBearer:
		h.Set("Authorization", "Bearer "+c.token)
	default:
		h.Set(APIKeyHeader, c.token)
	}
}

// String never reveals the secret.
func (c Credential) String() string {
	if c.token == "" {
		return "<unset>"
	}
	return fmt.Sprintf("%s(****%s)", c.scheme, c.token[max(0, len(c.token)-4):])
}
