package config

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/matzehuels/atlan-go/pkg/errors"
)

// Token is what an API key reveals about itself. Atlan API keys are JWTs
// issued by the tenant's identity provider.
type Token struct {
	Subject   string
	Username  string
	Email     string
	ClientID  string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token has an expiry that has passed.
func (t Token) Expired() bool {
	return !t.ExpiresAt.IsZero() && time.Now().After(t.ExpiresAt)
}

// TokenInfo decodes the claims of apiKey without verifying its signature;
// the server remains the authority on whether the key is valid.
func TokenInfo(apiKey string) (*Token, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(apiKey, claims); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "API key is not a JWT")
	}

	t := &Token{
		Username: claimString(claims, "preferred_username"),
		Email:    claimString(claims, "email"),
		ClientID: claimString(claims, "azp"),
	}
	t.Subject, _ = claims.GetSubject()
	t.Issuer, _ = claims.GetIssuer()
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		t.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t.ExpiresAt = exp.Time
	}
	return t, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
