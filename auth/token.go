// Package auth consumes the external identity provider's tokens. The
// backend never stores credentials; it only verifies a signed token
// and extracts the actor's identity from it.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"giveboard/domain"
	apperrors "giveboard/errors"
)

// Claims is the identity payload carried inside the token.
type Claims struct {
	DisplayName  string `json:"name"`
	AvatarURL    string `json:"avatar"`
	ContactEmail string `json:"email"`
	jwt.RegisteredClaims
}

type Provider struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

func NewProvider(secret string, ttl time.Duration) *Provider {
	return &Provider{secret: []byte(secret), ttl: ttl, issuer: "giveboard"}
}

// Issue creates a signed token for an identity. Used by tooling and
// tests; in production tokens come from the identity provider sharing
// the same secret.
func (p *Provider) Issue(identity domain.Identity) (string, error) {
	now := time.Now()
	claims := &Claims{
		DisplayName:  identity.DisplayName,
		AvatarURL:    identity.AvatarURL,
		ContactEmail: identity.ContactEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    p.issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Current validates tokenString and returns the signed-in identity.
func (p *Provider) Current(tokenString string) (domain.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return p.secret, nil
	})
	if err != nil {
		return domain.Identity{}, apperrors.ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return domain.Identity{}, apperrors.ErrInvalidToken
	}
	return domain.Identity{
		ID:           claims.Subject,
		DisplayName:  claims.DisplayName,
		AvatarURL:    claims.AvatarURL,
		ContactEmail: claims.ContactEmail,
	}, nil
}
