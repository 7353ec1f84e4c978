// Package auth verifies bearer tokens minted by the identity provider.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"doccompare/internal/config"
	"doccompare/internal/domain"
)

// Claims are the token claims this service relies on. The subject carries the user id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Identity is the authenticated caller.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// TokenVerifier validates a bearer token and returns the caller identity.
type TokenVerifier interface {
	Verify(tokenString string) (*Identity, error)
}

type hmacVerifier struct {
	secret []byte
	issuer string
}

// NewHMACVerifier creates a verifier for HS256 tokens signed with the shared secret.
func NewHMACVerifier(cfg *config.JWTConfig) TokenVerifier {
	return &hmacVerifier{secret: []byte(cfg.Secret), issuer: cfg.Issuer}
}

func (v *hmacVerifier) Verify(tokenString string) (*Identity, error) {
	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w: %v", domain.ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("token has no subject: %w", domain.ErrUnauthorized)
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("token subject is not a user id: %w", domain.ErrUnauthorized)
	}

	return &Identity{UserID: userID, Email: claims.Email}, nil
}

// SignToken mints an HS256 token for userID. Used by local tooling and tests.
func SignToken(cfg *config.JWTConfig, userID uuid.UUID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}
