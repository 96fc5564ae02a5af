// Package token issues and verifies the signed bearer credentials that carry
// a user's identity between requests. Tokens are stateless: everything needed
// to resolve the identity is in the signed payload.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Payload is the identity embedded in a token.
type Payload struct {
	UserID string
	Email  string
}

// Service signs and verifies identity tokens with a shared HMAC secret.
type Service struct {
	secret []byte
	expiry time.Duration
}

// NewService creates a token service. Tokens issued by it expire after the
// given duration.
func NewService(secret string, expiry time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Issue produces a signed token embedding the user's id and email.
func (s *Service) Issue(userID, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a token string, returning the identity payload.
// It fails with ErrInvalidToken if the signature does not check out or the
// token has expired.
func (s *Service) Verify(tokenString string) (*Payload, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if userID == "" {
		return nil, ErrInvalidToken
	}
	return &Payload{UserID: userID, Email: email}, nil
}

// FromHeader resolves an identity from an Authorization header. A missing
// header or a token that fails verification yields a nil payload rather than
// an error: an unauthenticated request is not a failure at this layer.
func (s *Service) FromHeader(header string) *Payload {
	if header == "" {
		return nil
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")
	payload, err := s.Verify(tokenString)
	if err != nil {
		return nil
	}
	return payload
}
