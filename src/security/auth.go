package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

const (
	tokenIssuer      = "morning-briefing"
	defaultTokenTTL  = 15 * time.Minute
	operatorAudience = "operator"
)

// AuthService issues and validates the HS256 bearer tokens that guard operator endpoints.
type AuthService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthService creates an AuthService. An empty secret disables token validation entirely:
// every token is rejected.
func NewAuthService(secret string) *AuthService {
	return &AuthService{secret: []byte(secret), ttl: defaultTokenTTL, now: time.Now}
}

// WithTTL sets the lifetime of generated tokens. Non-positive values keep the current TTL.
func (s *AuthService) WithTTL(ttl time.Duration) *AuthService {
	if ttl > 0 {
		s.ttl = ttl
	}
	return s
}

// Enabled reports whether a signing secret is configured.
func (s *AuthService) Enabled() bool {
	return len(s.secret) > 0
}

// GenerateToken signs a token for subject that expires after the service TTL.
func (s *AuthService) GenerateToken(subject string) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("%w: signing secret not configured", ErrInvalidToken)
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{operatorAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken verifies the signature, algorithm, issuer, audience and expiry of tokenString
// and returns its subject.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("%w: signing secret not configured", ErrInvalidToken)
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(operatorAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}
