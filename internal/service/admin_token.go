package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminTokenService issues and validates the HS256 bearer tokens guarding
// operator endpoints (catalog reload).
type AdminTokenService struct {
	secret []byte
	issuer string
}

// AdminClaims are the claims carried by operator tokens.
type AdminClaims struct {
	Subject string `json:"sub_name,omitempty"`
	jwt.RegisteredClaims
}

var (
	ErrAdminTokenInvalid       = errors.New("admin token invalid")
	ErrAdminTokenNotConfigured = errors.New("admin token not configured")
)

// NewAdminTokenService returns a validator bound to secret. An empty
// secret disables the admin surface.
func NewAdminTokenService(secret string) *AdminTokenService {
	return &AdminTokenService{secret: []byte(secret), issuer: "wiz-scholar"}
}

// Configured reports whether a secret is set.
func (s *AdminTokenService) Configured() bool {
	return s != nil && len(s.secret) > 0
}

// GenerateToken signs an operator token, used by ops tooling and tests.
func (s *AdminTokenService) GenerateToken(subject string, ttl time.Duration) (string, error) {
	if !s.Configured() {
		return "", ErrAdminTokenNotConfigured
	}
	if ttl == 0 {
		ttl = time.Hour
	}
	now := time.Now().UTC()
	claims := AdminClaims{
		Subject: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken validates an operator token and returns its claims.
func (s *AdminTokenService) ParseToken(token string) (AdminClaims, error) {
	if !s.Configured() {
		return AdminClaims{}, ErrAdminTokenNotConfigured
	}
	var claims AdminClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrAdminTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return AdminClaims{}, ErrAdminTokenInvalid
	}
	if claims.Issuer != s.issuer {
		return AdminClaims{}, ErrAdminTokenInvalid
	}
	return claims, nil
}
