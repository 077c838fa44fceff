package auth

import (
	"crypto/subtle"
	"time"

	apperrors "slotline/pkg/errors"

	jwt "github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator checks the single configured admin credential pair and issues
// short-lived signed tokens for the protected routes. Verification is
// stateless: signature plus expiry against the fixed signing secret.
type Authenticator struct {
	username string
	password string
	secret   []byte
	ttl      time.Duration
}

func NewAuthenticator(username, password, secret string, ttl time.Duration) *Authenticator {
	return &Authenticator{
		username: username,
		password: password,
		secret:   []byte(secret),
		ttl:      ttl,
	}
}

// Login validates the configured username/password pair and returns a signed
// admin token. Comparison is constant-time on both fields.
func (a *Authenticator) Login(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	if !userOK || !passOK {
		return "", apperrors.Unauthorized("invalid credentials")
	}

	now := time.Now()
	claims := Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", apperrors.Internal("Failed to sign admin token", err)
	}
	return signed, nil
}

// Verify parses and validates an admin token. Anything invalid, expired or
// malformed comes back as Unauthorized.
func (a *Authenticator) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Role != RoleAdmin {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}
	return claims, nil
}
