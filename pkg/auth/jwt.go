package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nexuscrm/hygiene/pkg/utils"
)

// Claims represents JWT claims carried by API callers
type Claims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and validates HS256 API tokens
type Issuer struct {
	secret []byte
	now    func() time.Time
}

// NewIssuer creates an Issuer for the given shared secret
func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), now: time.Now}
}

// Enabled reports whether a secret is configured
func (i *Issuer) Enabled() bool {
	return i != nil && len(i.secret) > 0
}

// GenerateToken creates a token for subject that expires after ttl
func (i *Issuer) GenerateToken(subject, scope string, ttl time.Duration) (string, error) {
	if !i.Enabled() {
		return "", errors.New("jwt secret is not configured")
	}
	issued := i.now()
	claims := &Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(issued),
			ID:        utils.GenerateID(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// ValidateToken validates and parses a JWT token
func (i *Issuer) ValidateToken(tokenString string) (*Claims, error) {
	if !i.Enabled() {
		return nil, errors.New("jwt secret is not configured")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
