package util

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Token subject roles
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Claims carries the authenticated subject. SubjectID is a member mid for
// RoleMember and an admin id for RoleAdmin.
type Claims struct {
	SubjectID   uint     `json:"sub_id"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// TokenSubject describes who a token pair is issued for.
type TokenSubject struct {
	ID          uint
	Email       string
	Role        string
	Permissions []string
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// GenerateTokenPair issues an access and a refresh token for subject.
func GenerateTokenPair(subject TokenSubject, secret string, accessExpiry, refreshExpiry time.Duration) (*TokenPair, error) {
	access, err := generateToken(subject, secret, accessExpiry, "access")
	if err != nil {
		return nil, err
	}
	refresh, err := generateToken(subject, secret, refreshExpiry, "refresh")
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(accessExpiry.Seconds()),
	}, nil
}

func generateToken(subject TokenSubject, secret string, expiry time.Duration, kind string) (string, error) {
	now := time.Now()
	claims := Claims{
		SubjectID:   subject.ID,
		Email:       subject.Email,
		Role:        subject.Role,
		Permissions: subject.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   kind,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken parses tokenString and returns its claims.
func ValidateToken(tokenString, secret string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HasPermission reports whether claims grant perm.
func (c *Claims) HasPermission(perm string) bool {
	for _, p := range c.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
