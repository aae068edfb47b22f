package httpapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fardannozami/bible-reading-tracker/internal/domain"
)

const (
	tokenIssuer = "bible-reading-tracker"
	tokenTTL    = 12 * time.Hour
)

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Authenticator checks admin credentials and issues bearer tokens.
type Authenticator struct {
	secret []byte
	hashes map[string][]byte
}

// NewAuthenticator bcrypt-hashes the configured username/password pairs.
func NewAuthenticator(secret string, credentials map[string]string) (*Authenticator, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}

	hashes := make(map[string][]byte, len(credentials))
	for user, pass := range credentials {
		hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for %s: %w", user, err)
		}
		hashes[user] = hash
	}
	return &Authenticator{secret: []byte(secret), hashes: hashes}, nil
}

func (a *Authenticator) Login(username, password string, now time.Time) (string, time.Time, error) {
	hash, ok := a.hashes[username]
	if !ok {
		return "", time.Time{}, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", time.Time{}, domain.ErrInvalidCredentials
	}

	expires := now.Add(tokenTTL)
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("could not sign token: %w", err)
	}
	return token, expires, nil
}

func (a *Authenticator) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid || claims.Issuer != tokenIssuer {
		return nil, errors.New("token is invalid")
	}
	return claims, nil
}
