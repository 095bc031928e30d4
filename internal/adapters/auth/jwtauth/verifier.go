package jwtauth

import (
	"context"
	"errors"
	"strings"

	"medication-tracker/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenEmpty   = errors.New("token is empty")
	ErrTokenInvalid = errors.New("token invalid")
)

// Verifier implementa auth.AuthVerifier validando JWTs HS256 firmados
// con un secret compartido (AUTH_JWT_SECRET). El subject es el user id.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		// Solo HMAC; cualquier otro método se rechaza.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return auth.Claims{}, ErrTokenInvalid
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return auth.Claims{}, ErrTokenInvalid
	}

	sub, _ := mc.GetSubject()
	sub = strings.TrimSpace(sub)
	if sub == "" {
		return auth.Claims{}, errors.New("token missing subject")
	}

	email, _ := mc["email"].(string)

	return auth.Claims{
		UserID: sub,
		Email:  strings.TrimSpace(email),
	}, nil
}
