package auth

import "context"

// AuthVerifier resuelve un token opaco a una identidad verificada.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
