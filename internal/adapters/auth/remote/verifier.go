package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"medication-tracker/internal/platform/httpclient"
	"medication-tracker/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("remote verifier not configured")
	ErrTokenEmpty    = errors.New("token is empty")
	ErrUnauthorized  = errors.New("token rejected by auth service")
)

// Verifier implementa auth.AuthVerifier delegando en un servicio de
// identidad externo (introspección de token por HTTP). Alternativa al
// verifier JWT local cuando los tokens son opacos.
type Verifier struct {
	client     *httpclient.Client
	verifyPath string
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func NewVerifier(cfg Config) (*Verifier, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}

	c, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Verifier{
		client:     c,
		verifyPath: "/v1/tokens/verify",
	}, nil
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	var out struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
	}

	err := v.client.DoJSON(ctx, http.MethodPost, v.verifyPath,
		map[string]string{"Authorization": "Bearer " + token},
		map[string]string{"token": token},
		&out,
	)
	if err != nil {
		var herr *httpclient.HTTPError
		if errors.As(err, &herr) {
			if herr.StatusCode == http.StatusUnauthorized || herr.StatusCode == http.StatusForbidden {
				return auth.Claims{}, ErrUnauthorized
			}
		}
		return auth.Claims{}, fmt.Errorf("remote verify failed: %w", err)
	}

	out.UserID = strings.TrimSpace(out.UserID)
	if out.UserID == "" {
		return auth.Claims{}, errors.New("auth response missing user_id")
	}

	return auth.Claims{
		UserID: out.UserID,
		Email:  strings.TrimSpace(out.Email),
	}, nil
}
