package ports

import (
	"context"

	"github.com/freelancehub/api/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.Token, error)
	TokenValidator
}

// TokenValidator checks a bearer token and returns its subject.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (string, error)
}
