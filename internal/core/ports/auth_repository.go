package ports

import (
	"context"

	"github.com/freelancehub/api/internal/core/domain"
)

// AuthRepository defines the interface for user credential persistence.
type AuthRepository interface {
	// Create stores a new user. Returns domain.ErrUserExists when the
	// username is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}
