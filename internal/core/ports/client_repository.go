package ports

import (
	"context"

	"github.com/freelancehub/api/internal/core/domain"
)

// ClientRepository persists clients together with their projects.
type ClientRepository interface {
	// List returns every client in creation order, each carrying its
	// projects in creation order.
	List(ctx context.Context) ([]*domain.Client, error)
	// Create stores c and assigns its ID. Returns domain.ErrDuplicateEmail
	// when another client already uses the email.
	Create(ctx context.Context, c *domain.Client) (*domain.Client, error)
	// Delete removes the client and all of its projects as one unit.
	Delete(ctx context.Context, id string) error
}
