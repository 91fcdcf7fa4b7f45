package ports

import (
	"context"

	"github.com/freelancehub/api/internal/core/domain"
)

// ProjectRepository persists projects owned by clients.
type ProjectRepository interface {
	// Create stores p under p.ClientID. The client's existence is checked
	// in the same write, so a concurrently deleted client yields
	// domain.ErrClientNotFound and no project.
	Create(ctx context.Context, p *domain.Project) (*domain.Project, error)
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	// UpdateStatus sets the status to `to` only if it is still `from`.
	// Returns domain.ErrStatusConflict when the stored status differs.
	UpdateStatus(ctx context.Context, id string, from, to domain.ProjectStatus) error
	Delete(ctx context.Context, id string) error
}
