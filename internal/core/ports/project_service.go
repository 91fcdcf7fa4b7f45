package ports

import (
	"context"

	"github.com/freelancehub/api/internal/core/domain"
)

// CreateProjectInput is the DTO passed from the transport layer to
// ProjectService. Budget is the caller's raw value; the service coerces it.
type CreateProjectInput struct {
	Title       string
	Description string
	Budget      string
	ClientID    string
}

// ProjectService defines use-case operations for the project ledger.
type ProjectService interface {
	CreateProject(ctx context.Context, input CreateProjectInput) (*domain.Project, error)
	ToggleStatus(ctx context.Context, id string) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) error
}
