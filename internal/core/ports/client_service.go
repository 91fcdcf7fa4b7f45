package ports

import (
	"context"

	"github.com/freelancehub/api/internal/core/domain"
)

// CreateClientInput carries the fields accepted when registering a client.
type CreateClientInput struct {
	Name        string
	Email       string
	CompanyName string
}

// ClientService defines use-case operations for the client registry.
type ClientService interface {
	ListClients(ctx context.Context) ([]*domain.Client, error)
	CreateClient(ctx context.Context, input CreateClientInput) (*domain.Client, error)
	DeleteClient(ctx context.Context, id string) error
}
