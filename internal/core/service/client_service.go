package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/freelancehub/api/internal/core/domain"
	"github.com/freelancehub/api/internal/core/ports"
)

type ClientService struct {
	repo   ports.ClientRepository
	logger zerolog.Logger
}

func NewClientService(repo ports.ClientRepository, logger zerolog.Logger) *ClientService {
	return &ClientService{repo: repo, logger: logger}
}

// ListClients returns all clients with their projects, in creation order.
func (s *ClientService) ListClients(ctx context.Context) ([]*domain.Client, error) {
	return s.repo.List(ctx)
}

// CreateClient validates input and registers a client with no projects.
// Email uniqueness is exact and case-sensitive.
func (s *ClientService) CreateClient(ctx context.Context, input ports.CreateClientInput) (*domain.Client, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, domain.Required("name")
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, domain.Required("email")
	}

	client, err := s.repo.Create(ctx, &domain.Client{
		Name:        input.Name,
		Email:       input.Email,
		CompanyName: input.CompanyName,
		Projects:    []*domain.Project{},
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("client_id", client.ID).Msg("client created")
	return client, nil
}

// DeleteClient removes the client and cascades to its projects.
func (s *ClientService) DeleteClient(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrClientNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("client_id", id).Msg("client deleted")
	return nil
}
