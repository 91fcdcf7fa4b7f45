package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/freelancehub/api/internal/core/domain"
	"github.com/freelancehub/api/internal/core/ports"
)

// toggleAttempts bounds the compare-and-swap loop in ToggleStatus.
const toggleAttempts = 5

type ProjectService struct {
	repo   ports.ProjectRepository
	logger zerolog.Logger
}

func NewProjectService(repo ports.ProjectRepository, logger zerolog.Logger) *ProjectService {
	return &ProjectService{repo: repo, logger: logger}
}

// CreateProject attaches a new Active project to an existing client. The
// budget is coerced, never rejected.
func (s *ProjectService) CreateProject(ctx context.Context, input ports.CreateProjectInput) (*domain.Project, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, domain.Required("title")
	}
	if strings.TrimSpace(input.ClientID) == "" {
		return nil, domain.Required("client_id")
	}

	project, err := s.repo.Create(ctx, &domain.Project{
		ClientID:    input.ClientID,
		Title:       input.Title,
		Description: input.Description,
		Budget:      domain.CoerceBudget(input.Budget),
		Status:      domain.StatusActive,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Str("client_id", project.ClientID).
		Float64("budget", project.Budget).
		Msg("project created")
	return project, nil
}

// ToggleStatus advances the project one step along the status cycle.
func (s *ProjectService) ToggleStatus(ctx context.Context, id string) (*domain.Project, error) {
	if id == "" {
		return nil, domain.ErrProjectNotFound
	}

	for attempt := 0; attempt < toggleAttempts; attempt++ {
		project, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}

		from := project.Status
		to := from.Next()
		err = s.repo.UpdateStatus(ctx, id, from, to)
		if errors.Is(err, domain.ErrStatusConflict) {
			s.logger.Debug().Str("project_id", id).Int("attempt", attempt).Msg("status changed concurrently, retrying")
			continue
		}
		if err != nil {
			return nil, err
		}

		project.Status = to
		s.logger.Info().Str("project_id", id).Str("from", string(from)).Str("to", string(to)).Msg("project status toggled")
		return project, nil
	}

	return nil, fmt.Errorf("toggle status %s: %w", id, domain.ErrStatusConflict)
}

// DeleteProject removes a single project; its client is untouched.
func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrProjectNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("project_id", id).Msg("project deleted")
	return nil
}
