package handler

import (
	"github.com/freelancehub/api/internal/core/aggregate"
	"github.com/freelancehub/api/internal/core/domain"
	"github.com/freelancehub/api/internal/core/ports"
)

// --- Request → Service input ---

func toClientInput(req createClientRequest) ports.CreateClientInput {
	return ports.CreateClientInput{
		Name:        req.Name,
		Email:       req.Email,
		CompanyName: req.CompanyName,
	}
}

func toProjectInput(req createProjectRequest) ports.CreateProjectInput {
	return ports.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Budget:      string(req.Budget),
		ClientID:    string(req.ClientID),
	}
}

// --- Service result → HTTP response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt.UTC(),
	}
}

func toTokenResponse(t *domain.Token) tokenResponse {
	return tokenResponse{
		AccessToken: t.Value,
		TokenType:   "bearer",
		ExpiresAt:   t.ExpiresAt.UTC(),
	}
}

func toProjectResponse(p *domain.Project) projectResponse {
	return projectResponse{
		ID:          p.ID,
		ClientID:    p.ClientID,
		Title:       p.Title,
		Description: p.Description,
		Budget:      p.Budget,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt.UTC(),
	}
}

func toClientResponse(c *domain.Client) clientResponse {
	projects := make([]projectResponse, 0, len(c.Projects))
	for _, p := range c.Projects {
		projects = append(projects, toProjectResponse(p))
	}
	return clientResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		CompanyName: c.CompanyName,
		Projects:    projects,
		CreatedAt:   c.CreatedAt.UTC(),
	}
}

func toClientResponses(clients []*domain.Client) []clientResponse {
	out := make([]clientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, toClientResponse(c))
	}
	return out
}

func toSummaryResponse(s aggregate.Summary) summaryResponse {
	byStatus := make(map[string]statusTotalsResponse, len(s.ByStatus))
	for status, t := range s.ByStatus {
		byStatus[string(status)] = statusTotalsResponse{Count: t.Count, Budget: t.Budget}
	}
	return summaryResponse{
		ClientCount:      s.ClientCount,
		ProjectCount:     s.ProjectCount,
		TotalRevenue:     s.TotalRevenue,
		ExcludeAbandoned: s.ExcludeAbandoned,
		ByStatus:         byStatus,
		Clients:          toClientResponses(s.Clients),
	}
}
