package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/freelancehub/api/internal/core/domain"
	"github.com/freelancehub/api/internal/core/ports"
)

type stubProjectService struct {
	createFn  func(ctx context.Context, input ports.CreateProjectInput) (*domain.Project, error)
	toggleFn  func(ctx context.Context, id string) (*domain.Project, error)
	deleteErr error
}

func (s *stubProjectService) CreateProject(ctx context.Context, input ports.CreateProjectInput) (*domain.Project, error) {
	return s.createFn(ctx, input)
}

func (s *stubProjectService) ToggleStatus(ctx context.Context, id string) (*domain.Project, error) {
	return s.toggleFn(ctx, id)
}

func (s *stubProjectService) DeleteProject(context.Context, string) error {
	return s.deleteErr
}

func TestProjectHandler_Create_AcceptsLooseNumbers(t *testing.T) {
	cases := []struct {
		body           string
		budget, client string
	}{
		{`{"title":"Website","budget":1500,"client_id":3}`, "1500", "3"},
		{`{"title":"Website","budget":"1500.50","client_id":"3"}`, "1500.50", "3"},
		{`{"title":"Website","budget":null,"client_id":"3"}`, "", "3"},
		{`{"title":"Website","client_id":"3"}`, "", "3"},
		{`{"title":"Website","budget":"abc","client_id":"3"}`, "abc", "3"},
	}
	for _, tc := range cases {
		stub := &stubProjectService{
			createFn: func(_ context.Context, input ports.CreateProjectInput) (*domain.Project, error) {
				if input.Budget != tc.budget || input.ClientID != tc.client || input.Title != "Website" {
					t.Fatalf("%s: unexpected input %+v", tc.body, input)
				}
				return &domain.Project{ID: "10", ClientID: input.ClientID, Title: input.Title, Budget: domain.CoerceBudget(input.Budget), Status: domain.StatusActive}, nil
			},
		}

		c, rec := newContext(http.MethodPost, "/projects", tc.body)
		if err := NewProjectHandler(stub).Create(authenticated(c)); err != nil {
			t.Fatalf("%s: handler error: %v", tc.body, err)
		}
		if rec.Code != http.StatusCreated {
			t.Fatalf("%s: expected 201, got %d", tc.body, rec.Code)
		}
	}
}

func TestProjectHandler_Create_Validation(t *testing.T) {
	stub := &stubProjectService{
		createFn: func(context.Context, ports.CreateProjectInput) (*domain.Project, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}

	for _, body := range []string{`{"budget":10,"client_id":"3"}`, `{"title":"Website","budget":10}`} {
		c, _ := newContext(http.MethodPost, "/projects", body)
		if err := NewProjectHandler(stub).Create(authenticated(c)); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", body, err)
		}
	}
}

func TestProjectHandler_Create_UnknownClient(t *testing.T) {
	stub := &stubProjectService{
		createFn: func(context.Context, ports.CreateProjectInput) (*domain.Project, error) {
			return nil, domain.ErrClientNotFound
		},
	}

	c, _ := newContext(http.MethodPost, "/projects", `{"title":"Website","budget":10,"client_id":"99"}`)
	if err := NewProjectHandler(stub).Create(authenticated(c)); !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestProjectHandler_ToggleStatus(t *testing.T) {
	stub := &stubProjectService{
		toggleFn: func(_ context.Context, id string) (*domain.Project, error) {
			if id != "10" {
				return nil, domain.ErrProjectNotFound
			}
			return &domain.Project{ID: "10", ClientID: "1", Title: "Website", Status: domain.StatusCompleted}, nil
		},
	}
	h := NewProjectHandler(stub)

	c, rec := newContext(http.MethodPatch, "/projects/10/status", "")
	c.SetParamNames("id")
	c.SetParamValues("10")
	if err := h.ToggleStatus(authenticated(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp projectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "Completed" {
		t.Fatalf("expected Completed, got %q", resp.Status)
	}

	c, _ = newContext(http.MethodPatch, "/projects/11/status", "")
	c.SetParamNames("id")
	c.SetParamValues("11")
	if err := h.ToggleStatus(authenticated(c)); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestProjectHandler_Delete(t *testing.T) {
	stub := &stubProjectService{}
	h := NewProjectHandler(stub)

	c, rec := newContext(http.MethodDelete, "/projects/10", "")
	c.SetParamNames("id")
	c.SetParamValues("10")
	if err := h.Delete(authenticated(c)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	stub.deleteErr = domain.ErrProjectNotFound
	c, _ = newContext(http.MethodDelete, "/projects/10", "")
	if err := h.Delete(authenticated(c)); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}
