package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/freelancehub/api/internal/core/domain"
	"github.com/freelancehub/api/internal/core/ports"
	"github.com/freelancehub/api/internal/infrastructure/db/memory"
)

var discardLogger = zerolog.Nop()

type stubClientRepo struct {
	createErr error
	deleteErr error
	created   []*domain.Client
	deleted   []string
}

func (r *stubClientRepo) List(context.Context) ([]*domain.Client, error) {
	return r.created, nil
}

func (r *stubClientRepo) Create(_ context.Context, c *domain.Client) (*domain.Client, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	clone := *c
	clone.ID = "c1"
	r.created = append(r.created, &clone)
	return &clone, nil
}

func (r *stubClientRepo) Delete(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deleted = append(r.deleted, id)
	return nil
}

func TestClientService_Create_Success(t *testing.T) {
	repo := &stubClientRepo{}
	svc := NewClientService(repo, discardLogger)

	c, err := svc.CreateClient(context.Background(), ports.CreateClientInput{Name: "Bob", Email: "bob@x.com", CompanyName: "Acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID == "" || c.Name != "Bob" || c.Email != "bob@x.com" || c.CompanyName != "Acme" {
		t.Fatalf("unexpected client: %+v", c)
	}
	if c.Projects == nil || len(c.Projects) != 0 {
		t.Fatalf("expected empty, non-nil project list, got %#v", c.Projects)
	}
	if c.CreatedAt.IsZero() {
		t.Fatal("CreatedAt must be set")
	}
}

func TestClientService_Create_Validation(t *testing.T) {
	repo := &stubClientRepo{}
	svc := NewClientService(repo, discardLogger)

	cases := []ports.CreateClientInput{
		{Name: "", Email: "a@x.com"},
		{Name: "  ", Email: "a@x.com"},
		{Name: "Bob", Email: ""},
	}
	for _, in := range cases {
		if _, err := svc.CreateClient(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%+v: expected ErrValidation, got %v", in, err)
		}
	}
	if len(repo.created) != 0 {
		t.Fatalf("validation failures must not reach storage")
	}
}

func TestClientService_Create_DuplicateEmail(t *testing.T) {
	svc := NewClientService(&stubClientRepo{createErr: domain.ErrDuplicateEmail}, discardLogger)

	_, err := svc.CreateClient(context.Background(), ports.CreateClientInput{Name: "Bob", Email: "bob@x.com"})
	if !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestClientService_Delete(t *testing.T) {
	repo := &stubClientRepo{}
	svc := NewClientService(repo, discardLogger)

	if err := svc.DeleteClient(context.Background(), "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "c1" {
		t.Fatalf("unexpected deletes: %v", repo.deleted)
	}

	if err := svc.DeleteClient(context.Background(), ""); !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound for empty id, got %v", err)
	}

	repo.deleteErr = domain.ErrClientNotFound
	if err := svc.DeleteClient(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// The registry properties below run against the in-memory store so cascade
// and uniqueness are exercised end to end.

func TestClientService_CreateThenListContainsExactlyOne(t *testing.T) {
	store := memory.NewStore()
	svc := NewClientService(store.Clients(), discardLogger)
	ctx := context.Background()

	if _, err := svc.CreateClient(ctx, ports.CreateClientInput{Name: "Bob", Email: "bob@x.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	clients, err := svc.ListClients(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	matches := 0
	for _, c := range clients {
		if c.Name == "Bob" && c.Email == "bob@x.com" {
			matches++
			if len(c.Projects) != 0 {
				t.Fatalf("expected no projects, got %d", len(c.Projects))
			}
		}
	}
	if matches != 1 {
		t.Fatalf("expected exactly one match, got %d", matches)
	}
}

func TestClientService_DuplicateEmailLeavesRegistryUnchanged(t *testing.T) {
	store := memory.NewStore()
	svc := NewClientService(store.Clients(), discardLogger)
	ctx := context.Background()

	_, _ = svc.CreateClient(ctx, ports.CreateClientInput{Name: "Bob", Email: "bob@x.com"})
	before, _ := svc.ListClients(ctx)

	if _, err := svc.CreateClient(ctx, ports.CreateClientInput{Name: "Robert", Email: "bob@x.com", CompanyName: "Other"}); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	after, _ := svc.ListClients(ctx)
	if len(after) != len(before) || after[0].Name != "Bob" || after[0].CompanyName != "" {
		t.Fatalf("registry changed: before=%+v after=%+v", before, after)
	}

	// uniqueness is case-sensitive
	if _, err := svc.CreateClient(ctx, ports.CreateClientInput{Name: "Bob 2", Email: "BOB@x.com"}); err != nil {
		t.Fatalf("expected differently-cased email to be accepted, got %v", err)
	}
}

func TestClientService_DeleteCascadesProjects(t *testing.T) {
	store := memory.NewStore()
	clients := NewClientService(store.Clients(), discardLogger)
	projects := NewProjectService(store.Projects(), discardLogger)
	ctx := context.Background()

	bob, _ := clients.CreateClient(ctx, ports.CreateClientInput{Name: "Bob", Email: "bob@x.com"})
	amy, _ := clients.CreateClient(ctx, ports.CreateClientInput{Name: "Amy", Email: "amy@x.com"})
	p1, _ := projects.CreateProject(ctx, ports.CreateProjectInput{Title: "Site", Budget: "100", ClientID: bob.ID})
	_, _ = projects.CreateProject(ctx, ports.CreateProjectInput{Title: "Logo", Budget: "50", ClientID: bob.ID})
	kept, _ := projects.CreateProject(ctx, ports.CreateProjectInput{Title: "Shop", Budget: "10", ClientID: amy.ID})

	if err := clients.DeleteClient(ctx, bob.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	list, _ := clients.ListClients(ctx)
	for _, c := range list {
		if c.ID == bob.ID {
			t.Fatal("deleted client still listed")
		}
		for _, p := range c.Projects {
			if p.ClientID == bob.ID {
				t.Fatalf("orphan project %s survived", p.ID)
			}
		}
	}
	if _, err := projects.ToggleStatus(ctx, p1.ID); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("expected cascaded project to be gone, got %v", err)
	}
	if _, err := projects.ToggleStatus(ctx, kept.ID); err != nil {
		t.Fatalf("other client's project should survive: %v", err)
	}
}
