// Package memory keeps users, clients and projects in process memory. A
// single lock serialises every mutation, so each operation is atomic.
package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/freelancehub/api/internal/core/domain"
)

// Store implements ports.AuthRepository, ports.ClientRepository and
// ports.ProjectRepository.
type Store struct {
	mu       sync.RWMutex
	seq      int64
	users    map[string]*domain.User
	clients  []*domain.Client
	projects map[string]*domain.Project // by project ID
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*domain.User),
		projects: make(map[string]*domain.Project),
	}
}

func (s *Store) nextID() string {
	s.seq++
	return strconv.FormatInt(s.seq, 10)
}

// Ping always succeeds; it lets the store stand in as a readiness check.
func (s *Store) Ping(context.Context) error { return nil }

// --- users ---

func (s *Store) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	u := *user
	u.ID = s.nextID()
	s.users[u.Username] = &u
	out := u
	return &out, nil
}

func (s *Store) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

// --- clients ---

// Clients returns the store viewed as a ports.ClientRepository.
func (s *Store) Clients() *ClientRepository { return &ClientRepository{s: s} }

// Projects returns the store viewed as a ports.ProjectRepository.
func (s *Store) Projects() *ProjectRepository { return &ProjectRepository{s: s} }

type ClientRepository struct{ s *Store }

func (r *ClientRepository) List(_ context.Context) ([]*domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Client, 0, len(r.s.clients))
	for _, c := range r.s.clients {
		out = append(out, cloneClient(c))
	}
	return out, nil
}

func (r *ClientRepository) Create(_ context.Context, c *domain.Client) (*domain.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.clients {
		if existing.Email == c.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	stored := cloneClient(c)
	stored.ID = r.s.nextID()
	stored.Projects = []*domain.Project{}
	r.s.clients = append(r.s.clients, stored)
	return cloneClient(stored), nil
}

func (r *ClientRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	idx := r.s.clientIndex(id)
	if idx < 0 {
		return domain.ErrClientNotFound
	}
	for _, p := range r.s.clients[idx].Projects {
		delete(r.s.projects, p.ID)
	}
	r.s.clients = append(r.s.clients[:idx], r.s.clients[idx+1:]...)
	return nil
}

func (s *Store) clientIndex(id string) int {
	for i, c := range s.clients {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// --- projects ---

type ProjectRepository struct{ s *Store }

func (r *ProjectRepository) Create(_ context.Context, p *domain.Project) (*domain.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	idx := r.s.clientIndex(p.ClientID)
	if idx < 0 {
		return nil, domain.ErrClientNotFound
	}
	stored := *p
	stored.ID = r.s.nextID()
	client := r.s.clients[idx]
	client.Projects = append(client.Projects, &stored)
	r.s.projects[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *ProjectRepository) FindByID(_ context.Context, id string) (*domain.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	out := *p
	return &out, nil
}

func (r *ProjectRepository) UpdateStatus(_ context.Context, id string, from, to domain.ProjectStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.projects[id]
	if !ok {
		return domain.ErrProjectNotFound
	}
	if p.Status != from {
		return domain.ErrStatusConflict
	}
	p.Status = to
	return nil
}

func (r *ProjectRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.projects[id]
	if !ok {
		return domain.ErrProjectNotFound
	}
	delete(r.s.projects, id)
	if idx := r.s.clientIndex(p.ClientID); idx >= 0 {
		client := r.s.clients[idx]
		for i, cp := range client.Projects {
			if cp.ID == id {
				client.Projects = append(client.Projects[:i], client.Projects[i+1:]...)
				break
			}
		}
	}
	return nil
}

func cloneClient(c *domain.Client) *domain.Client {
	out := *c
	out.Projects = make([]*domain.Project, 0, len(c.Projects))
	for _, p := range c.Projects {
		cp := *p
		out.Projects = append(out.Projects, &cp)
	}
	return &out
}
