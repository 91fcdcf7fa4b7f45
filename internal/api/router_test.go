package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/freelancehub/api/internal/api/handler"
	"github.com/freelancehub/api/internal/core/aggregate"
	"github.com/freelancehub/api/internal/core/service"
	"github.com/freelancehub/api/internal/infrastructure/db/memory"
)

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	store := memory.NewStore()
	log := zerolog.New(io.Discard)

	return NewRouter(Deps{
		Auth:     service.NewAuthService(store, nil, "test-secret", time.Hour, log),
		Clients:  service.NewClientService(store.Clients(), log),
		Projects: service.NewProjectService(store.Projects(), log),
		Health:   map[string]handler.Pinger{"store": store},
		Revenue:  aggregate.RevenuePolicy{ExcludeAbandoned: true},
		Logger:   log,
		Registry: prometheus.NewRegistry(),
	})
}

func do(t *testing.T, e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
}

func login(t *testing.T, e *echo.Echo, username, password string) string {
	t.Helper()
	rec := do(t, e, http.MethodPost, "/login", "", `{"username":"`+username+`","password":"`+password+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decode(t, rec, &tok)
	if tok.AccessToken == "" || tok.TokenType != "bearer" {
		t.Fatalf("unexpected token response: %s", rec.Body.String())
	}
	return tok.AccessToken
}

type projectJSON struct {
	ID       string  `json:"id"`
	ClientID string  `json:"client_id"`
	Title    string  `json:"title"`
	Budget   float64 `json:"budget"`
	Status   string  `json:"status"`
}

type clientJSON struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Projects []projectJSON `json:"projects"`
}

func TestRouter_DashboardFlow(t *testing.T) {
	e := newTestRouter(t)

	if rec := do(t, e, http.MethodPost, "/register", "", `{"username":"alice","password":"pw1"}`); rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, e, http.MethodPost, "/register", "", `{"username":"alice","password":"other"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: expected 400, got %d", rec.Code)
	}
	if rec := do(t, e, http.MethodPost, "/login", "", `{"username":"alice","password":"nope"}`); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", rec.Code)
	}

	token := login(t, e, "alice", "pw1")

	rec := do(t, e, http.MethodPost, "/clients", token, `{"name":"Bob","email":"bob@x.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create client: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var bob clientJSON
	decode(t, rec, &bob)

	if rec := do(t, e, http.MethodPost, "/clients", token, `{"name":"Bobby","email":"bob@x.com"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate email: expected 400, got %d", rec.Code)
	}

	rec = do(t, e, http.MethodPost, "/projects", token, `{"title":"Website","budget":1500,"client_id":"`+bob.ID+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create project: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var website projectJSON
	decode(t, rec, &website)
	if website.Status != "Active" || website.Budget != 1500 {
		t.Fatalf("unexpected project: %+v", website)
	}

	rec = do(t, e, http.MethodGet, "/clients", token, "")
	var clients []clientJSON
	decode(t, rec, &clients)
	if len(clients) != 1 || len(clients[0].Projects) != 1 || clients[0].Projects[0].Status != "Active" {
		t.Fatalf("unexpected listing: %s", rec.Body.String())
	}

	// Active -> Completed -> Abandoned
	for _, want := range []string{"Completed", "Abandoned"} {
		rec = do(t, e, http.MethodPatch, "/projects/"+website.ID+"/status", token, "")
		var p projectJSON
		decode(t, rec, &p)
		if p.Status != want {
			t.Fatalf("toggle: expected %s, got %s", want, p.Status)
		}
	}

	rec = do(t, e, http.MethodGet, "/summary", token, "")
	var summary struct {
		TotalRevenue float64 `json:"total_revenue"`
		ProjectCount int     `json:"project_count"`
	}
	decode(t, rec, &summary)
	if summary.TotalRevenue != 0 || summary.ProjectCount != 1 {
		t.Fatalf("abandoned budget must not count: %s", rec.Body.String())
	}

	if rec := do(t, e, http.MethodDelete, "/clients/"+bob.ID, token, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete client: expected 204, got %d", rec.Code)
	}
	if rec := do(t, e, http.MethodPatch, "/projects/"+website.ID+"/status", token, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("project must be gone with its client, got %d", rec.Code)
	}
}

func TestRouter_ProjectForUnknownClient(t *testing.T) {
	e := newTestRouter(t)
	do(t, e, http.MethodPost, "/register", "", `{"username":"alice","password":"pw1"}`)
	token := login(t, e, "alice", "pw1")

	rec := do(t, e, http.MethodPost, "/projects", token, `{"title":"Ghost","budget":"10","client_id":"999"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	e := newTestRouter(t)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/clients"},
		{http.MethodPost, "/clients"},
		{http.MethodDelete, "/clients/1"},
		{http.MethodPost, "/projects"},
		{http.MethodPatch, "/projects/1/status"},
		{http.MethodDelete, "/projects/1"},
		{http.MethodGet, "/summary"},
	}
	for _, r := range routes {
		if rec := do(t, e, r.method, r.path, "", ""); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", r.method, r.path, rec.Code)
		}
		if rec := do(t, e, r.method, r.path, "garbage", ""); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s with bad token: expected 401, got %d", r.method, r.path, rec.Code)
		}
	}
}

func TestRouter_TrailingSlashAndUnknownRoutes(t *testing.T) {
	e := newTestRouter(t)
	do(t, e, http.MethodPost, "/register", "", `{"username":"alice","password":"pw1"}`)
	token := login(t, e, "alice", "pw1")

	if rec := do(t, e, http.MethodGet, "/clients/", token, ""); rec.Code != http.StatusOK {
		t.Fatalf("trailing slash: expected 200, got %d", rec.Code)
	}
	if rec := do(t, e, http.MethodGet, "/nope", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown route: expected 404, got %d", rec.Code)
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	e := newTestRouter(t)

	if rec := do(t, e, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	if rec := do(t, e, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", rec.Code)
	}
	rec := do(t, e, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Fatalf("metrics: expected request counters, got %d", rec.Code)
	}
}

func TestRouter_AuthRateLimit(t *testing.T) {
	store := memory.NewStore()
	log := zerolog.New(io.Discard)
	e := NewRouter(Deps{
		Auth:          service.NewAuthService(store, nil, "test-secret", time.Hour, log),
		Clients:       service.NewClientService(store.Clients(), log),
		Projects:      service.NewProjectService(store.Projects(), log),
		Logger:        log,
		AuthRateLimit: 0.001,
		AuthBurst:     1,
		Registry:      prometheus.NewRegistry(),
	})

	body := `{"username":"x","password":"y"}`
	do(t, e, http.MethodPost, "/login", "", body)
	if rec := do(t, e, http.MethodPost, "/login", "", body); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}
