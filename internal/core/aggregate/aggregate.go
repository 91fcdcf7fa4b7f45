// Package aggregate derives dashboard figures from a client collection.
// Every function is pure: inputs are never mutated and nothing is stored.
package aggregate

import (
	"strings"

	"github.com/freelancehub/api/internal/core/domain"
)

// RevenuePolicy selects which projects count toward revenue.
type RevenuePolicy struct {
	ExcludeAbandoned bool
}

// TotalRevenue sums project budgets across all clients. With
// excludeAbandoned, Abandoned projects contribute nothing.
func TotalRevenue(clients []*domain.Client, excludeAbandoned bool) float64 {
	var total float64
	for _, c := range clients {
		if c == nil {
			continue
		}
		for _, p := range c.Projects {
			if p == nil {
				continue
			}
			if excludeAbandoned && p.Status == domain.StatusAbandoned {
				continue
			}
			total += p.Budget
		}
	}
	return total
}

// FilterClients keeps clients whose name or company name contains term,
// ignoring case. An empty term keeps everything. Order is preserved.
func FilterClients(clients []*domain.Client, term string) []*domain.Client {
	needle := strings.ToLower(term)
	out := make([]*domain.Client, 0, len(clients))
	for _, c := range clients {
		if c == nil {
			continue
		}
		if matches(c, needle) {
			out = append(out, c)
		}
	}
	return out
}

func matches(c *domain.Client, needle string) bool {
	if strings.Contains(strings.ToLower(c.Name), needle) {
		return true
	}
	// a missing company name never matches
	return c.CompanyName != "" && strings.Contains(strings.ToLower(c.CompanyName), needle)
}

// ProjectCount is the number of projects across all clients.
func ProjectCount(clients []*domain.Client) int {
	n := 0
	for _, c := range clients {
		if c != nil {
			n += len(c.Projects)
		}
	}
	return n
}

// StatusTotals is the per-status slice of a StatusBreakdown.
type StatusTotals struct {
	Count  int     `json:"count"`
	Budget float64 `json:"budget"`
}

// StatusBreakdown groups project counts and budgets by status. All known
// statuses are present, zero-valued when unused.
func StatusBreakdown(clients []*domain.Client) map[domain.ProjectStatus]StatusTotals {
	out := map[domain.ProjectStatus]StatusTotals{
		domain.StatusActive:    {},
		domain.StatusCompleted: {},
		domain.StatusAbandoned: {},
	}
	for _, c := range clients {
		if c == nil {
			continue
		}
		for _, p := range c.Projects {
			if p == nil {
				continue
			}
			t := out[p.Status]
			t.Count++
			t.Budget += p.Budget
			out[p.Status] = t
		}
	}
	return out
}

// Summary is the dashboard view over a (possibly filtered) client list.
type Summary struct {
	Clients          []*domain.Client
	ClientCount      int
	ProjectCount     int
	TotalRevenue     float64
	ExcludeAbandoned bool
	ByStatus         map[domain.ProjectStatus]StatusTotals
}

// Summarize filters clients by term and computes totals over the result.
func Summarize(clients []*domain.Client, term string, policy RevenuePolicy) Summary {
	filtered := FilterClients(clients, term)
	return Summary{
		Clients:          filtered,
		ClientCount:      len(filtered),
		ProjectCount:     ProjectCount(filtered),
		TotalRevenue:     TotalRevenue(filtered, policy.ExcludeAbandoned),
		ExcludeAbandoned: policy.ExcludeAbandoned,
		ByStatus:         StatusBreakdown(filtered),
	}
}
