// Package metrics defines and registers all custom Prometheus metrics for the
// freelancehub API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto; HTTP request metrics come from the
// echoprometheus middleware instead.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "freelancehub"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "locked" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts successfully registered users.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of users registered.",
	},
)

// ── Client metrics ────────────────────────────────────────────────────────────

var ClientsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clients_created_total",
		Help:      "Total number of clients created.",
	},
)

var ClientsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clients_deleted_total",
		Help:      "Total number of clients deleted, including their projects.",
	},
)

// ── Project metrics ───────────────────────────────────────────────────────────

var ProjectsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "projects_created_total",
		Help:      "Total number of projects created.",
	},
)

var ProjectsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "projects_deleted_total",
		Help:      "Total number of projects deleted individually.",
	},
)

// StatusTogglesTotal counts project status changes.
// Label:
//   - to: the status the project moved into (e.g. "Completed")
var StatusTogglesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "project_status_toggles_total",
		Help:      "Total number of project status toggles, by resulting status.",
	},
	[]string{"to"},
)

// ProjectBudgetCreated observes the coerced budget of each new project.
var ProjectBudgetCreated = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "project_budget",
		Help:      "Budget of newly created projects after coercion.",
		Buckets:   []float64{0, 100, 500, 1000, 5000, 10000, 50000},
	},
)
