package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	StatusActive    ProjectStatus = "Active"
	StatusCompleted ProjectStatus = "Completed"
	StatusAbandoned ProjectStatus = "Abandoned"
)

// statusCycle is the fixed rotation applied by a status toggle.
var statusCycle = map[ProjectStatus]ProjectStatus{
	StatusActive:    StatusCompleted,
	StatusCompleted: StatusAbandoned,
	StatusAbandoned: StatusActive,
}

// Next returns the status that follows s in the toggle cycle. Unknown values
// restart the cycle at Active.
func (s ProjectStatus) Next() ProjectStatus {
	if next, ok := statusCycle[s]; ok {
		return next
	}
	return StatusActive
}

// Valid reports whether s is one of the known statuses.
func (s ProjectStatus) Valid() bool {
	_, ok := statusCycle[s]
	return ok
}

// NormalizeStatus maps stored values onto the known set. Legacy or empty
// values read back as Active.
func NormalizeStatus(raw string) ProjectStatus {
	s := ProjectStatus(raw)
	if s.Valid() {
		return s
	}
	return StatusActive
}

// Project is a unit of billable work owned by exactly one client.
type Project struct {
	ID          string        `json:"id"`
	ClientID    string        `json:"client_id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Budget      float64       `json:"budget"`
	Status      ProjectStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// CoerceBudget turns caller input into a budget. Anything that is not a
// finite, non-negative number becomes 0.
func CoerceBudget(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
