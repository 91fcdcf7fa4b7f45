package handler

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// looseString accepts a JSON string, number or null. Browser forms send
// numeric fields either way.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			// objects, arrays and booleans carry no usable value
			*s = ""
			return nil
		}
		*s = looseString(n.String())
	}
	return nil
}

// --- Auth ---

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// --- Clients ---

type createClientRequest struct {
	Name        string `json:"name"         validate:"required"`
	Email       string `json:"email"        validate:"required,email"`
	CompanyName string `json:"company_name"`
}

type clientResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	CompanyName string            `json:"company_name,omitempty"`
	Projects    []projectResponse `json:"projects"`
	CreatedAt   time.Time         `json:"created_at"`
}

// --- Projects ---

type createProjectRequest struct {
	Title       string      `json:"title"       validate:"required"`
	Description string      `json:"description"`
	Budget      looseString `json:"budget"`
	ClientID    looseString `json:"client_id"   validate:"required"`
}

type projectResponse struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"client_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Budget      float64   `json:"budget"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// --- Summary ---

type statusTotalsResponse struct {
	Count  int     `json:"count"`
	Budget float64 `json:"budget"`
}

type summaryResponse struct {
	ClientCount      int                             `json:"client_count"`
	ProjectCount     int                             `json:"project_count"`
	TotalRevenue     float64                         `json:"total_revenue"`
	ExcludeAbandoned bool                            `json:"exclude_abandoned"`
	ByStatus         map[string]statusTotalsResponse `json:"by_status"`
	Clients          []clientResponse                `json:"clients"`
}

// parseBoolParam reads an optional boolean query parameter.
func parseBoolParam(raw string, fallback bool) (bool, bool) {
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback, false
	}
	return v, true
}
