package domain

import "time"

// Client is a business contact. Projects are kept in creation order.
type Client struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	CompanyName string     `json:"company_name,omitempty"`
	Projects    []*Project `json:"projects"`
	CreatedAt   time.Time  `json:"created_at"`
}
