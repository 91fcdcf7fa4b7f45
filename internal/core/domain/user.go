package domain

import "time"

// User models an account allowed to obtain tokens.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Token is a signed bearer credential issued on login.
type Token struct {
	Value     string
	Subject   string
	ExpiresAt time.Time
}
