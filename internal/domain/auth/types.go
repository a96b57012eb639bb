package auth

import "time"

// RoleAdmin is the only role the admin API accepts.
const RoleAdmin = "admin"

// Config drives admin token behavior.
type Config struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

// Claims are extracted from the JWT token.
type Claims struct {
	Subject   string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}
