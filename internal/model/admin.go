package model

import "time"

// Admin is the authenticated operator of the site, taken from a verified session token.
type Admin struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}
