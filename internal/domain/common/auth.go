package common

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the custom claims included in the JWT access token.
// Subject carries the user id.
type Claims struct {
	UserID               string `json:"uid,omitempty"`   // Custom claim for User ID, kept for older tokens.
	Scope                string `json:"scope,omitempty"` // Optional scope information.
	jwt.RegisteredClaims        // Embed standard claims (ExpiresAt, IssuedAt, Subject, etc.).
}

// Owner returns the user id the token was issued for.
func (c *Claims) Owner() string {
	if c.Subject != "" {
		return c.Subject
	}
	return c.UserID
}
