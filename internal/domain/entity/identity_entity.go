package entity

import "strings"

// Identity is the outcome of resolving a request's credentials.
type Identity struct {
	Authenticated bool
	Subject       string
	Email         string
	Name          string
	Roles         []Role
	// Source names the strategy that authenticated the caller.
	Source string
}

// HasEmail reports whether an owner email could be resolved.
func (i Identity) HasEmail() bool {
	return strings.TrimSpace(i.Email) != ""
}

// Owns reports whether email belongs to this identity.
func (i Identity) Owns(email string) bool {
	return i.HasEmail() && strings.EqualFold(strings.TrimSpace(i.Email), strings.TrimSpace(email))
}
