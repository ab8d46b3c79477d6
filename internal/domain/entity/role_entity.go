package entity

import "strings"

// Role represents an authorization role granted by the identity provider.
// Only id and name are carried; assignment lives in the provider.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Matches reports whether the role is identified by ref, either by id or by
// case-insensitive name.
func (r Role) Matches(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false
	}
	return r.ID == ref || strings.EqualFold(r.Name, ref)
}

// HasRole reports whether any role in roles matches ref.
func HasRole(roles []Role, ref string) bool {
	for _, r := range roles {
		if r.Matches(ref) {
			return true
		}
	}
	return false
}
