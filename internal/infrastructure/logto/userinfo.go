package logto

import (
	"encoding/json"

	"github.com/oksasatya/club-subdomain-portal/internal/domain/entity"
)

// UserInfo is the userinfo payload. Roles is filled from the optional
// "roles" claim, which Logto emits as role names; {id,name} objects are
// accepted too.
type UserInfo struct {
	Sub      string        `json:"sub"`
	Email    string        `json:"email,omitempty"`
	Name     string        `json:"name,omitempty"`
	Username string        `json:"username,omitempty"`
	Roles    []entity.Role `json:"roles,omitempty"`
	// HasRolesClaim is true when the payload carried a roles claim, even an empty one.
	HasRolesClaim bool `json:"hasRolesClaim,omitempty"`
}

func (u *UserInfo) UnmarshalJSON(b []byte) error {
	var raw struct {
		Sub           string          `json:"sub"`
		Email         string          `json:"email"`
		Name          string          `json:"name"`
		Username      string          `json:"username"`
		Roles         json.RawMessage `json:"roles"`
		HasRolesClaim bool            `json:"hasRolesClaim"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*u = UserInfo{Sub: raw.Sub, Email: raw.Email, Name: raw.Name, Username: raw.Username, HasRolesClaim: raw.HasRolesClaim}
	if len(raw.Roles) == 0 || string(raw.Roles) == "null" {
		return nil
	}
	u.HasRolesClaim = true

	var names []string
	if err := json.Unmarshal(raw.Roles, &names); err == nil {
		u.Roles = make([]entity.Role, 0, len(names))
		for _, n := range names {
			u.Roles = append(u.Roles, entity.Role{Name: n})
		}
		return nil
	}
	var roles []entity.Role
	if err := json.Unmarshal(raw.Roles, &roles); err != nil {
		// An unexpected shape is treated as "no claim", not as a bad payload.
		u.HasRolesClaim = false
		return nil
	}
	u.Roles = roles
	return nil
}

// DisplayName prefers the name claim, then the username.
func (u *UserInfo) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}
