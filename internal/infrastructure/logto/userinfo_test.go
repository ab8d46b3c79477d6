package logto

import (
	"encoding/json"
	"testing"
)

func TestUserInfo_RolesClaimShapes(t *testing.T) {
	cases := []struct {
		name     string
		payload  string
		hasClaim bool
		want     []string
	}{
		{"names", `{"sub":"u","roles":["Admin","More Subdomains"]}`, true, []string{"Admin", "More Subdomains"}},
		{"objects", `{"sub":"u","roles":[{"id":"r1","name":"Admin"}]}`, true, []string{"Admin"}},
		{"empty", `{"sub":"u","roles":[]}`, true, nil},
		{"absent", `{"sub":"u"}`, false, nil},
		{"null", `{"sub":"u","roles":null}`, false, nil},
		{"garbage", `{"sub":"u","roles":42}`, false, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var u UserInfo
			if err := json.Unmarshal([]byte(tc.payload), &u); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if u.HasRolesClaim != tc.hasClaim {
				t.Fatalf("HasRolesClaim: got %v want %v", u.HasRolesClaim, tc.hasClaim)
			}
			if len(u.Roles) != len(tc.want) {
				t.Fatalf("roles: %+v", u.Roles)
			}
			for i, n := range tc.want {
				if u.Roles[i].Name != n {
					t.Fatalf("role %d: got %q want %q", i, u.Roles[i].Name, n)
				}
			}
		})
	}
}

func TestUserInfo_SurvivesStoreRoundTrip(t *testing.T) {
	in := UserInfo{Sub: "u", Email: "e@x", Roles: nil, HasRolesClaim: true}
	b, _ := json.Marshal(in)
	var out UserInfo
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.HasRolesClaim || out.Email != "e@x" {
		t.Fatalf("out: %+v", out)
	}
}
