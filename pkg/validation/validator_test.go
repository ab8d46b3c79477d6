package validation

import (
	"strings"
	"testing"
)

type createBody struct {
	Subdomain  string   `json:"subdomain" validate:"required,dnslabel"`
	GithubRepo string   `json:"githubRepo" validate:"omitempty,repourl"`
	Domains    []string `json:"domains" validate:"recordids"`
}

func TestIsDNSLabel(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"club", true},
		{"my-club-42", true},
		{"a", true},
		{"-club", false},
		{"club-", false},
		{"my_club", false},
		{"my.club", false},
		{"", false},
		{strings.Repeat("a", 63), true},
		{strings.Repeat("a", 64), false},
	}
	for _, tc := range cases {
		if got := IsDNSLabel(tc.in); got != tc.want {
			t.Errorf("IsDNSLabel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestIsRepoURL(t *testing.T) {
	for _, ok := range []string{"", "https://github.com/a/b", "http://git.example/x"} {
		if !IsRepoURL(ok) {
			t.Errorf("expected %q to be accepted", ok)
		}
	}
	for _, bad := range []string{"github.com/a/b", "ftp://x/y", "https://"} {
		if IsRepoURL(bad) {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestToDetails_UsesJSONNames(t *testing.T) {
	v := New()
	err := v.Struct(createBody{Subdomain: "-bad-", GithubRepo: "nope"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	d := ToDetails(err)
	for _, field := range []string{"subdomain", "githubRepo", "domains"} {
		if _, ok := d[field]; !ok {
			t.Fatalf("details missing %s: %v", field, d)
		}
	}
}
