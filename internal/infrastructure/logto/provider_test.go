package logto

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/oksasatya/club-subdomain-portal/internal/domain/entity"
	"github.com/oksasatya/club-subdomain-portal/internal/infrastructure/logto/logtotest"
)

func newTestProvider(t *testing.T) (*Provider, *logtotest.Server) {
	t.Helper()
	srv := logtotest.NewServer()
	t.Cleanup(srv.Close)
	p := NewProvider(Options{
		Endpoint:    srv.URL + "/",
		AppID:       logtotest.ClientID,
		AppSecret:   logtotest.ClientSecret,
		RedirectURL: "http://app.test/api/logto/callback",
		Scopes:      []string{"openid", "profile", "email", "roles", "offline_access"},
		Timeout:     2 * time.Second,
	}, srv.Client())
	return p, srv
}

func TestProvider_AuthCodeURL(t *testing.T) {
	p, srv := newTestProvider(t)
	verifier := oauth2.GenerateVerifier()

	u, err := url.Parse(p.AuthCodeURL("st4te", verifier))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := u.Scheme + "://" + u.Host + u.Path; got != srv.URL+"/oidc/auth" {
		t.Fatalf("auth endpoint: %q", got)
	}
	q := u.Query()
	want := map[string]string{
		"client_id":             logtotest.ClientID,
		"redirect_uri":          "http://app.test/api/logto/callback",
		"response_type":         "code",
		"scope":                 "openid profile email roles offline_access",
		"state":                 "st4te",
		"code_challenge":        oauth2.S256ChallengeFromVerifier(verifier),
		"code_challenge_method": "S256",
		"prompt":                "consent",
	}
	for k, v := range want {
		if q.Get(k) != v {
			t.Errorf("%s: got %q want %q", k, q.Get(k), v)
		}
	}
}

func TestProvider_ExchangeAndUserInfo(t *testing.T) {
	p, srv := newTestProvider(t)
	srv.AddCode("code-1", "verifier-1", logtotest.TokenResponse{AccessToken: "at", IDToken: "idt", RefreshToken: "rt", ExpiresIn: 1800})
	srv.AddUser("at", map[string]any{"sub": "u1", "email": "a@example.com", "name": "Ada", "roles": []string{"Admin"}})

	tok, err := p.Exchange(context.Background(), "code-1", "verifier-1")
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if tok.AccessToken != "at" || tok.IDToken != "idt" || tok.RefreshToken != "rt" {
		t.Fatalf("tokens: %+v", tok)
	}
	if tok.ExpiresIn < 1790 || tok.ExpiresIn > 1800 {
		t.Fatalf("expires in: %d", tok.ExpiresIn)
	}

	info, err := p.UserInfo(context.Background(), "at")
	if err != nil {
		t.Fatalf("UserInfo: %v", err)
	}
	if info.Email != "a@example.com" || !info.HasRolesClaim || len(info.Roles) != 1 || info.Roles[0].Name != "Admin" {
		t.Fatalf("info: %+v", info)
	}
}

func TestProvider_ExchangeRejectedIsStatusError(t *testing.T) {
	p, srv := newTestProvider(t)
	srv.AddCode("code-1", "right", logtotest.TokenResponse{AccessToken: "at"})

	_, err := p.Exchange(context.Background(), "code-1", "wrong")
	if err == nil || !IsStatusError(err) {
		t.Fatalf("err: %v", err)
	}
}

func TestProvider_UserInfoUnauthorized(t *testing.T) {
	p, _ := newTestProvider(t)
	_, err := p.UserInfo(context.Background(), "unknown")
	if !IsStatusError(err) {
		t.Fatalf("err: %v", err)
	}
}

func TestProvider_Refresh(t *testing.T) {
	p, srv := newTestProvider(t)
	srv.AddRefreshToken("rt", logtotest.TokenResponse{AccessToken: "at2", ExpiresIn: 60})

	tok, err := p.Refresh(context.Background(), "rt")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if tok.AccessToken != "at2" || tok.RefreshToken != "rt" {
		t.Fatalf("tokens: %+v", tok)
	}
}

func TestProvider_UserRoles(t *testing.T) {
	p, srv := newTestProvider(t)
	srv.AddUser("at", map[string]any{"sub": "u1"})
	srv.SetRoles("u1", []entity.Role{{ID: "r1", Name: "More Subdomains"}})

	roles, err := p.UserRoles(context.Background(), "at", "u1")
	if err != nil {
		t.Fatalf("UserRoles: %v", err)
	}
	if len(roles) != 1 || roles[0].ID != "r1" {
		t.Fatalf("roles: %+v", roles)
	}
}

func TestProvider_EndSessionURL(t *testing.T) {
	p, srv := newTestProvider(t)
	got := p.EndSessionURL("http://app.test", "idt")
	if !strings.HasPrefix(got, srv.URL+"/oidc/session/end?") || !strings.Contains(got, "post_logout_redirect_uri=http%3A%2F%2Fapp.test") {
		t.Fatalf("url: %s", got)
	}
}
