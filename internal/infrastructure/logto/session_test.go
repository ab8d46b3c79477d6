package logto

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/oksasatya/club-subdomain-portal/internal/infrastructure/logto/logtotest"
	"github.com/oksasatya/club-subdomain-portal/pkg/helpers"
)

func newTestSessionClient(t *testing.T) (*SessionClient, *logtotest.Server, *MemorySessionStore) {
	t.Helper()
	p, srv := newTestProvider(t)
	store := NewMemorySessionStore()
	signer := helpers.NewSessionSigner("0123456789abcdef0123456789abcdef", 24*time.Hour, "test")
	return NewSessionClient(p, store, signer, 24*time.Hour), srv, store
}

func requestWithCookies(target string, cookies []helpers.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		r.Header.Add("Cookie", c.Name+"="+url.QueryEscape(c.Value))
	}
	return r
}

// signIn drives SignIn + HandleSignInCallback against the fake provider.
func signIn(t *testing.T, c *SessionClient, srv *logtotest.Server, tokens logtotest.TokenResponse) []helpers.Cookie {
	t.Helper()
	res, err := c.SignIn(context.Background(), "http://app.test/")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	u, _ := url.Parse(res.RedirectURL)
	state := u.Query().Get("state")

	sid, _ := c.signer.Parse(res.Cookies[0].Value)
	pending, _, _ := c.store.Get(context.Background(), sid)
	srv.AddCode("code-1", pending.CodeVerifier, tokens)

	cb := requestWithCookies("/api/logto/callback?code=code-1&state="+state, res.Cookies)
	done, err := c.HandleSignInCallback(context.Background(), cb)
	if err != nil {
		t.Fatalf("HandleSignInCallback: %v", err)
	}
	if done.RedirectURL != "http://app.test/" {
		t.Fatalf("post sign-in target: %q", done.RedirectURL)
	}
	return done.Cookies
}

func TestSessionClient_SignInCallbackGetContext(t *testing.T) {
	c, srv, _ := newTestSessionClient(t)
	srv.AddUser("at", map[string]any{"sub": "u1", "email": "a@example.com"})

	cookies := signIn(t, c, srv, logtotest.TokenResponse{AccessToken: "at", IDToken: "idt", RefreshToken: "rt", ExpiresIn: 3600})

	sc, set, err := c.GetContext(context.Background(), requestWithCookies("/", cookies))
	if err != nil {
		t.Fatalf("GetContext: %v", err)
	}
	if !sc.IsAuthenticated || sc.UserInfo.Email != "a@example.com" || sc.AccessToken != "at" {
		t.Fatalf("context: %+v", sc)
	}
	if len(set) != 0 {
		t.Fatalf("unexpected cookies: %+v", set)
	}
}

func TestSessionClient_CallbackStateMismatch(t *testing.T) {
	c, _, _ := newTestSessionClient(t)
	res, err := c.SignIn(context.Background(), "")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	cb := requestWithCookies("/api/logto/callback?code=x&state=forged", res.Cookies)
	if _, err := c.HandleSignInCallback(context.Background(), cb); !errors.Is(err, ErrStateMismatch) {
		t.Fatalf("err: %v", err)
	}
}

func TestSessionClient_CallbackWithoutSession(t *testing.T) {
	c, _, _ := newTestSessionClient(t)
	cb := httptest.NewRequest(http.MethodGet, "/api/logto/callback?code=x&state=y", nil)
	if _, err := c.HandleSignInCallback(context.Background(), cb); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err: %v", err)
	}
}

func TestSessionClient_RefreshesExpiredToken(t *testing.T) {
	c, srv, _ := newTestSessionClient(t)
	srv.AddUser("at", map[string]any{"sub": "u1", "email": "a@example.com"})
	srv.AddRefreshToken("rt", logtotest.TokenResponse{AccessToken: "at2", ExpiresIn: 3600})

	cookies := signIn(t, c, srv, logtotest.TokenResponse{AccessToken: "at", RefreshToken: "rt", ExpiresIn: 3600})
	c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	sc, set, err := c.GetContext(context.Background(), requestWithCookies("/", cookies))
	if err != nil {
		t.Fatalf("GetContext: %v", err)
	}
	if !sc.IsAuthenticated || sc.AccessToken != "at2" {
		t.Fatalf("context: %+v", sc)
	}
	if len(set) != 1 || set[0].Name != helpers.SessionCookie {
		t.Fatalf("expected re-issued session cookie, got %+v", set)
	}
}

func TestSessionClient_GetContextWithoutCookie(t *testing.T) {
	c, _, _ := newTestSessionClient(t)
	sc, set, err := c.GetContext(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil || sc.IsAuthenticated || len(set) != 0 {
		t.Fatalf("got %+v %+v %v", sc, set, err)
	}
}

func TestSessionClient_SignOut(t *testing.T) {
	c, srv, store := newTestSessionClient(t)
	srv.AddUser("at", map[string]any{"sub": "u1"})
	cookies := signIn(t, c, srv, logtotest.TokenResponse{AccessToken: "at", IDToken: "idt"})

	res, err := c.SignOut(context.Background(), requestWithCookies("/", cookies), "http://app.test")
	if err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if res.RedirectURL == "" {
		t.Fatalf("expected end-session url")
	}
	if len(res.Cookies) != 1 || res.Cookies[0].MaxAge != 0 {
		t.Fatalf("session cookie not cleared: %+v", res.Cookies)
	}
	sid, _ := c.signer.Parse(cookies[0].Value)
	if _, ok, _ := store.Get(context.Background(), sid); ok {
		t.Fatalf("session still stored")
	}

	res, err = c.SignOut(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil), "")
	if err != nil || res.RedirectURL != "" || len(res.Cookies) != 0 {
		t.Fatalf("sign-out without session: %+v %v", res, err)
	}
}

func TestMemorySessionStore_Expires(t *testing.T) {
	s := NewMemorySessionStore()
	now := time.Now()
	s.now = func() time.Time { return now }
	_ = s.Put(context.Background(), &Session{ID: "a"}, time.Minute)

	if _, ok, _ := s.Get(context.Background(), "a"); !ok {
		t.Fatalf("expected session")
	}
	now = now.Add(2 * time.Minute)
	if _, ok, _ := s.Get(context.Background(), "a"); ok {
		t.Fatalf("expected expiry")
	}
}
