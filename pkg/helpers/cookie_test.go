package helpers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func cookiesByName(rec *httptest.ResponseRecorder) map[string]Cookie {
	out := map[string]Cookie{}
	for _, line := range rec.Header().Values("Set-Cookie") {
		c := ParseSetCookie(line)
		out[c.Name] = c
	}
	return out
}

func TestManager_SetAuthTokens(t *testing.T) {
	m := NewCookie("", true)
	rec := httptest.NewRecorder()
	m.SetAuthTokens(rec, "acc", "idt", "ref", 0)

	got := cookiesByName(rec)
	if got[AccessTokenCookie].Value != "acc" || got[AccessTokenCookie].MaxAge != DefaultAccessMaxAge {
		t.Fatalf("access cookie: %+v", got[AccessTokenCookie])
	}
	if got[IDTokenCookie].MaxAge != DefaultAccessMaxAge {
		t.Fatalf("id cookie: %+v", got[IDTokenCookie])
	}
	if got[RefreshTokenCookie].MaxAge != RefreshMaxAge {
		t.Fatalf("refresh cookie: %+v", got[RefreshTokenCookie])
	}
	for _, line := range rec.Header().Values("Set-Cookie") {
		for _, attr := range []string{"HttpOnly", "Secure", "SameSite=Lax", "Path=/"} {
			if !strings.Contains(line, attr) {
				t.Fatalf("%q missing %s", line, attr)
			}
		}
	}
}

func TestManager_ClearAuthTokens(t *testing.T) {
	m := NewCookie("example.com", false)
	rec := httptest.NewRecorder()
	m.ClearAuthTokens(rec)

	got := cookiesByName(rec)
	if len(got) != 3 {
		t.Fatalf("cleared %d cookies, want 3", len(got))
	}
	for _, name := range AuthCookieNames {
		if c, ok := got[name]; !ok || c.MaxAge != 0 || c.Value != "" {
			t.Fatalf("%s not cleared: %+v", name, c)
		}
	}
	if strings.Contains(rec.Header().Get("Set-Cookie"), "Secure") {
		t.Fatalf("secure flag set when disabled")
	}
}

func TestReadCookie_ColonNames(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Cookie", "other=1; logto:access_token=abc.def-ghi; logto_state=s%2B1")

	if v, ok := ReadCookie(r, AccessTokenCookie); !ok || v != "abc.def-ghi" {
		t.Fatalf("access token: %q %v", v, ok)
	}
	if v, _ := ReadCookie(r, StateCookie); v != "s+1" {
		t.Fatalf("state: %q", v)
	}
	if _, ok := ReadCookie(r, RefreshTokenCookie); ok {
		t.Fatalf("unexpected refresh token")
	}
}
