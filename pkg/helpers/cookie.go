package helpers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Cookie names used by the sign-in flow and the identity verifier.
const (
	AccessTokenCookie  = "logto:access_token"
	IDTokenCookie      = "logto:id_token"
	RefreshTokenCookie = "logto:refresh_token"
	SessionCookie      = "logto:session"

	StateCookie        = "logto_state"
	CodeVerifierCookie = "logto_code_verifier"
)

const (
	DefaultAccessMaxAge = 3600
	RefreshMaxAge       = 30 * 24 * 60 * 60
	TransientMaxAge     = 10 * 60
)

// AuthCookieNames lists the cookies written by the manual token exchange.
var AuthCookieNames = []string{AccessTokenCookie, IDTokenCookie, RefreshTokenCookie}

// Cookie is a Set-Cookie instruction produced outside the HTTP layer (for
// example by identity verification) and replayed onto the response.
type Cookie struct {
	Name   string
	Value  string
	MaxAge int // seconds; <=0 deletes
}

// Manager writes cookies with the deployment's domain and secure flag. It
// formats Set-Cookie headers itself because net/http rejects ':' in cookie
// names and the provider's cookie names contain one.
type Manager struct {
	Domain string
	Secure bool
}

func NewCookie(domain string, secure bool) *Manager {
	return &Manager{Domain: domain, Secure: secure}
}

// Set writes one httpOnly, SameSite=Lax cookie on path "/".
func (m *Manager) Set(w http.ResponseWriter, name, value string, maxAge int) {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(value))
	b.WriteString("; Path=/")
	if m.Domain != "" {
		b.WriteString("; Domain=")
		b.WriteString(m.Domain)
	}
	if maxAge > 0 {
		b.WriteString("; Max-Age=")
		b.WriteString(strconv.Itoa(maxAge))
		b.WriteString("; Expires=")
		b.WriteString(time.Now().Add(time.Duration(maxAge) * time.Second).UTC().Format(http.TimeFormat))
	} else {
		b.WriteString("; Max-Age=0; Expires=Thu, 01 Jan 1970 00:00:00 GMT")
	}
	b.WriteString("; HttpOnly")
	if m.Secure {
		b.WriteString("; Secure")
	}
	b.WriteString("; SameSite=Lax")
	w.Header().Add("Set-Cookie", b.String())
}

// Clear expires the named cookies immediately.
func (m *Manager) Clear(w http.ResponseWriter, names ...string) {
	for _, n := range names {
		m.Set(w, n, "", 0)
	}
}

// Apply replays cookies collected during request processing.
func (m *Manager) Apply(w http.ResponseWriter, cookies []Cookie) {
	for _, c := range cookies {
		m.Set(w, c.Name, c.Value, c.MaxAge)
	}
}

// SetAuthTokens writes the access/id token pair with the token lifetime and
// the refresh token with a 30-day lifetime. Empty tokens are skipped.
func (m *Manager) SetAuthTokens(w http.ResponseWriter, access, id, refresh string, expiresIn int) {
	m.Apply(w, AuthTokenCookies(access, id, refresh, expiresIn))
}

// ClearAuthTokens expires all three auth token cookies.
func (m *Manager) ClearAuthTokens(w http.ResponseWriter) {
	m.Clear(w, AuthCookieNames...)
}

// SetTransient stores the manual PKCE state and verifier for 10 minutes.
func (m *Manager) SetTransient(w http.ResponseWriter, state, verifier string) {
	m.Set(w, StateCookie, state, TransientMaxAge)
	m.Set(w, CodeVerifierCookie, verifier, TransientMaxAge)
}

func (m *Manager) ClearTransient(w http.ResponseWriter) {
	m.Clear(w, StateCookie, CodeVerifierCookie)
}

// AuthTokenCookies builds the cookie set for a token response.
func AuthTokenCookies(access, id, refresh string, expiresIn int) []Cookie {
	if expiresIn <= 0 {
		expiresIn = DefaultAccessMaxAge
	}
	out := make([]Cookie, 0, 3)
	if access != "" {
		out = append(out, Cookie{Name: AccessTokenCookie, Value: access, MaxAge: expiresIn})
	}
	if id != "" {
		out = append(out, Cookie{Name: IDTokenCookie, Value: id, MaxAge: expiresIn})
	}
	if refresh != "" {
		out = append(out, Cookie{Name: RefreshTokenCookie, Value: refresh, MaxAge: RefreshMaxAge})
	}
	return out
}

// ReadCookie returns the value of the named cookie from the raw Cookie
// headers. Unlike http.Request.Cookie it accepts names containing ':'.
func ReadCookie(r *http.Request, name string) (string, bool) {
	for _, line := range r.Header.Values("Cookie") {
		for _, part := range strings.Split(line, ";") {
			part = strings.TrimSpace(part)
			k, v, ok := strings.Cut(part, "=")
			if !ok || k != name {
				continue
			}
			v = strings.Trim(v, `"`)
			if dec, err := url.QueryUnescape(v); err == nil {
				v = dec
			}
			return v, v != ""
		}
	}
	return "", false
}

// ParseSetCookie is the inverse of Manager.Set for a single header line.
// It returns the cookie name, value and max-age.
func ParseSetCookie(line string) Cookie {
	parts := strings.Split(line, ";")
	var c Cookie
	if k, v, ok := strings.Cut(strings.TrimSpace(parts[0]), "="); ok {
		c.Name = k
		if dec, err := url.QueryUnescape(v); err == nil {
			v = dec
		}
		c.Value = v
	}
	for _, p := range parts[1:] {
		k, v, _ := strings.Cut(strings.TrimSpace(p), "=")
		if strings.EqualFold(k, "Max-Age") {
			c.MaxAge, _ = strconv.Atoi(v)
		}
	}
	return c
}
