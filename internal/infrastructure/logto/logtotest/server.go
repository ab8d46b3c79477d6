// Package logtotest provides an in-process fake of the Logto endpoints the
// portal calls.
package logtotest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oksasatya/club-subdomain-portal/internal/domain/entity"
)

const (
	ClientID     = "test-app"
	ClientSecret = "test-secret"
)

// TokenResponse is what the fake token endpoint returns.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	IDToken      string `json:"id_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	TokenType    string `json:"token_type"`
}

type grant struct {
	verifier string
	tokens   TokenResponse
}

// Server is a fake Logto tenant.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[string]map[string]any // access token -> userinfo claims
	codes    map[string]grant
	refresh  map[string]TokenResponse
	roles    map[string][]entity.Role // sub -> roles
	meStatus int
	delay    time.Duration

	MeCalls    atomic.Int32
	TokenCalls atomic.Int32
	RoleCalls  atomic.Int32
}

func NewServer() *Server {
	s := &Server{
		users:   map[string]map[string]any{},
		codes:   map[string]grant{},
		refresh: map[string]TokenResponse{},
		roles:   map[string][]entity.Role{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/oidc/me", s.handleMe)
	mux.HandleFunc("/oidc/token", s.handleToken)
	mux.HandleFunc("/api/users/", s.handleRoles)
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.wait(r) {
			return
		}
		mux.ServeHTTP(w, r)
	}))
	return s
}

// SetDelay holds every request for d before answering, or until the client
// gives up. 0 restores immediate answers.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

func (s *Server) wait(r *http.Request) bool {
	s.mu.Lock()
	d := s.delay
	s.mu.Unlock()
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-r.Context().Done():
		return false
	}
}

// AddUser makes accessToken valid for the given claims.
func (s *Server) AddUser(accessToken string, claims map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[accessToken] = claims
}

// AddCode registers an authorization code. An empty verifier skips the PKCE check.
func (s *Server) AddCode(code, verifier string, tokens TokenResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code] = grant{verifier: verifier, tokens: tokens}
}

func (s *Server) AddRefreshToken(refreshToken string, tokens TokenResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh[refreshToken] = tokens
}

func (s *Server) SetRoles(sub string, roles []entity.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[sub] = roles
}

// FailUserInfo forces /oidc/me to answer with status (0 restores normal behaviour).
func (s *Server) FailUserInfo(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meStatus = status
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.MeCalls.Add(1)
	s.mu.Lock()
	forced := s.meStatus
	claims, ok := s.users[bearer(r)]
	s.mu.Unlock()
	if forced != 0 {
		http.Error(w, "forced failure", forced)
		return
	}
	if !ok {
		http.Error(w, `{"error":"invalid_token"}`, http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, claims)
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	s.TokenCalls.Add(1)
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}
	if r.PostForm.Get("client_id") != ClientID || r.PostForm.Get("client_secret") != ClientSecret {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_client"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch r.PostForm.Get("grant_type") {
	case "authorization_code":
		g, ok := s.codes[r.PostForm.Get("code")]
		if !ok || (g.verifier != "" && g.verifier != r.PostForm.Get("code_verifier")) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant"})
			return
		}
		delete(s.codes, r.PostForm.Get("code"))
		writeJSON(w, http.StatusOK, withType(g.tokens))
	case "refresh_token":
		t, ok := s.refresh[r.PostForm.Get("refresh_token")]
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant"})
			return
		}
		writeJSON(w, http.StatusOK, withType(t))
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported_grant_type"})
	}
}

func (s *Server) handleRoles(w http.ResponseWriter, r *http.Request) {
	s.RoleCalls.Add(1)
	rest := strings.TrimPrefix(r.URL.Path, "/api/users/")
	sub, ok := strings.CutSuffix(rest, "/roles")
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.mu.Lock()
	_, known := s.users[bearer(r)]
	roles, has := s.roles[sub]
	s.mu.Unlock()
	if !known || !has {
		http.Error(w, `{"code":"auth.forbidden"}`, http.StatusForbidden)
		return
	}
	writeJSON(w, http.StatusOK, roles)
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return h[7:]
	}
	return ""
}

func withType(t TokenResponse) TokenResponse {
	if t.TokenType == "" {
		t.TokenType = "Bearer"
	}
	return t
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
