package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/club-subdomain-portal/config"
	"github.com/oksasatya/club-subdomain-portal/pkg/helpers"
)

func TestDashboard_RendersPageAndAssets(t *testing.T) {
	h, err := NewDashboardHandler("Club Portal", helpers.NewNopLogger())
	if err != nil {
		t.Fatalf("NewDashboardHandler: %v", err)
	}
	r := gin.New()
	r.GET("/", h.Index)
	r.StaticFS("/static", h.StaticFS())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?error=%3Cscript%3E", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "<title>Club Portal</title>") {
		t.Fatalf("index: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `\u003cscript\u003e`) {
		t.Fatalf("error parameter not escaped")
	}

	for _, asset := range []string{"/static/app.js", "/static/style.css"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, asset, nil))
		if w.Code != http.StatusOK || w.Body.Len() == 0 {
			t.Fatalf("%s: %d", asset, w.Code)
		}
	}
}

func TestDashboardScript_SelectContract(t *testing.T) {
	h, _ := NewDashboardHandler("x", helpers.NewNopLogger())
	r := gin.New()
	r.StaticFS("/static", h.StaticFS())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))

	js := w.Body.String()
	for _, want := range []string{"DEBOUNCE_MS = 300", "MIN_REMOTE_CHARS = 2", "/api/club-names?search=", "toLowerCase()"} {
		if !strings.Contains(js, want) {
			t.Fatalf("app.js lacks %q", want)
		}
	}
}

func TestDebugConfig_ReportsPresenceOnly(t *testing.T) {
	cfg := &config.Config{Env: "development", DataStore: "memory", LogtoAppSecret: "super-secret", CookieSecret: "cookie-secret"}
	r := gin.New()
	h := NewDebugHandler(cfg)
	r.GET("/api/debug/config", h.Config)
	r.GET("/api/debug/vars", h.Vars)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/debug/config", nil))
	body := w.Body.String()
	if strings.Contains(body, "super-secret") || strings.Contains(body, "cookie-secret") {
		t.Fatalf("secret leaked: %s", body)
	}
	if !strings.Contains(body, `"LOGTO_APP_SECRET":"SET"`) || !strings.Contains(body, `"AIRTABLE_API_KEY":"NOT SET"`) {
		t.Fatalf("body: %s", body)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/debug/vars", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "memstats") {
		t.Fatalf("vars: %d", w.Code)
	}
}

func TestHealthz(t *testing.T) {
	h := NewHealthHandler(map[string]Pinger{
		"redis": func(context.Context) error { return nil },
		"audit": func(context.Context) error { return errors.New("dial tcp: refused") },
	})
	r := gin.New()
	r.GET("/healthz", h.Healthz)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"redis":"up"`) || !strings.Contains(w.Body.String(), `"audit":"down"`) {
		t.Fatalf("body: %s", w.Body.String())
	}
}
