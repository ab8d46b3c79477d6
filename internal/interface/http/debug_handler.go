package handlers

import (
	"expvar"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/club-subdomain-portal/config"
	"github.com/oksasatya/club-subdomain-portal/pkg/response"
)

const (
	valueSet    = "SET"
	valueNotSet = "NOT SET"
)

// DebugHandler exposes configuration presence and expvar counters.
type DebugHandler struct {
	Cfg *config.Config
}

func NewDebugHandler(cfg *config.Config) *DebugHandler {
	return &DebugHandler{Cfg: cfg}
}

// Config GET /api/debug/config. Values are never echoed.
func (h *DebugHandler) Config(c *gin.Context) {
	cfg := h.Cfg
	report := map[string]string{
		"APP_ENV":            cfg.Env,
		"DATA_STORE":         cfg.DataStore,
		"LOGTO_AUTH_FLOW":    cfg.AuthFlow,
		"BASE_URL":           presence(cfg.BaseURL),
		"LOGTO_ENDPOINT":     presence(cfg.LogtoEndpoint),
		"LOGTO_APP_ID":       presence(cfg.LogtoAppID),
		"LOGTO_APP_SECRET":   presence(cfg.LogtoAppSecret),
		"COOKIE_SECRET":      presence(cfg.CookieSecret),
		"AIRTABLE_API_KEY":   presence(cfg.AirtableAPIKey),
		"AIRTABLE_BASE_ID":   presence(cfg.AirtableBaseID),
		"REDIS_ADDR":         presence(cfg.RedisAddr),
		"AUDIT_DATABASE_URL": presence(cfg.AuditDatabaseURL),
		"RABBITMQ_URL":       presence(cfg.RabbitMQURL),
		"OPERATOR_EMAIL":     presence(cfg.OperatorEmail),
	}
	response.Success(c, http.StatusOK, report, "configuration", nil)
}

// Vars GET /api/debug/vars
func (h *DebugHandler) Vars(c *gin.Context) {
	expvar.Handler().ServeHTTP(c.Writer, c.Request)
}

func presence(v string) string {
	if v == "" {
		return valueNotSet
	}
	return valueSet
}
