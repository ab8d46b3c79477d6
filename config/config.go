package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration loaded from environment variables.
// Provider and cookie secrets have no defaults; everything else falls back to
// values suitable for local development.
type Config struct {
	AppName string `env:"APP_NAME" envDefault:"club-subdomain-portal"`
	Env     string `env:"APP_ENV" envDefault:"development"` // development, staging, production
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"release"`

	// Public URL the browser reaches the app on; the OAuth callback is derived from it.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	// Logto
	LogtoEndpoint  string   `env:"LOGTO_ENDPOINT,required"`
	LogtoAppID     string   `env:"LOGTO_APP_ID,required"`
	LogtoAppSecret string   `env:"LOGTO_APP_SECRET,required"`
	LogtoScopes    []string `env:"LOGTO_SCOPES" envDefault:"openid,profile,email,roles,offline_access"`
	AuthFlow       string   `env:"LOGTO_AUTH_FLOW" envDefault:"auto"` // auto, manual

	// Cookies
	CookieSecret string `env:"COOKIE_SECRET,required"`
	CookieDomain string `env:"COOKIE_DOMAIN"`
	CookieSecure bool   `env:"COOKIE_SECURE"`

	// Data store
	DataStore              string `env:"DATA_STORE" envDefault:"airtable"` // airtable, memory
	AirtableAPIKey         string `env:"AIRTABLE_API_KEY"`
	AirtableBaseID         string `env:"AIRTABLE_BASE_ID"`
	AirtableView           string `env:"AIRTABLE_VIEW" envDefault:"Grid view"`
	AirtableSubdomains     string `env:"AIRTABLE_SUBDOMAINS_TABLE" envDefault:"Subdomains"`
	AirtableDomains        string `env:"AIRTABLE_DOMAINS_TABLE" envDefault:"Domains"`
	AirtableClubNames      string `env:"AIRTABLE_CLUB_NAMES_TABLE" envDefault:"Club Names"`
	AirtableClubLookupName string `env:"AIRTABLE_CLUB_LOOKUP_FIELD" envDefault:"Club Name (from Club Names)"`

	// Roles, matched against provider role id or name
	RoleMultiSubdomain string `env:"ROLE_MULTI_SUBDOMAIN" envDefault:"More Subdomains"`
	RoleAdmin          string `env:"ROLE_ADMIN" envDefault:"Admin"`

	// Outbound calls
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"5s"`
	ReadRetries     uint          `env:"READ_RETRIES" envDefault:"3"`

	// Redis (optional; in-memory fallbacks when empty)
	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`
	DomainsCacheTTL time.Duration `env:"DOMAINS_CACHE_TTL" envDefault:"5m"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	OwnerLockTTL    time.Duration `env:"OWNER_LOCK_TTL" envDefault:"30s"`

	// CORS
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS"` // comma-separated

	// Honour CF-Connecting-IP / X-Forwarded-For; enable only behind a proxy
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// Rate limits per minute (Redis only)
	RateLimitAuth    int `env:"RATE_LIMIT_AUTH" envDefault:"30"`
	RateLimitGateway int `env:"RATE_LIMIT_GATEWAY" envDefault:"120"`

	// Audit log (optional)
	AuditDatabaseURL string `env:"AUDIT_DATABASE_URL"`
	MigrationsDir    string `env:"MIGRATIONS_DIR" envDefault:"db/migrations"`

	// Operator notifications (optional)
	RabbitMQURL         string `env:"RABBITMQ_URL"`
	RabbitMQNotifyQueue string `env:"RABBITMQ_NOTIFY_QUEUE" envDefault:"subdomain-requests"`
	MailgunDomain       string `env:"MAILGUN_DOMAIN"`
	MailgunAPIKey       string `env:"MAILGUN_API_KEY"`
	MailgunSender       string `env:"MAILGUN_SENDER"`
	OperatorEmail       string `env:"OPERATOR_EMAIL"`

	// Debug endpoints (/api/debug/config and /api/debug/vars)
	DebugMetricsEnabled bool `env:"DEBUG_METRICS_ENABLED" envDefault:"false"`

	// HTTP access log toggle (Gin logger)
	HTTPLogEnabled bool `env:"HTTP_LOG_ENABLED" envDefault:"false"`
}

// Load parses the environment and validates cross-field requirements.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every configuration problem at once so a misconfigured
// deployment fails with one complete diagnostic.
func (c *Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("BASE_URL must be an absolute URL, got %q", c.BaseURL))
	}
	if _, err := url.Parse(c.LogtoEndpoint); err != nil || !strings.HasPrefix(c.LogtoEndpoint, "http") {
		errs = append(errs, fmt.Errorf("LOGTO_ENDPOINT must be an http(s) URL, got %q", c.LogtoEndpoint))
	}
	switch c.AuthFlow {
	case "auto", "manual":
	default:
		errs = append(errs, fmt.Errorf("LOGTO_AUTH_FLOW must be auto or manual, got %q", c.AuthFlow))
	}
	switch c.DataStore {
	case "airtable":
		if c.AirtableAPIKey == "" {
			errs = append(errs, errors.New("AIRTABLE_API_KEY is required when DATA_STORE=airtable"))
		}
		if c.AirtableBaseID == "" {
			errs = append(errs, errors.New("AIRTABLE_BASE_ID is required when DATA_STORE=airtable"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("DATA_STORE must be airtable or memory, got %q", c.DataStore))
	}
	if c.IsProduction() && len(c.CookieSecret) < 32 {
		errs = append(errs, errors.New("COOKIE_SECRET must be at least 32 characters in production"))
	}
	if c.UpstreamTimeout <= 0 {
		errs = append(errs, errors.New("UPSTREAM_TIMEOUT must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// IsProduction reports whether the app runs with production semantics
// (secure cookies, redacted upstream errors).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SecureCookies is forced on in production.
func (c *Config) SecureCookies() bool {
	return c.CookieSecure || c.IsProduction()
}

// CallbackURL is the redirect_uri registered with the provider.
func (c *Config) CallbackURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/api/logto/callback"
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
