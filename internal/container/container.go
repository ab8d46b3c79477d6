// Package container builds the application's clients once at startup and
// hands them to the router explicitly.
package container

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/club-subdomain-portal/config"
	"github.com/oksasatya/club-subdomain-portal/internal/application"
	repo "github.com/oksasatya/club-subdomain-portal/internal/domain/repository"
	"github.com/oksasatya/club-subdomain-portal/internal/infrastructure/airtable"
	"github.com/oksasatya/club-subdomain-portal/internal/infrastructure/cache"
	"github.com/oksasatya/club-subdomain-portal/internal/infrastructure/logto"
	"github.com/oksasatya/club-subdomain-portal/internal/infrastructure/memory"
	"github.com/oksasatya/club-subdomain-portal/internal/infrastructure/notify"
	pginfra "github.com/oksasatya/club-subdomain-portal/internal/infrastructure/postgres"
	"github.com/oksasatya/club-subdomain-portal/pkg/helpers"
)

const startupPingTimeout = 5 * time.Second

// Container holds constructed components. Redis, PGPool and RabbitPub are
// nil when their backends are not configured.
type Container struct {
	Cfg    *config.Config
	Logger *logrus.Logger

	HTTPClient *http.Client
	Redis      *redis.Client
	PGPool     *pgxpool.Pool
	RabbitPub  *helpers.RabbitPublisher

	Cookies  *helpers.Manager
	Provider *logto.Provider
	Sessions *logto.SessionClient
	Verifier *application.Verifier
	Gateway  *application.GatewayService
}

// Build wires every component from cfg. Optional backends that are
// configured but unreachable fail the build.
func Build(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (c *Container, err error) {
	c = &Container{
		Cfg:        cfg,
		Logger:     logger,
		HTTPClient: &http.Client{Timeout: cfg.UpstreamTimeout},
		Cookies:    helpers.NewCookie(cfg.CookieDomain, cfg.SecureCookies()),
	}
	defer func() {
		if err != nil {
			c.Close()
			c = nil
		}
	}()

	if cfg.RedisAddr != "" {
		c.Redis = helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		pctx, cancel := context.WithTimeout(ctx, startupPingTimeout)
		err = c.Redis.Ping(pctx).Err()
		cancel()
		if err != nil {
			return c, fmt.Errorf("redis: %w", err)
		}
	}

	c.Provider = logto.NewProvider(logto.Options{
		Endpoint:    cfg.LogtoEndpoint,
		AppID:       cfg.LogtoAppID,
		AppSecret:   cfg.LogtoAppSecret,
		RedirectURL: cfg.CallbackURL(),
		Scopes:      cfg.LogtoScopes,
		Timeout:     cfg.UpstreamTimeout,
	}, c.HTTPClient)

	var sessions logto.SessionStore = logto.NewMemorySessionStore()
	if c.Redis != nil {
		sessions = logto.NewRedisSessionStore(c.Redis)
	}
	signer := helpers.NewSessionSigner(cfg.CookieSecret, cfg.SessionTTL, cfg.AppName)
	c.Sessions = logto.NewSessionClient(c.Provider, sessions, signer, cfg.SessionTTL)

	c.Verifier = application.NewVerifier(
		application.NewRoleResolver(c.Provider, logger),
		logger,
		application.NewBearerTokenStrategy(c.Provider, logger),
		application.NewSessionStrategy(c.Sessions),
	)

	subdomains, catalog := c.dataStore()
	var locker application.OwnerLocker = cache.NewMemoryLocker()
	if c.Redis != nil {
		locker = cache.NewRedisLocker(c.Redis, cfg.OwnerLockTTL)
	}
	c.Gateway = application.NewGatewayService(subdomains, catalog, locker, application.GatewayOptions{
		RoleMultiSubdomain: cfg.RoleMultiSubdomain,
		RoleAdmin:          cfg.RoleAdmin,
		ReadRetries:        cfg.ReadRetries,
		DomainsCacheTTL:    cfg.DomainsCacheTTL,
	}, logger)
	if c.Redis != nil {
		c.Gateway.DomainCache = cache.NewRedisDomainCache(c.Redis)
	}

	if cfg.AuditDatabaseURL != "" {
		if err = pginfra.RunMigrations(cfg.AuditDatabaseURL, cfg.MigrationsDir, logger); err != nil {
			return c, fmt.Errorf("audit migrations: %w", err)
		}
		if c.PGPool, err = pginfra.NewPool(ctx, cfg.AuditDatabaseURL, 4); err != nil {
			return c, fmt.Errorf("audit database: %w", err)
		}
		c.Gateway.Audit = pginfra.NewAuditRepository(c.PGPool)
	}

	if cfg.RabbitMQURL != "" {
		if c.RabbitPub, err = helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQNotifyQueue); err != nil {
			return c, fmt.Errorf("rabbitmq: %w", err)
		}
		if cfg.OperatorEmail == "" {
			logger.Warn("RABBITMQ_URL set without OPERATOR_EMAIL; operator notifications disabled")
		} else {
			c.Gateway.Notifier = notify.NewQueueNotifier(c.RabbitPub, cfg.OperatorEmail, cfg.AppName, cfg.BaseURL)
		}
	}

	helpers.LogInfo(logger, "container built", logrus.Fields{
		"data_store": cfg.DataStore,
		"redis":      c.Redis != nil,
		"audit":      c.PGPool != nil,
		"notify":     c.Gateway.Notifier != nil,
		"auth_flow":  cfg.AuthFlow,
	})
	return c, nil
}

func (c *Container) dataStore() (repo.SubdomainRepository, repo.CatalogRepository) {
	cfg := c.Cfg
	if cfg.DataStore == "memory" {
		return memory.NewSubdomainRepository(), memory.NewCatalogRepository(memory.DevClubNames, memory.DevDomains)
	}
	client := airtable.NewClient(cfg.AirtableAPIKey, cfg.AirtableBaseID, airtable.Tables{
		Subdomains:      cfg.AirtableSubdomains,
		Domains:         cfg.AirtableDomains,
		ClubNames:       cfg.AirtableClubNames,
		View:            cfg.AirtableView,
		ClubLookupField: cfg.AirtableClubLookupName,
	}, c.HTTPClient)
	return airtable.NewSubdomainRepository(client), airtable.NewCatalogRepository(client)
}

// HealthChecks reports the configured backends.
func (c *Container) HealthChecks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{}
	if c.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return c.Redis.Ping(ctx).Err() }
	}
	if c.PGPool != nil {
		checks["audit_db"] = c.PGPool.Ping
	}
	return checks
}

func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.RabbitPub != nil {
		c.RabbitPub.Close()
	}
	if c.PGPool != nil {
		c.PGPool.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
