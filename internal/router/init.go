package router

import (
	"github.com/oksasatya/club-subdomain-portal/internal/container"
	handlers "github.com/oksasatya/club-subdomain-portal/internal/interface/http"
	"github.com/oksasatya/club-subdomain-portal/internal/interface/middleware"
	"github.com/oksasatya/club-subdomain-portal/internal/router/modules"
)

// InitModules builds handlers from the container and registers their modules.
// This function should be called once during application startup.
func InitModules(r *Registry, c *container.Container) error {
	cfg := c.Cfg
	errs := handlers.NewErrorResponder(c.Logger, cfg.IsProduction())
	requireIdentity := middleware.RequireIdentity(c.Verifier, c.Cookies)
	optionalIdentity := middleware.OptionalIdentity(c.Verifier, c.Cookies)
	limits := modules.Limits{Redis: c.Redis, Auth: cfg.RateLimitAuth, Gateway: cfg.RateLimitGateway}

	dashboard, err := handlers.NewDashboardHandler(cfg.AppName, c.Logger)
	if err != nil {
		return err
	}
	checks := make(map[string]handlers.Pinger)
	for name, ping := range c.HealthChecks() {
		checks[name] = ping
	}

	r.AddRoot(modules.NewDashboardModule(dashboard))
	r.AddRoot(modules.NewHealthModule(handlers.NewHealthHandler(checks)))

	auth := handlers.NewAuthHandler(c.Sessions, c.Provider, c.Cookies, cfg.BaseURL, cfg.AuthFlow == "manual", c.Logger)
	r.Add(modules.NewAuthModule(auth, limits))
	r.Add(modules.NewCatalogModule(handlers.NewCatalogHandler(c.Gateway, errs), requireIdentity, limits))
	r.Add(modules.NewSubdomainModule(handlers.NewSubdomainHandler(c.Gateway, errs), requireIdentity, limits))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(c.Gateway), optionalIdentity))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(handlers.NewDebugHandler(cfg), limits))
	}
	return nil
}
