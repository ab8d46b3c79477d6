package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/club-subdomain-portal/internal/domain/entity"
	repo "github.com/oksasatya/club-subdomain-portal/internal/domain/repository"
	"github.com/oksasatya/club-subdomain-portal/internal/infrastructure/cache"
	"github.com/oksasatya/club-subdomain-portal/pkg/helpers"
)

const (
	MsgSubdomainCreated  = "Subdomain request submitted successfully. Your subdomain will be active in 24h."
	MsgGithubRepoUpdated = "GitHub Repo updated successfully."

	clubSearchMinRunes = 2
	clubSearchLimit    = 50
	sideEffectTimeout  = 5 * time.Second
)

// OwnerLocker serialises create requests per owner.
type OwnerLocker interface {
	TryLock(ctx context.Context, key string) (cache.ReleaseFunc, bool, error)
}

// DomainCache caches the domain enumeration.
type DomainCache interface {
	GetDomains(ctx context.Context) ([]entity.Domain, bool, error)
	SetDomains(ctx context.Context, domains []entity.Domain, ttl time.Duration) error
}

// Notifier tells operators about new requests.
type Notifier interface {
	SubdomainRequested(ctx context.Context, s entity.Subdomain, requestID string) error
}

// RequestMeta describes the HTTP request behind a mutation, for the audit log.
type RequestMeta struct {
	RequestID string
	IP        string
	UserAgent string
}

// CreateSubdomainInput is a validated create request.
type CreateSubdomainInput struct {
	Subdomain  string
	GithubRepo string
	DomainIDs  []string
	ClubIDs    []string
}

// GatewayOptions tunes the gateway.
type GatewayOptions struct {
	RoleMultiSubdomain string
	RoleAdmin          string
	ReadRetries        uint
	DomainsCacheTTL    time.Duration
}

// GatewayService applies ownership and quota rules on top of the data store.
// Audit, Notifier and DomainCache are optional.
type GatewayService struct {
	Subdomains  repo.SubdomainRepository
	Catalog     repo.CatalogRepository
	Locker      OwnerLocker
	Audit       repo.AuditRepository
	Notifier    Notifier
	DomainCache DomainCache
	Opts        GatewayOptions
	Logger      logrus.FieldLogger
}

func NewGatewayService(subdomains repo.SubdomainRepository, catalog repo.CatalogRepository, locker OwnerLocker, opts GatewayOptions, logger logrus.FieldLogger) *GatewayService {
	return &GatewayService{
		Subdomains: subdomains,
		Catalog:    catalog,
		Locker:     locker,
		Opts:       opts,
		Logger:     logger,
	}
}

// CanCreateMultiple reports whether the one-subdomain cap is lifted.
func (s *GatewayService) CanCreateMultiple(id entity.Identity) bool {
	return entity.HasRole(id.Roles, s.Opts.RoleMultiSubdomain)
}

func (s *GatewayService) IsAdmin(id entity.Identity) bool {
	return entity.HasRole(id.Roles, s.Opts.RoleAdmin)
}

// ListClubNames searches club names; terms under two characters yield nothing.
func (s *GatewayService) ListClubNames(ctx context.Context, term string) ([]entity.ClubName, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < clubSearchMinRunes {
		return []entity.ClubName{}, nil
	}
	out, err := readWithRetry(ctx, s.Opts.ReadRetries, func() ([]entity.ClubName, error) {
		return s.Catalog.SearchClubNames(ctx, term, clubSearchLimit)
	})
	if err != nil {
		return nil, fmt.Errorf("search club names: %w", err)
	}
	if len(out) > clubSearchLimit {
		out = out[:clubSearchLimit]
	}
	return nonNil(out), nil
}

func (s *GatewayService) ListDomains(ctx context.Context) ([]entity.Domain, error) {
	if s.DomainCache != nil {
		if cached, ok, err := s.DomainCache.GetDomains(ctx); err != nil {
			s.Logger.WithError(err).Warn("domain cache read failed")
		} else if ok {
			return nonNil(cached), nil
		}
	}
	out, err := readWithRetry(ctx, s.Opts.ReadRetries, func() ([]entity.Domain, error) {
		return s.Catalog.ListDomains(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}
	if s.DomainCache != nil && s.Opts.DomainsCacheTTL > 0 {
		if err := s.DomainCache.SetDomains(ctx, out, s.Opts.DomainsCacheTTL); err != nil {
			s.Logger.WithError(err).Warn("domain cache write failed")
		}
	}
	return nonNil(out), nil
}

// ListSubdomains returns only the caller's rows, whatever the store returns.
func (s *GatewayService) ListSubdomains(ctx context.Context, id entity.Identity) ([]entity.Subdomain, error) {
	if !id.HasEmail() {
		return nil, ErrEmailUnresolved
	}
	return s.ownedBy(ctx, id)
}

func (s *GatewayService) ownedBy(ctx context.Context, id entity.Identity) ([]entity.Subdomain, error) {
	rows, err := readWithRetry(ctx, s.Opts.ReadRetries, func() ([]entity.Subdomain, error) {
		return s.Subdomains.ListByOwner(ctx, strings.TrimSpace(id.Email))
	})
	if err != nil {
		return nil, fmt.Errorf("list subdomains: %w", err)
	}
	out := make([]entity.Subdomain, 0, len(rows))
	for _, r := range rows {
		if id.Owns(r.OwnerEmail) {
			out = append(out, r)
		}
	}
	return out, nil
}

// CreateSubdomain writes a new inactive request owned by the caller.
func (s *GatewayService) CreateSubdomain(ctx context.Context, id entity.Identity, in CreateSubdomainInput, meta RequestMeta) (*entity.Subdomain, error) {
	if !id.HasEmail() {
		return nil, ErrEmailUnresolved
	}
	email := strings.TrimSpace(id.Email)
	log := s.Logger.WithFields(logrus.Fields{"request_id": meta.RequestID, "email": email})

	release, ok, err := s.Locker.TryLock(ctx, "subdomain:create:"+strings.ToLower(email))
	switch {
	case err != nil:
		// The quota check below still runs; only the race window reopens.
		log.WithError(err).Warn("owner lock unavailable")
	case !ok:
		return nil, ErrCreateInProgress
	default:
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				log.WithError(err).Warn("owner lock release failed")
			}
		}()
	}

	if !s.CanCreateMultiple(id) {
		existing, err := s.ownedBy(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(existing) >= 1 {
			return nil, ErrQuotaExceeded
		}
	}

	created, err := s.Subdomains.Create(ctx, &entity.Subdomain{
		Label:       strings.ToLower(strings.TrimSpace(in.Subdomain)),
		OwnerEmail:  email,
		GithubRepo:  strings.TrimSpace(in.GithubRepo),
		DomainIDs:   in.DomainIDs,
		ClubNameIDs: in.ClubIDs,
		Active:      false,
	})
	if err != nil {
		return nil, fmt.Errorf("create subdomain: %w", err)
	}
	log.WithField("subdomain_id", created.ID).Info("subdomain requested")

	s.record(ctx, "subdomain.created", created, email, meta, map[string]any{"subdomain": created.Label})
	if s.Notifier != nil {
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
		if err := s.Notifier.SubdomainRequested(nctx, *created, meta.RequestID); err != nil {
			log.WithError(err).Warn("operator notification failed")
		}
		cancel()
	}
	return created, nil
}

// UpdateGithubRepo changes the repo URL of a row the caller owns.
func (s *GatewayService) UpdateGithubRepo(ctx context.Context, id entity.Identity, subdomainID, githubRepo string, meta RequestMeta) (*entity.Subdomain, error) {
	if !id.HasEmail() {
		return nil, ErrEmailUnresolved
	}
	current, err := readWithRetry(ctx, s.Opts.ReadRetries, func() (*entity.Subdomain, error) {
		return s.Subdomains.GetByID(ctx, subdomainID)
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("load subdomain: %w", err)
	}
	if !id.Owns(current.OwnerEmail) {
		return nil, ErrForbidden
	}

	githubRepo = strings.TrimSpace(githubRepo)
	updated, err := s.Subdomains.UpdateGithubRepo(ctx, subdomainID, githubRepo)
	if err != nil {
		return nil, fmt.Errorf("update subdomain: %w", err)
	}
	s.record(ctx, "subdomain.github_repo_updated", updated, id.Email, meta, map[string]any{
		"from": current.GithubRepo,
		"to":   githubRepo,
	})
	return updated, nil
}

func (s *GatewayService) record(ctx context.Context, action string, sub *entity.Subdomain, actor string, meta RequestMeta, extra map[string]any) {
	if s.Audit == nil {
		return
	}
	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	err := s.Audit.Insert(actx, repo.AuditEntry{
		Action:      action,
		SubdomainID: sub.ID,
		ActorEmail:  actor,
		RequestID:   meta.RequestID,
		IP:          meta.IP,
		UserAgent:   meta.UserAgent,
		Metadata:    extra,
	})
	if err != nil {
		helpers.LogWarn(s.Logger, "audit write failed", err, logrus.Fields{"action": action, "request_id": meta.RequestID})
	}
}

// readWithRetry retries idempotent reads; not-found and cancellation are final.
func readWithRetry[T any](ctx context.Context, tries uint, op func() (T, error)) (T, error) {
	return helpers.RetryRead(ctx, tries, func() (T, error) {
		v, err := op()
		if err != nil && (errors.Is(err, repo.ErrNotFound) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return v, helpers.Permanent(err)
		}
		return v, err
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
