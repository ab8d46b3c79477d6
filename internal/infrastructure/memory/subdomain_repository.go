package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/oksasatya/club-subdomain-portal/internal/domain/entity"
	"github.com/oksasatya/club-subdomain-portal/internal/domain/repository"
)

// SubdomainRepository is an in-memory implementation of
// repository.SubdomainRepository. It is safe for concurrent use.
type SubdomainRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]entity.Subdomain
}

func NewSubdomainRepository() *SubdomainRepository {
	return &SubdomainRepository{byID: make(map[string]entity.Subdomain)}
}

func (r *SubdomainRepository) ListByOwner(ctx context.Context, email string) ([]entity.Subdomain, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Subdomain, 0)
	for _, id := range r.order {
		s := r.byID[id]
		if strings.EqualFold(s.OwnerEmail, email) {
			out = append(out, cloneSubdomain(s))
		}
	}
	return out, nil
}

func (r *SubdomainRepository) GetByID(ctx context.Context, id string) (*entity.Subdomain, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := cloneSubdomain(s)
	return &c, nil
}

func (r *SubdomainRepository) Create(ctx context.Context, s *entity.Subdomain) (*entity.Subdomain, error) {
	_ = ctx
	c := cloneSubdomain(*s)
	c.ID = "rec" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14]

	r.mu.Lock()
	r.byID[c.ID] = c
	r.order = append(r.order, c.ID)
	r.mu.Unlock()

	out := cloneSubdomain(c)
	return &out, nil
}

func (r *SubdomainRepository) UpdateGithubRepo(ctx context.Context, id, githubRepo string) (*entity.Subdomain, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	s.GithubRepo = githubRepo
	r.byID[id] = s
	out := cloneSubdomain(s)
	return &out, nil
}

// Put stores s as-is, keeping its ID. Used for seeding and tests.
func (r *SubdomainRepository) Put(s entity.Subdomain) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[s.ID]; !ok {
		r.order = append(r.order, s.ID)
	}
	r.byID[s.ID] = cloneSubdomain(s)
}

// Len returns the number of stored rows.
func (r *SubdomainRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func cloneSubdomain(s entity.Subdomain) entity.Subdomain {
	s.DomainIDs = append([]string(nil), s.DomainIDs...)
	s.DomainNames = append([]string(nil), s.DomainNames...)
	s.ClubNameIDs = append([]string(nil), s.ClubNameIDs...)
	s.ClubNameNames = append([]string(nil), s.ClubNameNames...)
	return s
}

var _ repository.SubdomainRepository = (*SubdomainRepository)(nil)
