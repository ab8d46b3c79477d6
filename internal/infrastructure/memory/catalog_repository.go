package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/oksasatya/club-subdomain-portal/internal/domain/entity"
	"github.com/oksasatya/club-subdomain-portal/internal/domain/repository"
)

// CatalogRepository keeps club names and domains in memory.
type CatalogRepository struct {
	mu        sync.RWMutex
	clubNames []entity.ClubName
	domains   []entity.Domain
}

func NewCatalogRepository(clubNames []entity.ClubName, domains []entity.Domain) *CatalogRepository {
	return &CatalogRepository{
		clubNames: append([]entity.ClubName(nil), clubNames...),
		domains:   append([]entity.Domain(nil), domains...),
	}
}

func (r *CatalogRepository) SearchClubNames(ctx context.Context, term string, limit int) ([]entity.ClubName, error) {
	_ = ctx
	needle := strings.ToUpper(term)
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.ClubName, 0)
	for _, c := range r.clubNames {
		if limit > 0 && len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToUpper(c.Name), needle) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *CatalogRepository) ListDomains(ctx context.Context) ([]entity.Domain, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]entity.Domain{}, r.domains...), nil
}

// AddClubNames appends rows; used by seeding.
func (r *CatalogRepository) AddClubNames(names ...entity.ClubName) {
	r.mu.Lock()
	r.clubNames = append(r.clubNames, names...)
	r.mu.Unlock()
}

var _ repository.CatalogRepository = (*CatalogRepository)(nil)
