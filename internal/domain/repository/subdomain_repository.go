package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/club-subdomain-portal/internal/domain/entity"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// SubdomainRepository defines the data store operations on subdomain records.
type SubdomainRepository interface {
	ListByOwner(ctx context.Context, email string) ([]entity.Subdomain, error)
	GetByID(ctx context.Context, id string) (*entity.Subdomain, error)
	Create(ctx context.Context, s *entity.Subdomain) (*entity.Subdomain, error)
	UpdateGithubRepo(ctx context.Context, id, githubRepo string) (*entity.Subdomain, error)
}

// CatalogRepository defines the read-only lookups backing the request form.
type CatalogRepository interface {
	// SearchClubNames returns club names containing term, case-insensitively,
	// at most limit rows.
	SearchClubNames(ctx context.Context, term string, limit int) ([]entity.ClubName, error)
	ListDomains(ctx context.Context) ([]entity.Domain, error)
}
