package airtable

import (
	"context"
	"fmt"

	"github.com/mehanizm/airtable"

	"github.com/oksasatya/club-subdomain-portal/internal/domain/entity"
	"github.com/oksasatya/club-subdomain-portal/internal/domain/repository"
)

// SubdomainRepository stores subdomain requests in the Subdomains table.
type SubdomainRepository struct {
	c *Client
}

func NewSubdomainRepository(c *Client) *SubdomainRepository {
	return &SubdomainRepository{c: c}
}

func (r *SubdomainRepository) ListByOwner(ctx context.Context, email string) ([]entity.Subdomain, error) {
	recs, err := r.c.list(ctx, r.c.tables.Subdomains, r.c.tables.View, equalsFold(fieldEmail, email), 0)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Subdomain, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toSubdomain(rec, r.c.tables.ClubLookupField))
	}
	return out, nil
}

func (r *SubdomainRepository) GetByID(ctx context.Context, id string) (*entity.Subdomain, error) {
	recs, err := r.c.list(ctx, r.c.tables.Subdomains, "", recordIDIs(id), 1)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, repository.ErrNotFound
	}
	s := toSubdomain(recs[0], r.c.tables.ClubLookupField)
	return &s, nil
}

func (r *SubdomainRepository) Create(ctx context.Context, s *entity.Subdomain) (*entity.Subdomain, error) {
	res, err := bounded(ctx, r.c.timeout, func() (*airtable.Records, error) {
		return r.c.table(r.c.tables.Subdomains).AddRecords(&airtable.Records{
			Records: []*airtable.Record{{Fields: subdomainFields(s)}},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("airtable create subdomain: %w", err)
	}
	if res == nil || len(res.Records) == 0 {
		return nil, fmt.Errorf("airtable create subdomain: empty response")
	}
	out := toSubdomain(res.Records[0], r.c.tables.ClubLookupField)
	return &out, nil
}

func (r *SubdomainRepository) UpdateGithubRepo(ctx context.Context, id, githubRepo string) (*entity.Subdomain, error) {
	res, err := bounded(ctx, r.c.timeout, func() (*airtable.Records, error) {
		return r.c.table(r.c.tables.Subdomains).UpdateRecordsPartial(&airtable.Records{
			Records: []*airtable.Record{{ID: id, Fields: map[string]any{fieldGithubRepo: githubRepo}}},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("airtable update subdomain %s: %w", id, err)
	}
	if res == nil || len(res.Records) == 0 {
		return nil, repository.ErrNotFound
	}
	out := toSubdomain(res.Records[0], r.c.tables.ClubLookupField)
	return &out, nil
}

// CatalogRepository reads the Club Names and Domains tables.
type CatalogRepository struct {
	c *Client
}

func NewCatalogRepository(c *Client) *CatalogRepository {
	return &CatalogRepository{c: c}
}

func (r *CatalogRepository) SearchClubNames(ctx context.Context, term string, limit int) ([]entity.ClubName, error) {
	recs, err := r.c.list(ctx, r.c.tables.ClubNames, r.c.tables.View, containsFold(fieldClubName, term), limit)
	if err != nil {
		return nil, err
	}
	out := make([]entity.ClubName, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toClubName(rec))
	}
	return out, nil
}

func (r *CatalogRepository) ListDomains(ctx context.Context) ([]entity.Domain, error) {
	recs, err := r.c.list(ctx, r.c.tables.Domains, "", "", 0)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Domain, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDomain(rec))
	}
	return out, nil
}

var (
	_ repository.SubdomainRepository = (*SubdomainRepository)(nil)
	_ repository.CatalogRepository   = (*CatalogRepository)(nil)
)
