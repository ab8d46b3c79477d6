package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/club-subdomain-portal/internal/domain/entity"
	"github.com/oksasatya/club-subdomain-portal/pkg/helpers"
)

const domainsKey = "catalog:domains"

// RedisDomainCache keeps the domain list as JSON.
type RedisDomainCache struct {
	rdb *redis.Client
}

func NewRedisDomainCache(rdb *redis.Client) *RedisDomainCache {
	return &RedisDomainCache{rdb: rdb}
}

func (c *RedisDomainCache) GetDomains(ctx context.Context) ([]entity.Domain, bool, error) {
	var out []entity.Domain
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, domainsKey, &out)
	return out, ok, err
}

func (c *RedisDomainCache) SetDomains(ctx context.Context, domains []entity.Domain, ttl time.Duration) error {
	return helpers.RedisSetJSON(ctx, c.rdb, domainsKey, domains, ttl)
}
