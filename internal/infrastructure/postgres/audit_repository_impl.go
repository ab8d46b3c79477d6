package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/club-subdomain-portal/internal/domain/repository"
)

// AuditRepository appends rows to subdomain_audit_log.
type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Insert(ctx context.Context, e repository.AuditEntry) error {
	meta := e.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal audit metadata: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO subdomain_audit_log (id, action, subdomain_id, actor_email, request_id, ip, user_agent, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, uuid.NewString(), e.Action, e.SubdomainID, e.ActorEmail, e.RequestID, e.IP, e.UserAgent, b)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

var _ repository.AuditRepository = (*AuditRepository)(nil)
