package repository

import "context"

// AuditEntry records a mutation performed through the gateway.
type AuditEntry struct {
	Action      string
	SubdomainID string
	ActorEmail  string
	RequestID   string
	IP          string
	UserAgent   string
	Metadata    map[string]any
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, e AuditEntry) error
}
