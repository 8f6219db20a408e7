package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelfwise/library-system/internal/infrastructure/audit"
)

// AuditRepository persists security events emitted by the audit dispatcher.
type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Insert(ctx context.Context, e audit.Event) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_events (username, action, outcome, occurred_at)
		VALUES ($1, $2, $3, $4)`,
		e.Username, e.Action, e.Outcome, e.At,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
