package tenants

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/tenants/pkg/audit"
)

const auditColumns = "id::text, action, resource, resource_id, actor, tenant_id, result, error, request_id, ip, metadata, created_at"

// AuditStore keeps audit events in PostgreSQL. It implements audit.Storage.
type AuditStore struct {
	pool *pgxpool.Pool
}

func NewAuditStore(pool *pgxpool.Pool) *AuditStore {
	return &AuditStore{pool: pool}
}

func (s *AuditStore) Store(ctx context.Context, e audit.Event) error {
	meta := e.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO audit_events
		 (id, action, resource, resource_id, actor, tenant_id, result, error, request_id, ip, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		e.ID, e.Action, e.Resource, e.ResourceID, e.Actor, e.TenantID,
		string(e.Result), e.Error, e.RequestID, e.IP, meta, e.CreatedAt,
	)
	return storeErr(err)
}

// History returns the newest events for one resource first.
func (s *AuditStore) History(ctx context.Context, resource, id string, limit int) ([]audit.Event, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+auditColumns+` FROM audit_events
		 WHERE resource = $1 AND resource_id = $2
		 ORDER BY created_at DESC, id DESC LIMIT $3`,
		resource, id, limit,
	)
	if err != nil {
		return nil, storeErr(err)
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (audit.Event, error) {
		var (
			e      audit.Event
			result string
		)
		err := row.Scan(&e.ID, &e.Action, &e.Resource, &e.ResourceID, &e.Actor, &e.TenantID,
			&result, &e.Error, &e.RequestID, &e.IP, &e.Metadata, &e.CreatedAt)
		e.Result = audit.Result(result)
		return e, err
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return events, nil
}

func storeErr(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(ErrStoreFailure, err)
}
