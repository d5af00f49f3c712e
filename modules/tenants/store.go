package tenants

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/tenants/pkg/pg"
	"github.com/dmitrymomot/tenants/pkg/tenant"
)

const columns = "id, slug, name, active, created_at, updated_at"

// ListParams pages through the directory. A nil Active lists every tenant.
type ListParams struct {
	Limit  int
	Offset int
	Active *bool
}

// Store is the PostgreSQL tenant directory. It implements tenant.Provider.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// GetBySlug matches slugs case-insensitively and returns inactive tenants too;
// the resolver filters those out.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+columns+` FROM tenants WHERE LOWER(slug) = LOWER($1)`, slug)
	return scan(row)
}

func (s *Store) GetByID(ctx context.Context, id int64) (*tenant.Tenant, error) {
	return scan(s.pool.QueryRow(ctx, `SELECT `+columns+` FROM tenants WHERE id = $1`, id))
}

// List returns one page ordered by id and the total number of matching tenants.
func (s *Store) List(ctx context.Context, p ListParams) ([]*tenant.Tenant, int, error) {
	var total int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tenants WHERE $1::boolean IS NULL OR active = $1`,
		p.Active,
	).Scan(&total)
	if err != nil {
		return nil, 0, wrap(err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+columns+` FROM tenants
		 WHERE $1::boolean IS NULL OR active = $1
		 ORDER BY id LIMIT $2 OFFSET $3`,
		p.Active, p.Limit, p.Offset,
	)
	if err != nil {
		return nil, 0, wrap(err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*tenant.Tenant, error) {
		return scan(row)
	})
	if err != nil {
		return nil, 0, wrap(err)
	}
	return list, total, nil
}

// Create inserts a normalized Input.
func (s *Store) Create(ctx context.Context, in Input) (*tenant.Tenant, error) {
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	return scan(s.pool.QueryRow(ctx,
		`INSERT INTO tenants (slug, name, active) VALUES ($1, $2, $3) RETURNING `+columns,
		in.Slug, in.Name, active,
	))
}

// Update replaces slug and name; Active is only changed when set.
func (s *Store) Update(ctx context.Context, id int64, in Input) (*tenant.Tenant, error) {
	return scan(s.pool.QueryRow(ctx,
		`UPDATE tenants
		 SET slug = $2, name = $3, active = COALESCE($4, active), updated_at = NOW()
		 WHERE id = $1 RETURNING `+columns,
		id, in.Slug, in.Name, in.Active,
	))
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return tenant.ErrTenantNotFound
	}
	return nil
}

// SetActive toggles the tenant's availability on its subdomain.
func (s *Store) SetActive(ctx context.Context, slug string, active bool) (*tenant.Tenant, error) {
	return scan(s.pool.QueryRow(ctx,
		`UPDATE tenants SET active = $2, updated_at = NOW()
		 WHERE LOWER(slug) = LOWER($1) RETURNING `+columns,
		slug, active,
	))
}

func scan(row pgx.Row) (*tenant.Tenant, error) {
	var t tenant.Tenant
	if err := row.Scan(&t.ID, &t.Slug, &t.Name, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, wrap(err)
	}
	return &t, nil
}

func wrap(err error) error {
	switch {
	case err == nil:
		return nil
	case pg.IsNotFoundError(err):
		return tenant.ErrTenantNotFound
	case pg.IsDuplicateKeyError(err):
		return ErrSlugTaken
	default:
		return errors.Join(ErrStoreFailure, err)
	}
}
