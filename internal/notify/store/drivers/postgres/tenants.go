package postgres

import (
	"context"

	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type tenantsRepo struct {
	pool *pgxpool.Pool
}

func (r *tenantsRepo) GetTenant(ctx context.Context, id string) (domain.Tenant, error) {
	var t domain.Tenant
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, slug FROM tenants WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Slug)
	if err != nil {
		return domain.Tenant{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tenantsRepo) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug FROM tenants ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Tenant, error) {
		var t domain.Tenant
		err := row.Scan(&t.ID, &t.Name, &t.Slug)
		return t, err
	})
}

func (r *tenantsRepo) CreateTenant(ctx context.Context, t domain.Tenant) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tenants (id, name, slug) VALUES ($1, $2, $3)`,
		t.ID, t.Name, t.Slug,
	)
	return mapConflict(err)
}
