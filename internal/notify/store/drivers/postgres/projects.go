package postgres

import (
	"context"

	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type projectsRepo struct {
	pool *pgxpool.Pool
}

func (r *projectsRepo) GetProject(ctx context.Context, tenantID, projectID string) (domain.Project, error) {
	var p domain.Project
	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, title FROM projects WHERE tenant_id = $1 AND id = $2`,
		tenantID, projectID,
	).Scan(&p.ID, &p.TenantID, &p.Title)
	if err != nil {
		return domain.Project{}, mapNotFound(err)
	}
	return p, nil
}

func (r *projectsRepo) ListProjects(ctx context.Context, tenantID string) ([]domain.Project, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, title FROM projects WHERE tenant_id = $1 ORDER BY id`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Project, error) {
		var p domain.Project
		err := row.Scan(&p.ID, &p.TenantID, &p.Title)
		return p, err
	})
}

func (r *projectsRepo) CreateProject(ctx context.Context, p domain.Project) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO projects (id, tenant_id, title) VALUES ($1, $2, $3)`,
		p.ID, p.TenantID, p.Title,
	)
	return mapConflict(err)
}
