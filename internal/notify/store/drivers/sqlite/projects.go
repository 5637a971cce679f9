package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
)

type projectsRepo struct {
	db *sql.DB
}

func (r *projectsRepo) GetProject(ctx context.Context, tenantID, projectID string) (domain.Project, error) {
	var p domain.Project
	err := r.db.QueryRowContext(ctx,
		`SELECT id, tenant_id, title FROM projects WHERE tenant_id = ? AND id = ?`,
		tenantID, projectID,
	).Scan(&p.ID, &p.TenantID, &p.Title)
	if err != nil {
		return domain.Project{}, mapNotFound(err)
	}
	return p, nil
}

func (r *projectsRepo) ListProjects(ctx context.Context, tenantID string) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, tenant_id, title FROM projects WHERE tenant_id = ? ORDER BY id`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Title); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *projectsRepo) CreateProject(ctx context.Context, p domain.Project) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (id, tenant_id, title) VALUES (?, ?, ?)`,
		p.ID, p.TenantID, p.Title,
	)
	return mapConflict(err)
}
