package postgres

import (
	"context"

	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type commentsRepo struct {
	pool *pgxpool.Pool
}

func (r *commentsRepo) GetComment(
	ctx context.Context,
	tenantID, projectID, taskID, commentID string,
) (domain.Comment, error) {
	var c domain.Comment
	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, project_id, task_id, text, created_by
		 FROM comments
		 WHERE tenant_id = $1 AND project_id = $2 AND task_id = $3 AND id = $4`,
		tenantID, projectID, taskID, commentID,
	).Scan(&c.ID, &c.TenantID, &c.ProjectID, &c.TaskID, &c.Text, &c.CreatedBy)
	if err != nil {
		return domain.Comment{}, mapNotFound(err)
	}
	return c, nil
}

func (r *commentsRepo) CreateComment(ctx context.Context, c domain.Comment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO comments (id, tenant_id, project_id, task_id, text, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.TenantID, c.ProjectID, c.TaskID, c.Text, c.CreatedBy,
	)
	return mapConflict(err)
}
