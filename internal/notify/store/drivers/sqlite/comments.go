package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
)

type commentsRepo struct {
	db *sql.DB
}

func (r *commentsRepo) GetComment(
	ctx context.Context,
	tenantID, projectID, taskID, commentID string,
) (domain.Comment, error) {
	var c domain.Comment
	err := r.db.QueryRowContext(ctx,
		`SELECT id, tenant_id, project_id, task_id, text, created_by
		 FROM comments
		 WHERE tenant_id = ? AND project_id = ? AND task_id = ? AND id = ?`,
		tenantID, projectID, taskID, commentID,
	).Scan(&c.ID, &c.TenantID, &c.ProjectID, &c.TaskID, &c.Text, &c.CreatedBy)
	if err != nil {
		return domain.Comment{}, mapNotFound(err)
	}
	return c, nil
}

func (r *commentsRepo) CreateComment(ctx context.Context, c domain.Comment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (id, tenant_id, project_id, task_id, text, created_by)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.TenantID, c.ProjectID, c.TaskID, c.Text, c.CreatedBy,
	)
	return mapConflict(err)
}
