package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type tasksRepo struct {
	pool *pgxpool.Pool
}

const taskColumns = `id, tenant_id, project_id, title, description, assigned_to, priority, due_date, status, updated_by`

func scanTask(row pgx.Row) (domain.Task, error) {
	var (
		t          domain.Task
		assignedTo pgtype.Text
		updatedBy  pgtype.Text
		dueDate    pgtype.Timestamptz
		priority   string
		status     string
	)
	err := row.Scan(
		&t.ID, &t.TenantID, &t.ProjectID, &t.Title, &t.Description,
		&assignedTo, &priority, &dueDate, &status, &updatedBy,
	)
	if err != nil {
		return domain.Task{}, err
	}
	t.AssignedTo = mapText(assignedTo)
	t.UpdatedBy = mapText(updatedBy)
	t.DueDate = mapTimestamptz(dueDate)
	t.Priority = domain.Priority(priority)
	t.Status = domain.TaskStatus(status)
	return t, nil
}

func (r *tasksRepo) GetTask(ctx context.Context, tenantID, projectID, taskID string) (domain.Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE tenant_id = $1 AND project_id = $2 AND id = $3`,
		tenantID, projectID, taskID,
	))
	if err != nil {
		return domain.Task{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tasksRepo) ListDueTasks(
	ctx context.Context,
	tenantID, projectID string,
	from, to time.Time,
) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE tenant_id = $1 AND project_id = $2
		   AND due_date >= $3 AND due_date < $4
		   AND status <> $5
		 ORDER BY due_date, id`,
		tenantID, projectID, from, to, string(domain.TaskStatusDone),
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Task, error) {
		return scanTask(row)
	})
}

func (r *tasksRepo) CreateTask(ctx context.Context, t domain.Task) error {
	priority := t.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	status := t.Status
	if status == "" {
		status = domain.TaskStatusTodo
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.TenantID, t.ProjectID, t.Title, t.Description,
		mapTextNull(t.AssignedTo), string(priority), mapOptionalTimestamptz(t.DueDate),
		string(status), mapTextNull(t.UpdatedBy),
	)
	return mapConflict(err)
}
