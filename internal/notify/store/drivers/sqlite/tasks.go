package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/taskmail/internal/notify/domain"
)

type tasksRepo struct {
	db *sql.DB
}

const taskColumns = `id, tenant_id, project_id, title, description, assigned_to, priority, due_date, status, updated_by`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(s rowScanner) (domain.Task, error) {
	var (
		t          domain.Task
		assignedTo sql.NullString
		updatedBy  sql.NullString
		dueDate    sql.NullInt64
		priority   string
		status     string
	)
	err := s.Scan(
		&t.ID, &t.TenantID, &t.ProjectID, &t.Title, &t.Description,
		&assignedTo, &priority, &dueDate, &status, &updatedBy,
	)
	if err != nil {
		return domain.Task{}, err
	}
	t.AssignedTo = mapNullString(assignedTo)
	t.UpdatedBy = mapNullString(updatedBy)
	t.DueDate = mapNullMillis(dueDate)
	t.Priority = domain.Priority(priority)
	t.Status = domain.TaskStatus(status)
	return t, nil
}

func (r *tasksRepo) GetTask(ctx context.Context, tenantID, projectID, taskID string) (domain.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE tenant_id = ? AND project_id = ? AND id = ?`,
		tenantID, projectID, taskID,
	)
	t, err := scanTask(row)
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
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE tenant_id = ? AND project_id = ?
		   AND due_date >= ? AND due_date < ?
		   AND status != ?
		 ORDER BY due_date, id`,
		tenantID, projectID, from.UnixMilli(), to.UnixMilli(), string(domain.TaskStatusDone),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
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
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.TenantID, t.ProjectID, t.Title, t.Description,
		mapStringNull(t.AssignedTo), string(priority), mapOptionalMillis(t.DueDate),
		string(status), mapStringNull(t.UpdatedBy),
	)
	return mapConflict(err)
}
