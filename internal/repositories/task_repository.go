package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/taskmanager/backend/internal/apperrors"
	"github.com/taskmanager/backend/internal/models"
	"go.uber.org/zap"
)

const taskColumns = "id, title, description, status, due_date, priority, user_id, created_at, updated_at"

// taskRepository implements task data access over MySQL
type taskRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sql.DB, logger *zap.Logger) *taskRepository {
	return &taskRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new task into the database
func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (title, description, status, due_date, priority, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.DueDate,
		task.Priority,
		task.UserID,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to create task", zap.Error(err))
		return fmt.Errorf("failed to create task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	task.ID = int(id)
	return nil
}

// GetByID retrieves a task by ID
func (r *taskRepository) GetByID(ctx context.Context, taskID int) (*models.Task, error) {
	query := fmt.Sprintf("SELECT %s FROM tasks WHERE id = ?", taskColumns)

	task := &models.Task{}
	err := r.db.QueryRowContext(ctx, query, taskID).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.DueDate,
		&task.Priority,
		&task.UserID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("Task not found")
	}
	if err != nil {
		r.logger.Error("failed to get task by id", zap.Error(err), zap.Int("task_id", taskID))
		return nil, fmt.Errorf("failed to get task by id: %w", err)
	}

	return task, nil
}

// ListByUser retrieves the tasks of one user with optional status/priority
// filters and the requested sort mode. Unknown sort keys fall back to
// newest-created first.
func (r *taskRepository) ListByUser(ctx context.Context, userID int, filters *models.TaskListFilters) ([]models.Task, error) {
	query := fmt.Sprintf("SELECT %s FROM tasks WHERE user_id = ?", taskColumns)
	args := []any{userID}

	if filters.Status != nil {
		query += " AND status = ?"
		args = append(args, *filters.Status)
	}
	if filters.Priority != nil {
		query += " AND priority = ?"
		args = append(args, *filters.Priority)
	}

	switch filters.Sort {
	case models.SortDueDate:
		query += " ORDER BY due_date ASC"
	case models.SortPriority:
		query += " ORDER BY FIELD(priority, 'high', 'medium', 'low') ASC, created_at DESC"
	default:
		query += " ORDER BY created_at DESC, id DESC"
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list tasks", zap.Error(err), zap.Int("user_id", userID))
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		if err := scanTask(rows, &task); err != nil {
			r.logger.Error("failed to scan task row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task rows: %w", err)
	}

	return tasks, nil
}

// Update applies the non-nil fields of the patch and bumps updated_at
func (r *taskRepository) Update(ctx context.Context, task *models.Task, patch *models.TaskPatch) error {
	var sets []string
	var args []any

	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}
	if patch.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, *patch.DueDate)
	}
	if patch.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, *patch.Priority)
	}

	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, task.UpdatedAt)

	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = ?", strings.Join(sets, ", "))
	args = append(args, task.ID)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("failed to update task", zap.Error(err), zap.Int("task_id", task.ID))
		return fmt.Errorf("failed to update task: %w", err)
	}

	return nil
}

// Delete removes a task by ID
func (r *taskRepository) Delete(ctx context.Context, taskID int) error {
	query := `DELETE FROM tasks WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, taskID)
	if err != nil {
		r.logger.Error("failed to delete task", zap.Error(err), zap.Int("task_id", taskID))
		return fmt.Errorf("failed to delete task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound("Task not found")
	}

	return nil
}

// ListAllWithOwners retrieves every task with the owner identity summary
// attached, newest first
func (r *taskRepository) ListAllWithOwners(ctx context.Context) ([]models.TaskWithOwner, error) {
	query := `
		SELECT t.id, t.title, t.description, t.status, t.due_date, t.priority, t.user_id, t.created_at, t.updated_at,
		       u.username, u.email
		FROM tasks t
		JOIN users u ON u.id = t.user_id
		ORDER BY t.created_at DESC, t.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to list all tasks", zap.Error(err))
		return nil, fmt.Errorf("failed to list all tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.TaskWithOwner{}
	for rows.Next() {
		var task models.TaskWithOwner
		if err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.DueDate,
			&task.Priority,
			&task.UserID,
			&task.CreatedAt,
			&task.UpdatedAt,
			&task.Owner.Username,
			&task.Owner.Email,
		); err != nil {
			r.logger.Error("failed to scan task row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task rows: %w", err)
	}

	return tasks, nil
}

// scanTask scans one task row in taskColumns order
func scanTask(rows *sql.Rows, task *models.Task) error {
	return rows.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.DueDate,
		&task.Priority,
		&task.UserID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
}
