package services

import (
	"context"
	"strings"
	"time"

	"github.com/taskmanager/backend/internal/apperrors"
	"github.com/taskmanager/backend/internal/authz"
	"github.com/taskmanager/backend/internal/models"
	"github.com/taskmanager/backend/internal/notifier"
	"github.com/taskmanager/backend/internal/validation"
	"go.uber.org/zap"
)

// TaskRepository is the interface that wraps methods for Task table data access
type TaskRepository interface {
	// Create inserts a new task into the database.
	//
	// "task" parameter is used to create a new task; its ID is set on success.
	//
	// If some error occurs during task creation, the error will be returned.
	Create(ctx context.Context, task *models.Task) error
	// GetByID retrieves a task by ID.
	//
	// "taskID" parameter is used to retrieve a task by ID.
	//
	// If task with such ID does not exist, the error will be returned together with "nil" value.
	GetByID(ctx context.Context, taskID int) (*models.Task, error)
	// ListByUser retrieves the tasks of one user with the given filters and sort mode.
	//
	// "userID" parameter scopes the result to that user's tasks.
	// "filters" parameter carries the optional status/priority filters and the sort key.
	//
	// If some error occurs, the error will be returned together with "nil" value.
	ListByUser(ctx context.Context, userID int, filters *models.TaskListFilters) ([]models.Task, error)
	// Update applies the non-nil fields of the patch to the stored task.
	//
	// "task" parameter identifies the task and carries the new updated_at value.
	// "patch" parameter carries the fields to change.
	//
	// If some error occurs during task update, the error will be returned.
	Update(ctx context.Context, task *models.Task, patch *models.TaskPatch) error
	// Delete removes a task by ID.
	//
	// "taskID" parameter is used to identify the task to delete.
	//
	// If the task does not exist or some error occurs, the error will be returned.
	Delete(ctx context.Context, taskID int) error
	// ListAllWithOwners retrieves every task with the owner identity summary attached.
	//
	// If some error occurs, the error will be returned together with "nil" value.
	ListAllWithOwners(ctx context.Context) ([]models.TaskWithOwner, error)
}

// taskService implements task CRUD, list queries and reminder dispatch
type taskService struct {
	taskRepo TaskRepository
	notifier notifier.Notifier
	logger   *zap.Logger
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo TaskRepository, notifier notifier.Notifier, logger *zap.Logger) *taskService {
	return &taskService{
		taskRepo: taskRepo,
		notifier: notifier,
		logger:   logger,
	}
}

// Create creates a task owned by the caller. The owner is taken from the
// authenticated identity, never from the payload, and cannot change later.
func (s *taskService) Create(ctx context.Context, identity *models.Identity, req *models.CreateTaskRequest) (*models.Task, error) {
	dueDate, err := validation.ParseDate(req.DueDate)
	if err != nil {
		return nil, apperrors.Validation("Please provide a valid date")
	}

	priority := models.PriorityMedium
	if req.Priority != "" {
		priority = models.Priority(req.Priority)
		if !priority.Valid() {
			return nil, apperrors.Validation("Priority must be low, medium, or high")
		}
	}

	now := time.Now().UTC()
	task := &models.Task{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Status:      false,
		DueDate:     dueDate,
		Priority:    priority,
		UserID:      identity.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

// List retrieves the caller's own tasks with optional filters and sorting
func (s *taskService) List(ctx context.Context, identity *models.Identity, filters *models.TaskListFilters) ([]models.Task, error) {
	return s.taskRepo.ListByUser(ctx, identity.ID, filters)
}

// GetByID retrieves one task after the existence and ownership gates.
// A missing task is 404 before ownership is ever considered, so the response
// never distinguishes "someone else's task" from "no task" beyond 403/404.
func (s *taskService) GetByID(ctx context.Context, identity *models.Identity, taskID int) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := authz.Allow(identity, task.UserID, authz.ActionRead); err != nil {
		return nil, err
	}

	return task, nil
}

// Update applies a partial update to an owned task. Fields absent from the
// payload keep their stored values.
func (s *taskService) Update(ctx context.Context, identity *models.Identity, taskID int, req *models.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := authz.Allow(identity, task.UserID, authz.ActionUpdate); err != nil {
		return nil, err
	}

	patch := &models.TaskPatch{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		patch.Title = &title
		task.Title = title
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		patch.Description = &description
		task.Description = description
	}
	if req.Status != nil {
		patch.Status = req.Status
		task.Status = *req.Status
	}
	if req.DueDate != nil {
		dueDate, err := validation.ParseDate(*req.DueDate)
		if err != nil {
			return nil, apperrors.Validation("Please provide a valid date")
		}
		patch.DueDate = &dueDate
		task.DueDate = dueDate
	}
	if req.Priority != nil {
		priority := models.Priority(*req.Priority)
		if !priority.Valid() {
			return nil, apperrors.Validation("Priority must be low, medium, or high")
		}
		patch.Priority = &priority
		task.Priority = priority
	}

	if patch.Empty() {
		return nil, apperrors.Validation("At least one field must be provided")
	}

	task.UpdatedAt = time.Now().UTC()
	if err := s.taskRepo.Update(ctx, task, patch); err != nil {
		return nil, err
	}

	return task, nil
}

// Delete removes a task; the owner may always delete, an admin may delete
// any task.
func (s *taskService) Delete(ctx context.Context, identity *models.Identity, taskID int) error {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	if err := authz.Allow(identity, task.UserID, authz.ActionDelete); err != nil {
		return err
	}

	return s.taskRepo.Delete(ctx, task.ID)
}

// ListAll retrieves every task with its owner summary. The role gate is the
// admin middleware on the route; this method applies no ownership scoping.
func (s *taskService) ListAll(ctx context.Context) ([]models.TaskWithOwner, error) {
	return s.taskRepo.ListAllWithOwners(ctx)
}

// SendReminder dispatches a due-date reminder email for an owned task.
// Delivery failures are logged and never surfaced: once the dispatch was
// attempted the request has done its job, and SMTP transients are nothing
// the client can act on.
func (s *taskService) SendReminder(ctx context.Context, identity *models.Identity, taskID int) error {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	if err := authz.Allow(identity, task.UserID, authz.ActionRemind); err != nil {
		return err
	}

	// The owner gate above guarantees the identity is the task owner, so the
	// identity's email is the owner email.
	if err := s.notifier.SendTaskReminder(ctx, identity.Email, task.Title, task.DueDate); err != nil {
		s.logger.Error("failed to send task reminder",
			zap.Int("task_id", task.ID),
			zap.Int("user_id", identity.ID),
			zap.Error(err),
		)
	}

	return nil
}
