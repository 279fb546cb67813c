package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	authMiddleware "github.com/taskmanager/backend/internal/auth/middleware"
	"github.com/taskmanager/backend/internal/models"
	"github.com/taskmanager/backend/internal/validation"
	"go.uber.org/zap"
)

// TaskService is the interface that wraps methods for task business logic
type TaskService interface {
	// Create creates a task owned by the caller.
	//
	// "identity" parameter is the authenticated caller; it becomes the task owner.
	// "req" parameter carries the validated task fields.
	//
	// If some error occurs during task creation, the error will be returned together with "nil" value.
	Create(ctx context.Context, identity *models.Identity, req *models.CreateTaskRequest) (*models.Task, error)
	// List retrieves the caller's own tasks with optional filters and sorting.
	//
	// "filters" parameter carries the status/priority filters and the sort key.
	//
	// If some error occurs, the error will be returned together with "nil" value.
	List(ctx context.Context, identity *models.Identity, filters *models.TaskListFilters) ([]models.Task, error)
	// GetByID retrieves one task after the existence and ownership gates.
	//
	// If the task does not exist (404), the caller is not the owner (403), or
	// some other error occurs, the error will be returned together with "nil" value.
	GetByID(ctx context.Context, identity *models.Identity, taskID int) (*models.Task, error)
	// Update applies a partial update to an owned task.
	//
	// "req" parameter carries the fields to change; nil fields are left untouched.
	//
	// If the task does not exist, the caller is not the owner, or some other
	// error occurs, the error will be returned together with "nil" value.
	Update(ctx context.Context, identity *models.Identity, taskID int, req *models.UpdateTaskRequest) (*models.Task, error)
	// Delete removes a task. The owner may always delete; an admin may delete any task.
	//
	// If the task does not exist, the caller may not delete it, or some other
	// error occurs, the error will be returned.
	Delete(ctx context.Context, identity *models.Identity, taskID int) error
	// ListAll retrieves every task with its owner summary. Admin only.
	//
	// If some error occurs, the error will be returned together with "nil" value.
	ListAll(ctx context.Context) ([]models.TaskWithOwner, error)
	// SendReminder dispatches a due-date reminder email for an owned task.
	//
	// If the task does not exist or the caller is not the owner, the error will
	// be returned. Delivery failures are swallowed after logging.
	SendReminder(ctx context.Context, identity *models.Identity, taskID int) error
}

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	BaseHandler
	taskService TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		BaseHandler: BaseHandler{Logger: logger},
		taskService: taskService,
	}
}

// RegisterRoutes registers all task handler routes.
// The router must already be behind the authentication middleware.
func (h *TaskHandler) RegisterRoutes(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		// Admin only routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAdmin)
			r.Get("/admin/all", h.ListAllTasks)
		})

		r.Post("/", h.CreateTask)
		r.Get("/", h.ListTasks)
		r.Get("/{id}", h.GetTask)
		r.Put("/{id}", h.UpdateTask)
		r.Delete("/{id}", h.DeleteTask)
		r.Post("/{id}/remind", h.SendReminder)
	})
}

// CreateTask handles POST /tasks
// @Summary Create a task
// @Description Create a task owned by the caller. Priority defaults to medium.
// @Tags tasks
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CreateTaskRequest true "Task creation request"
// @Success 201 {object} models.Response "Task created successfully"
// @Failure 400 {object} models.Response "Validation error"
// @Failure 401 {object} models.Response "Not authenticated"
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := authMiddleware.GetIdentity(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "Not authorized, no token")
		return
	}

	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validation.ValidateTaskCreate(&req); len(errs) > 0 {
		h.RespondValidationErrors(w, errs)
		return
	}

	task, err := h.taskService.Create(r.Context(), identity, &req)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.RespondData(w, http.StatusCreated, "Task created successfully", task)
}

// ListTasks handles GET /tasks
// @Summary List own tasks
// @Description List the caller's tasks. Supports exact status/priority filters and dueDate/priority sort modes; unknown sort keys fall back to newest first.
// @Tags tasks
// @Produce json
// @Security ApiKeyAuth
// @Param status query bool false "Filter by completion status"
// @Param priority query string false "Filter by priority (low, medium, high)"
// @Param sort query string false "Sort mode (dueDate or priority)"
// @Success 200 {object} models.Response "Tasks"
// @Failure 401 {object} models.Response "Not authenticated"
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	identity, ok := authMiddleware.GetIdentity(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "Not authorized, no token")
		return
	}

	filters := parseTaskListFilters(r)

	tasks, err := h.taskService.List(r.Context(), identity, filters)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.RespondList(w, tasks, len(tasks))
}

// GetTask handles GET /tasks/{id}
// @Summary Get one task
// @Description Fetch one task by ID. Owner only.
// @Tags tasks
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Task ID"
// @Success 200 {object} models.Response "Task"
// @Failure 403 {object} models.Response "Not the owner"
// @Failure 404 {object} models.Response "Task not found"
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := authMiddleware.GetIdentity(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "Not authorized, no token")
		return
	}

	taskID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusNotFound, "Task not found")
		return
	}

	task, err := h.taskService.GetByID(r.Context(), identity, taskID)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.RespondData(w, http.StatusOK, "", task)
}

// UpdateTask handles PUT /tasks/{id}
// @Summary Update a task
// @Description Partially update an owned task. Absent fields are left untouched.
// @Tags tasks
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Task ID"
// @Param request body models.UpdateTaskRequest true "Task update request"
// @Success 200 {object} models.Response "Task updated successfully"
// @Failure 400 {object} models.Response "Validation error"
// @Failure 403 {object} models.Response "Not the owner"
// @Failure 404 {object} models.Response "Task not found"
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := authMiddleware.GetIdentity(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "Not authorized, no token")
		return
	}

	taskID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusNotFound, "Task not found")
		return
	}

	var req models.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validation.ValidateTaskUpdate(&req); len(errs) > 0 {
		h.RespondValidationErrors(w, errs)
		return
	}

	task, err := h.taskService.Update(r.Context(), identity, taskID, &req)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.RespondData(w, http.StatusOK, "Task updated successfully", task)
}

// DeleteTask handles DELETE /tasks/{id}
// @Summary Delete a task
// @Description Delete a task. Owner or admin.
// @Tags tasks
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Task ID"
// @Success 200 {object} models.Response "Task deleted successfully"
// @Failure 403 {object} models.Response "Not the owner or an admin"
// @Failure 404 {object} models.Response "Task not found"
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := authMiddleware.GetIdentity(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "Not authorized, no token")
		return
	}

	taskID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusNotFound, "Task not found")
		return
	}

	if err := h.taskService.Delete(r.Context(), identity, taskID); err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.RespondData(w, http.StatusOK, "Task deleted successfully", nil)
}

// ListAllTasks handles GET /tasks/admin/all
// @Summary List every task
// @Description List all tasks across all users with owner summaries. Admin only.
// @Tags tasks
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Response "Tasks with owners"
// @Failure 403 {object} models.Response "Admin role required"
// @Router /tasks/admin/all [get]
func (h *TaskHandler) ListAllTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListAll(r.Context())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.RespondList(w, tasks, len(tasks))
}

// SendReminder handles POST /tasks/{id}/remind
// @Summary Send a task reminder email
// @Description Dispatch a due-date reminder email for an owned task. Owner only, no admin override.
// @Tags tasks
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Task ID"
// @Success 200 {object} models.Response "Task reminder email sent successfully"
// @Failure 403 {object} models.Response "Not the owner"
// @Failure 404 {object} models.Response "Task not found"
// @Router /tasks/{id}/remind [post]
func (h *TaskHandler) SendReminder(w http.ResponseWriter, r *http.Request) {
	identity, ok := authMiddleware.GetIdentity(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "Not authorized, no token")
		return
	}

	taskID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusNotFound, "Task not found")
		return
	}

	if err := h.taskService.SendReminder(r.Context(), identity, taskID); err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.RespondData(w, http.StatusOK, "Task reminder email sent successfully", nil)
}

// parseTaskListFilters reads the status, priority and sort query parameters.
// The status filter is completed only for the literal "true"; any other value
// filters for pending. An unknown priority value simply matches nothing.
func parseTaskListFilters(r *http.Request) *models.TaskListFilters {
	filters := &models.TaskListFilters{}
	query := r.URL.Query()

	if statusStr := query.Get("status"); statusStr != "" {
		status := statusStr == "true"
		filters.Status = &status
	}
	if priority := query.Get("priority"); priority != "" {
		filters.Priority = &priority
	}
	filters.Sort = query.Get("sort")

	return filters
}
