package models

import "time"

// Priority is the urgency level of a task
type Priority string

// Task priority constants
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid checks that the priority is one of the known values
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task sort keys accepted by the list endpoint. Anything else falls back
// to newest-created first.
const (
	SortDueDate  = "dueDate"
	SortPriority = "priority"
)

// Task represents a task owned by a single user.
// Status false means pending, true means completed.
type Task struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      bool      `json:"status"`
	DueDate     time.Time `json:"dueDate"`
	Priority    Priority  `json:"priority"`
	UserID      int       `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateTaskRequest represents a task creation request.
// DueDate is an ISO date string, parsed during validation.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Priority    string `json:"priority"`
}

// UpdateTaskRequest represents a partial task update.
// Nil fields are left untouched.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *bool   `json:"status,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	Priority    *string `json:"priority,omitempty"`
}

// TaskPatch carries the validated field changes of a partial update.
// Nil fields are not written to the store.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *bool
	DueDate     *time.Time
	Priority    *Priority
}

// Empty reports whether the patch touches no fields
func (p *TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.DueDate == nil && p.Priority == nil
}

// TaskListFilters represents optional filters and the sort mode for listing
// tasks. Nil pointers mean filter not applied. Priority is kept as a raw
// string so an unknown value simply matches nothing, as the source system
// behaves.
type TaskListFilters struct {
	Status   *bool
	Priority *string
	Sort     string
}

// OwnerSummary is the owner identity attached to tasks in the admin list
type OwnerSummary struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TaskWithOwner represents a task with its owner summary in the admin list
type TaskWithOwner struct {
	Task
	Owner OwnerSummary `json:"user"`
}
