// Package authz is the task access policy, independent of transport framing.
// Handlers resolve the resource first (absent resources are 404 before this
// policy ever runs), then ask the policy whether the caller may act on it.
package authz

import (
	"github.com/taskmanager/backend/internal/apperrors"
	"github.com/taskmanager/backend/internal/models"
)

// Action is an operation on a task
type Action int

// Task actions
const (
	ActionRead Action = iota + 1
	ActionUpdate
	ActionDelete
	ActionRemind
)

// Denial messages per action
var denialMessages = map[Action]string{
	ActionRead:   "Not authorized to access this task",
	ActionUpdate: "Not authorized to update this task",
	ActionDelete: "Not authorized to delete this task",
	ActionRemind: "Not authorized to send reminder for this task",
}

// Allow decides whether the identity may perform the action on a task owned
// by ownerID. The owner may do anything; an admin may additionally delete.
// Read, update and remind stay owner-only even for admins.
func Allow(identity *models.Identity, ownerID int, action Action) error {
	if identity.ID == ownerID {
		return nil
	}
	if action == ActionDelete && identity.Role == models.RoleAdmin {
		return nil
	}

	message, ok := denialMessages[action]
	if !ok {
		message = "Not authorized"
	}
	return apperrors.Forbidden(message)
}
