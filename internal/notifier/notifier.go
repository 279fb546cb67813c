// Package notifier is the outbound email capability. It is injected into the
// services as an interface so tests can substitute a recording stub; the
// real implementation speaks SMTP.
package notifier

import (
	"context"
	"time"
)

// Notifier sends one-shot email notifications. Implementations bound their
// own delivery time; callers treat failures as log-only events.
type Notifier interface {
	// SendWelcome sends the post-registration welcome email.
	//
	// "email" parameter is the recipient address.
	// "username" parameter is used to address the recipient.
	//
	// If delivery fails, the error will be returned.
	SendWelcome(ctx context.Context, email, username string) error
	// SendTaskReminder sends a due-date reminder for one task.
	//
	// "email" parameter is the task owner's address.
	// "taskTitle" parameter names the task in the subject and body.
	// "dueDate" parameter is rendered in the body.
	//
	// If delivery fails, the error will be returned.
	SendTaskReminder(ctx context.Context, email, taskTitle string, dueDate time.Time) error
}
