// Package validation holds the payload schemas of the API. Each Validate
// function checks every rule and returns the full ordered list of failing
// field messages, so a client sees all problems of a payload at once.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taskmanager/backend/internal/models"
)

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Due dates are accepted as full timestamps or plain dates
var dueDateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseDate parses an ISO date string in one of the accepted layouts
func ParseDate(value string) (time.Time, error) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date: %q", value)
}

// ValidEmail reports whether the value is a syntactically valid email address
func ValidEmail(value string) bool {
	return emailRegex.MatchString(value)
}

// ValidateRegister validates a registration payload
func ValidateRegister(req *models.RegisterRequest) []string {
	var errs []string

	username := strings.TrimSpace(req.Username)
	switch {
	case username == "":
		errs = append(errs, "Username is required")
	case utf8.RuneCountInString(username) < 3:
		errs = append(errs, "Username must be at least 3 characters long")
	case utf8.RuneCountInString(username) > 30:
		errs = append(errs, "Username cannot exceed 30 characters")
	}

	email := strings.TrimSpace(req.Email)
	switch {
	case email == "":
		errs = append(errs, "Email is required")
	case !ValidEmail(email):
		errs = append(errs, "Please provide a valid email address")
	}

	switch {
	case req.Password == "":
		errs = append(errs, "Password is required")
	case utf8.RuneCountInString(req.Password) < 6:
		errs = append(errs, "Password must be at least 6 characters long")
	}

	return errs
}

// ValidateLogin validates a login payload
func ValidateLogin(req *models.LoginRequest) []string {
	var errs []string

	email := strings.TrimSpace(req.Email)
	switch {
	case email == "":
		errs = append(errs, "Email is required")
	case !ValidEmail(email):
		errs = append(errs, "Please provide a valid email address")
	}

	if req.Password == "" {
		errs = append(errs, "Password is required")
	}

	return errs
}

// ValidateProfileUpdate validates a partial profile update payload.
// A payload with no recognized field is rejected.
func ValidateProfileUpdate(req *models.UpdateProfileRequest) []string {
	var errs []string

	if req.Username == nil && req.Email == nil {
		return []string{"At least one field must be provided"}
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		switch {
		case utf8.RuneCountInString(username) < 3:
			errs = append(errs, "Username must be at least 3 characters long")
		case utf8.RuneCountInString(username) > 30:
			errs = append(errs, "Username cannot exceed 30 characters")
		}
	}

	if req.Email != nil && !ValidEmail(strings.TrimSpace(*req.Email)) {
		errs = append(errs, "Please provide a valid email address")
	}

	return errs
}

// ValidateTaskCreate validates a task creation payload
func ValidateTaskCreate(req *models.CreateTaskRequest) []string {
	var errs []string

	title := strings.TrimSpace(req.Title)
	switch {
	case title == "":
		errs = append(errs, "Task title is required")
	case utf8.RuneCountInString(title) > 100:
		errs = append(errs, "Title cannot exceed 100 characters")
	}

	// Empty description is allowed
	if utf8.RuneCountInString(req.Description) > 500 {
		errs = append(errs, "Description cannot exceed 500 characters")
	}

	switch {
	case req.DueDate == "":
		errs = append(errs, "Due date is required")
	default:
		if _, err := ParseDate(req.DueDate); err != nil {
			errs = append(errs, "Please provide a valid date")
		}
	}

	if req.Priority != "" && !models.Priority(req.Priority).Valid() {
		errs = append(errs, "Priority must be low, medium, or high")
	}

	return errs
}

// ValidateTaskUpdate validates a partial task update payload.
// A payload with no recognized field is rejected.
func ValidateTaskUpdate(req *models.UpdateTaskRequest) []string {
	var errs []string

	if req.Title == nil && req.Description == nil && req.Status == nil &&
		req.DueDate == nil && req.Priority == nil {
		return []string{"At least one field must be provided"}
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		switch {
		case title == "":
			errs = append(errs, "Task title is required")
		case utf8.RuneCountInString(title) > 100:
			errs = append(errs, "Title cannot exceed 100 characters")
		}
	}

	if req.Description != nil && utf8.RuneCountInString(*req.Description) > 500 {
		errs = append(errs, "Description cannot exceed 500 characters")
	}

	if req.DueDate != nil {
		if _, err := ParseDate(*req.DueDate); err != nil {
			errs = append(errs, "Please provide a valid date")
		}
	}

	if req.Priority != nil && !models.Priority(*req.Priority).Valid() {
		errs = append(errs, "Priority must be low, medium, or high")
	}

	return errs
}
