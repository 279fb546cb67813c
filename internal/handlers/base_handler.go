package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/taskmanager/backend/internal/apperrors"
	"github.com/taskmanager/backend/internal/models"
	"go.uber.org/zap"
)

// BaseHandler provides the envelope-shaped responses shared by all handlers
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends an envelope response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, resp models.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondData sends a success envelope with an optional message and data
func (h *BaseHandler) RespondData(w http.ResponseWriter, status int, message string, data any) {
	h.RespondJSON(w, status, models.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondList sends a success envelope with data and a count
func (h *BaseHandler) RespondList(w http.ResponseWriter, data any, count int) {
	h.RespondJSON(w, http.StatusOK, models.Response{
		Success: true,
		Data:    data,
		Count:   &count,
	})
}

// RespondError sends a failure envelope with the given status
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, models.Response{
		Success: false,
		Message: message,
	})
}

// RespondValidationErrors sends the 400 envelope carrying every field error
func (h *BaseHandler) RespondValidationErrors(w http.ResponseWriter, errs []string) {
	h.RespondJSON(w, http.StatusBadRequest, models.Response{
		Success: false,
		Message: "Validation error",
		Errors:  errs,
	})
}

// HandleError maps a service error to its status by kind. Unclassified
// errors become the 500 envelope; their detail is logged, never returned.
func (h *BaseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		status = http.StatusBadRequest
	case apperrors.KindAuthentication:
		status = http.StatusUnauthorized
	case apperrors.KindAuthorization:
		status = http.StatusForbidden
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		h.Logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}

	h.RespondError(w, status, apperrors.MessageOf(err))
}
