package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	clientID := uuid.New().String()

	tests := []struct {
		name       string
		headerID   string
		expectKept bool
	}{
		{
			name:       "generates an ID when none is supplied",
			headerID:   "",
			expectKept: false,
		},
		{
			name:       "keeps a valid client-supplied UUID",
			headerID:   clientID,
			expectKept: true,
		},
		{
			name:       "replaces a non-UUID client value",
			headerID:   "not-a-uuid",
			expectKept: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ctxID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctxID = GetRequestID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api", nil)
			if tt.headerID != "" {
				req.Header.Set("X-Request-ID", tt.headerID)
			}
			w := httptest.NewRecorder()

			RequestIDMiddleware(next).ServeHTTP(w, req)

			headerID := w.Header().Get("X-Request-ID")
			require.NotEmpty(t, headerID)
			_, err := uuid.Parse(headerID)
			assert.NoError(t, err)

			// Context and response header carry the same ID
			assert.Equal(t, headerID, ctxID)

			if tt.expectKept {
				assert.Equal(t, tt.headerID, headerID)
			} else if tt.headerID != "" {
				assert.NotEqual(t, tt.headerID, headerID)
			}
		})
	}
}

func TestGetRequestID_MissingFromContext(t *testing.T) {
	assert.Equal(t, "", GetRequestID(context.Background()))
}
