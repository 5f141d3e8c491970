package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/jobtracker-server/internal/model"
)

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		in         error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "api error passthrough",
			in:         model.NewErrJobNotFound(),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"Job not found"}`,
		},
		{
			name:       "wrapped api error",
			in:         fmt.Errorf("outer: %w", model.NewErrValidation("status is required")),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"status is required"}`,
		},
		{
			name:       "model not found",
			in:         model.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"Not found"}`,
		},
		{
			name:       "other error hides details",
			in:         errors.New("pq: connection refused on 10.0.0.3"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			handleError(rec, tt.in)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
