package handler

import (
	"errors"
	"net/http"

	"github.com/dtroode/jobtracker-server/internal/api/http/response"
	"github.com/dtroode/jobtracker-server/internal/model"
)

func handleError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		response.WriteError(w, apiErr.Status, apiErr.Message)
		return
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		response.WriteError(w, http.StatusNotFound, "Not found")
	default:
		response.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
