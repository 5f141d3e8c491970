package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dtroode/jobtracker-server/internal/api/http/response"
	"github.com/dtroode/jobtracker-server/internal/logger"
	"github.com/dtroode/jobtracker-server/internal/model"
)

// JobService defines business operations for job entries.
type JobService interface {
	CreateJob(ctx context.Context, userID uuid.UUID, params model.CreateJobParams) (model.Job, error)
	ListJobs(ctx context.Context, userID uuid.UUID) ([]model.Job, error)
	GetJob(ctx context.Context, userID, jobID uuid.UUID) (model.Job, error)
	UpdateJob(ctx context.Context, userID, jobID uuid.UUID, params model.UpdateJobParams) (model.Job, error)
	DeleteJob(ctx context.Context, userID, jobID uuid.UUID) error
}

// Job handles HTTP endpoints for job entries.
type Job struct {
	jobService     JobService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewJob creates a new Job handler.
func NewJob(jobService JobService, contextManager model.ContextManager, logger *logger.Logger) *Job {
	return &Job{
		jobService:     jobService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type jobResponse struct {
	ID              uuid.UUID `json:"id"`
	OwnerID         uuid.UUID `json:"owner_id"`
	CompanyName     string    `json:"company_name"`
	JobTitle        string    `json:"job_title"`
	Status          string    `json:"status"`
	ApplicationDate *string   `json:"application_date"`
	Notes           *string   `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toJobResponse(job model.Job) jobResponse {
	return jobResponse{
		ID:              job.ID,
		OwnerID:         job.OwnerID,
		CompanyName:     job.CompanyName,
		JobTitle:        job.JobTitle,
		Status:          string(job.Status),
		ApplicationDate: job.ApplicationDate,
		Notes:           job.Notes,
		CreatedAt:       job.CreatedAt,
		UpdatedAt:       job.UpdatedAt,
	}
}

type jobEnvelope struct {
	Message string      `json:"message,omitempty"`
	Job     jobResponse `json:"job"`
}

type jobListEnvelope struct {
	Message string        `json:"message"`
	Jobs    []jobResponse `json:"jobs"`
}

// List returns every job owned by the caller, newest first.
func (h *Job) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	jobs, err := h.jobService.ListJobs(r.Context(), userID)
	if err != nil {
		h.logger.Error("Job handler: list jobs failed",
			"user_id", userID,
			"error", err.Error())
		handleError(w, err)
		return
	}

	out := make([]jobResponse, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, toJobResponse(job))
	}

	response.WriteJSON(w, http.StatusOK, jobListEnvelope{Message: "Jobs retrieved successfully", Jobs: out})
}

// Create stores a new job owned by the caller.
func (h *Job) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var params model.CreateJobParams
	if err := decodeJSON(w, r, &params); err != nil {
		handleError(w, err)
		return
	}

	job, err := h.jobService.CreateJob(r.Context(), userID, params)
	if err != nil {
		h.logger.Info("Job handler: create job rejected",
			"user_id", userID,
			"error", err.Error())
		handleError(w, err)
		return
	}

	h.logger.Info("Job handler: job created",
		"user_id", userID,
		"job_id", job.ID)

	response.WriteJSON(w, http.StatusCreated, jobEnvelope{Message: "Job created successfully", Job: toJobResponse(job)})
}

// Get returns a single job owned by the caller.
func (h *Job) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	jobID, ok := jobIDParam(w, r)
	if !ok {
		return
	}

	job, err := h.jobService.GetJob(r.Context(), userID, jobID)
	if err != nil {
		handleError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, jobEnvelope{Job: toJobResponse(job)})
}

// Update overwrites a job owned by the caller.
func (h *Job) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	jobID, ok := jobIDParam(w, r)
	if !ok {
		return
	}

	var params model.UpdateJobParams
	if err := decodeJSON(w, r, &params); err != nil {
		handleError(w, err)
		return
	}

	job, err := h.jobService.UpdateJob(r.Context(), userID, jobID, params)
	if err != nil {
		h.logger.Info("Job handler: update job rejected",
			"user_id", userID,
			"job_id", jobID,
			"error", err.Error())
		handleError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, jobEnvelope{Message: "Job updated successfully", Job: toJobResponse(job)})
}

// Delete removes a job owned by the caller. Missing jobs are not an error.
func (h *Job) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	jobID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err == nil {
		if err := h.jobService.DeleteJob(r.Context(), userID, jobID); err != nil {
			handleError(w, err)
			return
		}
	}

	response.WriteJSON(w, http.StatusOK, response.MessageBody{Message: "Job deleted successfully"})
}

func (h *Job) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	return userIDFromContext(w, r, h.contextManager)
}

func userIDFromContext(w http.ResponseWriter, r *http.Request, cm model.ContextManager) (uuid.UUID, bool) {
	userID, ok := cm.GetUserIDFromContext(r.Context())
	if !ok {
		err := model.NewErrMissingAuthorizationToken()
		response.WriteError(w, err.Status, err.Message)
		return uuid.Nil, false
	}
	return userID, true
}

// jobIDParam parses the {id} path segment. A malformed id cannot match
// any row, so it is reported the same way as a missing job.
func jobIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	jobID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, model.NewErrJobNotFound())
		return uuid.Nil, false
	}
	return jobID, true
}
