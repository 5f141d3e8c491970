package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dtroode/jobtracker-server/internal/logger"
	"github.com/dtroode/jobtracker-server/internal/model"
)

// Job manages job entries on behalf of an authenticated owner.
type Job struct {
	jobStore model.JobStore
	storage  model.Storage
	validate *validator.Validate
	logger   *logger.Logger
}

// NewJob creates the job service. storage may be nil when attachments are disabled.
func NewJob(jobStore model.JobStore, storage model.Storage, logger *logger.Logger) *Job {
	return &Job{
		jobStore: jobStore,
		storage:  storage,
		validate: newValidator(),
		logger:   logger,
	}
}

// ownedBy builds the ownership filter every store call goes through.
func ownedBy(userID, jobID uuid.UUID) model.Scope {
	return model.Scope{OwnerID: userID, JobID: jobID}
}

func (s *Job) CreateJob(ctx context.Context, userID uuid.UUID, params model.CreateJobParams) (model.Job, error) {
	params.ApplicationDate = emptyToNil(params.ApplicationDate)
	params.Notes = emptyToNil(params.Notes)

	if err := s.validate.StructCtx(ctx, params); err != nil {
		return model.Job{}, validationError(err)
	}

	job, err := s.jobStore.Create(ctx, model.Job{
		OwnerID:         userID,
		CompanyName:     params.CompanyName,
		JobTitle:        params.JobTitle,
		Status:          model.JobStatus(params.Status),
		ApplicationDate: params.ApplicationDate,
		Notes:           params.Notes,
	})
	if err != nil {
		s.logger.Error("Job service: failed to create job",
			"user_id", userID,
			"error", err.Error())
		return model.Job{}, fmt.Errorf("failed to create job: %w", err)
	}

	s.logger.Debug("Job service: job created",
		"user_id", userID,
		"job_id", job.ID)

	return job, nil
}

func (s *Job) ListJobs(ctx context.Context, userID uuid.UUID) ([]model.Job, error) {
	jobs, err := s.jobStore.List(ctx, ownedBy(userID, uuid.Nil))
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	if jobs == nil {
		jobs = []model.Job{}
	}
	return jobs, nil
}

func (s *Job) GetJob(ctx context.Context, userID, jobID uuid.UUID) (model.Job, error) {
	job, err := s.jobStore.Get(ctx, ownedBy(userID, jobID))
	if errors.Is(err, model.ErrNotFound) {
		return model.Job{}, model.NewErrJobNotFound()
	}
	if err != nil {
		s.logger.Error("Job service: failed to get job",
			"user_id", userID,
			"job_id", jobID,
			"error", err.Error())
		return model.Job{}, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

func (s *Job) UpdateJob(ctx context.Context, userID, jobID uuid.UUID, params model.UpdateJobParams) (model.Job, error) {
	params.ApplicationDate = emptyToNil(params.ApplicationDate)
	params.Notes = emptyToNil(params.Notes)

	if err := s.validate.StructCtx(ctx, params); err != nil {
		return model.Job{}, validationError(err)
	}

	job, err := s.jobStore.Update(ctx, ownedBy(userID, jobID), model.JobFields{
		CompanyName:     params.CompanyName,
		JobTitle:        params.JobTitle,
		Status:          params.Status,
		ApplicationDate: params.ApplicationDate,
		Notes:           params.Notes,
	})
	if errors.Is(err, model.ErrNotFound) {
		return model.Job{}, model.NewErrJobNotFound()
	}
	if err != nil {
		s.logger.Error("Job service: failed to update job",
			"user_id", userID,
			"job_id", jobID,
			"error", err.Error())
		return model.Job{}, fmt.Errorf("failed to update job: %w", err)
	}

	return job, nil
}

// DeleteJob removes the job if the caller owns it. Deleting a missing or
// foreign job succeeds without effect.
func (s *Job) DeleteJob(ctx context.Context, userID, jobID uuid.UUID) error {
	deleted, err := s.jobStore.Delete(ctx, ownedBy(userID, jobID))
	if err != nil {
		s.logger.Error("Job service: failed to delete job",
			"user_id", userID,
			"job_id", jobID,
			"error", err.Error())
		return fmt.Errorf("failed to delete job: %w", err)
	}

	if deleted > 0 && s.storage != nil {
		if err := s.storage.Delete(ctx, attachmentKey(userID, jobID)); err != nil {
			s.logger.Error("Job service: failed to delete attachment",
				"user_id", userID,
				"job_id", jobID,
				"error", err.Error())
		}
	}

	return nil
}
