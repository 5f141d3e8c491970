package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/jobtracker-server/internal/model"
)

// JobService is a testify mock of handler.JobService.
type JobService struct {
	mock.Mock
}

func NewJobService(t interface {
	mock.TestingT
	Cleanup(func())
}) *JobService {
	m := &JobService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *JobService) CreateJob(ctx context.Context, userID uuid.UUID, params model.CreateJobParams) (model.Job, error) {
	args := m.Called(ctx, userID, params)
	return args.Get(0).(model.Job), args.Error(1)
}

func (m *JobService) ListJobs(ctx context.Context, userID uuid.UUID) ([]model.Job, error) {
	args := m.Called(ctx, userID)
	jobs, _ := args.Get(0).([]model.Job)
	return jobs, args.Error(1)
}

func (m *JobService) GetJob(ctx context.Context, userID, jobID uuid.UUID) (model.Job, error) {
	args := m.Called(ctx, userID, jobID)
	return args.Get(0).(model.Job), args.Error(1)
}

func (m *JobService) UpdateJob(ctx context.Context, userID, jobID uuid.UUID, params model.UpdateJobParams) (model.Job, error) {
	args := m.Called(ctx, userID, jobID, params)
	return args.Get(0).(model.Job), args.Error(1)
}

func (m *JobService) DeleteJob(ctx context.Context, userID, jobID uuid.UUID) error {
	args := m.Called(ctx, userID, jobID)
	return args.Error(0)
}
