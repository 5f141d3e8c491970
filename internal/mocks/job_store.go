package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/jobtracker-server/internal/model"
)

// JobStore is a testify mock of model.JobStore.
type JobStore struct {
	mock.Mock
}

func NewJobStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *JobStore {
	m := &JobStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *JobStore) Create(ctx context.Context, job model.Job) (model.Job, error) {
	args := m.Called(ctx, job)
	return args.Get(0).(model.Job), args.Error(1)
}

func (m *JobStore) List(ctx context.Context, scope model.Scope) ([]model.Job, error) {
	args := m.Called(ctx, scope)
	jobs, _ := args.Get(0).([]model.Job)
	return jobs, args.Error(1)
}

func (m *JobStore) Get(ctx context.Context, scope model.Scope) (model.Job, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(model.Job), args.Error(1)
}

func (m *JobStore) Update(ctx context.Context, scope model.Scope, fields model.JobFields) (model.Job, error) {
	args := m.Called(ctx, scope, fields)
	return args.Get(0).(model.Job), args.Error(1)
}

func (m *JobStore) Delete(ctx context.Context, scope model.Scope) (int64, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(int64), args.Error(1)
}
