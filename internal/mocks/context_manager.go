package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// ContextManager is a testify mock of model.ContextManager.
type ContextManager struct {
	mock.Mock
}

func NewContextManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *ContextManager {
	m := &ContextManager{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ContextManager) SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context {
	args := m.Called(ctx, userID)
	return args.Get(0).(context.Context)
}

func (m *ContextManager) GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	args := m.Called(ctx)
	return args.Get(0).(uuid.UUID), args.Bool(1)
}
