package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/jobtracker-server/internal/model"
)

// UserStore is a testify mock of model.UserStore.
type UserStore struct {
	mock.Mock
}

func NewUserStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserStore {
	m := &UserStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	if fn, ok := args.Get(0).(func(context.Context, model.User) model.User); ok {
		return fn(ctx, user), args.Error(1)
	}
	return args.Get(0).(model.User), args.Error(1)
}
