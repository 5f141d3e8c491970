package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/jobtracker-server/internal/model"
)

// SessionStore is a testify mock of model.SessionStore.
type SessionStore struct {
	mock.Mock
}

func NewSessionStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *SessionStore {
	m := &SessionStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SessionStore) Create(ctx context.Context, session model.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *SessionStore) GetByID(ctx context.Context, id uuid.UUID) (model.Session, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *SessionStore) GetByJTI(ctx context.Context, jti string) (model.Session, error) {
	args := m.Called(ctx, jti)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *SessionStore) GetByRotatedFrom(ctx context.Context, jti string) (model.Session, error) {
	args := m.Called(ctx, jti)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *SessionStore) Revoke(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *SessionStore) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
