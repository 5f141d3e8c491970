package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/jobtracker-server/internal/model"
)

// IdentityProvider is a testify mock of model.IdentityProvider.
type IdentityProvider struct {
	mock.Mock
}

func NewIdentityProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *IdentityProvider {
	m := &IdentityProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *IdentityProvider) SignUp(ctx context.Context, email, password string) (model.User, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *IdentityProvider) SignIn(ctx context.Context, email, password string) (model.User, model.AuthSession, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.User), args.Get(1).(model.AuthSession), args.Error(2)
}

func (m *IdentityProvider) SignOut(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}

func (m *IdentityProvider) Refresh(ctx context.Context, refreshToken string) (model.AuthSession, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(model.AuthSession), args.Error(1)
}

func (m *IdentityProvider) ResolveToken(ctx context.Context, accessToken string) (model.UserIdentity, error) {
	args := m.Called(ctx, accessToken)
	return args.Get(0).(model.UserIdentity), args.Error(1)
}
