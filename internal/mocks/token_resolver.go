package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/jobtracker-server/internal/model"
)

// TokenResolver is a testify mock of middleware.TokenResolver.
type TokenResolver struct {
	mock.Mock
}

func NewTokenResolver(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenResolver {
	m := &TokenResolver{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *TokenResolver) ResolveToken(ctx context.Context, token string) (model.UserIdentity, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.UserIdentity), args.Error(1)
}
