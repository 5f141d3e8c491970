package mocks

import (
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/jobtracker-server/internal/model"
)

// TokenManager is a testify mock of model.TokenManager.
type TokenManager struct {
	mock.Mock
}

func NewTokenManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenManager {
	m := &TokenManager{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *TokenManager) GenerateAccessToken(userID, sessionID uuid.UUID) (string, time.Time, error) {
	args := m.Called(userID, sessionID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *TokenManager) GenerateRefreshToken(userID uuid.UUID) (string, string, error) {
	args := m.Called(userID)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *TokenManager) ParseAccessToken(token string) (model.AccessClaims, error) {
	args := m.Called(token)
	return args.Get(0).(model.AccessClaims), args.Error(1)
}

func (m *TokenManager) ParseRefreshToken(token string) (uuid.UUID, string, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.String(1), args.Error(2)
}
