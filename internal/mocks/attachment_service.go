package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/jobtracker-server/internal/model"
)

// AttachmentService is a testify mock of handler.AttachmentService.
type AttachmentService struct {
	mock.Mock
}

func NewAttachmentService(t interface {
	mock.TestingT
	Cleanup(func())
}) *AttachmentService {
	m := &AttachmentService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *AttachmentService) Upload(ctx context.Context, userID, jobID uuid.UUID, body io.Reader, size int64, contentType string) (model.ObjectInfo, error) {
	args := m.Called(ctx, userID, jobID, body, size, contentType)
	return args.Get(0).(model.ObjectInfo), args.Error(1)
}

func (m *AttachmentService) Open(ctx context.Context, userID, jobID uuid.UUID) (io.ReadCloser, model.ObjectInfo, error) {
	args := m.Called(ctx, userID, jobID)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Get(1).(model.ObjectInfo), args.Error(2)
}

func (m *AttachmentService) Delete(ctx context.Context, userID, jobID uuid.UUID) error {
	args := m.Called(ctx, userID, jobID)
	return args.Error(0)
}
