package handler

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/jobtracker-server/internal/mocks"
	"github.com/dtroode/jobtracker-server/internal/model"
	"github.com/dtroode/jobtracker-server/internal/testutil"
)

func TestAttachment_Upload(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	jobID := uuid.New()
	target := "/jobs/" + jobID.String() + "/attachment"
	pattern := "/jobs/{id}/attachment"

	t.Run("uploaded", func(t *testing.T) {
		svc := mocks.NewAttachmentService(t)
		svc.On("Upload", mock.Anything, userID, jobID, mock.Anything, int64(6), mock.Anything).
			Return(model.ObjectInfo{Size: 6, ContentType: "text/plain"}, nil).Once()

		h := NewAttachment(svc, testContextManager, testutil.MakeNoopLogger())
		rec := serve(h.Upload, http.MethodPut, pattern, target, "resume", userID)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Attachment uploaded successfully","attachment":{"size":6,"content_type":"text/plain"}}`, rec.Body.String())
	})

	t.Run("too large", func(t *testing.T) {
		svc := mocks.NewAttachmentService(t)
		svc.On("Upload", mock.Anything, userID, jobID, mock.Anything, mock.Anything, mock.Anything).
			Return(model.ObjectInfo{}, model.NewErrAttachmentTooLarge(4)).Once()

		h := NewAttachment(svc, testContextManager, testutil.MakeNoopLogger())
		rec := serve(h.Upload, http.MethodPut, pattern, target, "resume", userID)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		h := NewAttachment(mocks.NewAttachmentService(t), testContextManager, testutil.MakeNoopLogger())
		rec := serve(h.Upload, http.MethodPut, pattern, "/jobs/x/attachment", "resume", userID)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAttachment_Download(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	jobID := uuid.New()
	target := "/jobs/" + jobID.String() + "/attachment"
	pattern := "/jobs/{id}/attachment"

	t.Run("streams content", func(t *testing.T) {
		svc := mocks.NewAttachmentService(t)
		svc.On("Open", mock.Anything, userID, jobID).
			Return(io.NopCloser(strings.NewReader("resume")), model.ObjectInfo{Size: 6, ContentType: "application/pdf"}, nil).Once()

		h := NewAttachment(svc, testContextManager, testutil.MakeNoopLogger())
		rec := serve(h.Download, http.MethodGet, pattern, target, "", userID)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Equal(t, "6", rec.Header().Get("Content-Length"))
		assert.Equal(t, "resume", rec.Body.String())
	})

	t.Run("missing", func(t *testing.T) {
		svc := mocks.NewAttachmentService(t)
		svc.On("Open", mock.Anything, userID, jobID).Return(nil, model.ObjectInfo{}, model.NewErrAttachmentNotFound()).Once()

		h := NewAttachment(svc, testContextManager, testutil.MakeNoopLogger())
		rec := serve(h.Download, http.MethodGet, pattern, target, "", userID)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Attachment not found"}`, rec.Body.String())
	})
}

func TestAttachment_Delete(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	jobID := uuid.New()

	svc := mocks.NewAttachmentService(t)
	svc.On("Delete", mock.Anything, userID, jobID).Return(nil).Once()

	h := NewAttachment(svc, testContextManager, testutil.MakeNoopLogger())
	rec := serve(h.Delete, http.MethodDelete, "/jobs/{id}/attachment", "/jobs/"+jobID.String()+"/attachment", "", userID)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Attachment deleted successfully"}`, rec.Body.String())
}
