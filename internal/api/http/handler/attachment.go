package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/dtroode/jobtracker-server/internal/api/http/response"
	"github.com/dtroode/jobtracker-server/internal/logger"
	"github.com/dtroode/jobtracker-server/internal/model"
)

// AttachmentService defines file operations on a job's attachment.
type AttachmentService interface {
	Upload(ctx context.Context, userID, jobID uuid.UUID, body io.Reader, size int64, contentType string) (model.ObjectInfo, error)
	Open(ctx context.Context, userID, jobID uuid.UUID) (io.ReadCloser, model.ObjectInfo, error)
	Delete(ctx context.Context, userID, jobID uuid.UUID) error
}

// Attachment handles HTTP endpoints for job attachments.
type Attachment struct {
	attachmentService AttachmentService
	contextManager    model.ContextManager
	logger            *logger.Logger
}

// NewAttachment creates a new Attachment handler.
func NewAttachment(attachmentService AttachmentService, contextManager model.ContextManager, logger *logger.Logger) *Attachment {
	return &Attachment{
		attachmentService: attachmentService,
		contextManager:    contextManager,
		logger:            logger,
	}
}

type attachmentResponse struct {
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

type uploadResponse struct {
	Message    string             `json:"message"`
	Attachment attachmentResponse `json:"attachment"`
}

// Upload stores the raw request body as the job's attachment.
func (h *Attachment) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r, h.contextManager)
	if !ok {
		return
	}
	jobID, ok := jobIDParam(w, r)
	if !ok {
		return
	}

	info, err := h.attachmentService.Upload(r.Context(), userID, jobID, r.Body, r.ContentLength, r.Header.Get("Content-Type"))
	if err != nil {
		h.logger.Info("Attachment handler: upload rejected",
			"user_id", userID,
			"job_id", jobID,
			"error", err.Error())
		handleError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, uploadResponse{
		Message:    "Attachment uploaded successfully",
		Attachment: attachmentResponse{Size: info.Size, ContentType: info.ContentType},
	})
}

// Download streams the job's attachment back to the caller.
func (h *Attachment) Download(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r, h.contextManager)
	if !ok {
		return
	}
	jobID, ok := jobIDParam(w, r)
	if !ok {
		return
	}

	rc, info, err := h.attachmentService.Open(r.Context(), userID, jobID)
	if err != nil {
		handleError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", info.ContentType)
	if info.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Error("Attachment handler: streaming failed",
			"job_id", jobID,
			"error", err.Error())
	}
}

// Delete removes the job's attachment.
func (h *Attachment) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r, h.contextManager)
	if !ok {
		return
	}
	jobID, ok := jobIDParam(w, r)
	if !ok {
		return
	}

	if err := h.attachmentService.Delete(r.Context(), userID, jobID); err != nil {
		handleError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, response.MessageBody{Message: "Attachment deleted successfully"})
}
