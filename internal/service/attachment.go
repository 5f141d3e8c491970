package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/dtroode/jobtracker-server/internal/logger"
	"github.com/dtroode/jobtracker-server/internal/model"
)

const defaultContentType = "application/octet-stream"

// JobFinder resolves a job visible to the caller.
type JobFinder interface {
	GetJob(ctx context.Context, userID, jobID uuid.UUID) (model.Job, error)
}

// Attachment stores one file per job (a resume or cover letter) in object storage.
type Attachment struct {
	jobs    JobFinder
	storage model.Storage
	maxSize int64
	logger  *logger.Logger
}

func NewAttachment(jobs JobFinder, storage model.Storage, maxSize int64, logger *logger.Logger) *Attachment {
	return &Attachment{
		jobs:    jobs,
		storage: storage,
		maxSize: maxSize,
		logger:  logger,
	}
}

func attachmentKey(userID, jobID uuid.UUID) string {
	return userID.String() + "/" + jobID.String()
}

// Upload replaces the job's attachment. size is -1 when unknown.
func (s *Attachment) Upload(ctx context.Context, userID, jobID uuid.UUID, body io.Reader, size int64, contentType string) (model.ObjectInfo, error) {
	if _, err := s.jobs.GetJob(ctx, userID, jobID); err != nil {
		return model.ObjectInfo{}, err
	}

	if size > s.maxSize {
		return model.ObjectInfo{}, model.NewErrAttachmentTooLarge(s.maxSize)
	}
	if contentType == "" {
		contentType = defaultContentType
	}

	key := attachmentKey(userID, jobID)
	reader := &cappedReader{r: body, remaining: s.maxSize}

	err := s.storage.Upload(ctx, key, reader, size, contentType)
	if reader.exceeded {
		return model.ObjectInfo{}, model.NewErrAttachmentTooLarge(s.maxSize)
	}
	if err != nil {
		s.logger.Error("Attachment service: upload failed",
			"job_id", jobID,
			"error", err.Error())
		return model.ObjectInfo{}, fmt.Errorf("failed to upload attachment: %w", err)
	}

	return model.ObjectInfo{Key: key, Size: reader.read, ContentType: contentType}, nil
}

// Open returns the job's attachment and its metadata. The caller closes the reader.
func (s *Attachment) Open(ctx context.Context, userID, jobID uuid.UUID) (io.ReadCloser, model.ObjectInfo, error) {
	if _, err := s.jobs.GetJob(ctx, userID, jobID); err != nil {
		return nil, model.ObjectInfo{}, err
	}

	key := attachmentKey(userID, jobID)
	info, err := s.storage.Stat(ctx, key)
	if errors.Is(err, model.ErrNotFound) {
		return nil, model.ObjectInfo{}, model.NewErrAttachmentNotFound()
	}
	if err != nil {
		return nil, model.ObjectInfo{}, fmt.Errorf("failed to stat attachment: %w", err)
	}

	rc, err := s.storage.Download(ctx, key)
	if err != nil {
		return nil, model.ObjectInfo{}, fmt.Errorf("failed to download attachment: %w", err)
	}

	return rc, info, nil
}

func (s *Attachment) Delete(ctx context.Context, userID, jobID uuid.UUID) error {
	if _, err := s.jobs.GetJob(ctx, userID, jobID); err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, attachmentKey(userID, jobID)); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	return nil
}

var errAttachmentTooLarge = errors.New("attachment too large")

// cappedReader fails once more than remaining bytes have been read.
type cappedReader struct {
	r         io.Reader
	remaining int64
	read      int64
	exceeded  bool
}

func (c *cappedReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	c.remaining -= int64(n)
	if c.remaining < 0 {
		c.exceeded = true
		return n, errAttachmentTooLarge
	}
	return n, err
}
