package model

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

// JobStore defines persistence operations for job entries.
// Every method that reads or mutates rows is filtered by a Scope.
type JobStore interface {
	Create(ctx context.Context, job Job) (Job, error)
	List(ctx context.Context, scope Scope) ([]Job, error)
	Get(ctx context.Context, scope Scope) (Job, error)
	Update(ctx context.Context, scope Scope, fields JobFields) (Job, error)
	Delete(ctx context.Context, scope Scope) (int64, error)
}

// Scope restricts a store operation to rows owned by OwnerID and,
// when JobID is set, to that single row.
type Scope struct {
	OwnerID uuid.UUID
	JobID   uuid.UUID
}

// Job represents a tracked job application.
type Job struct {
	ID              uuid.UUID
	OwnerID         uuid.UUID
	CompanyName     string
	JobTitle        string
	Status          JobStatus
	ApplicationDate *string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// JobStatus enumerates application states.
type JobStatus string

const (
	// JobStatusApplied means the application was sent.
	JobStatusApplied JobStatus = "Applied"
	// JobStatusInterviewing means interviews are in progress.
	JobStatusInterviewing JobStatus = "Interviewing"
	// JobStatusOffered means an offer was received.
	JobStatusOffered JobStatus = "Offered"
	// JobStatusRejected means the application was declined.
	JobStatusRejected JobStatus = "Rejected"
)

// JobStatuses lists every accepted status value.
var JobStatuses = []JobStatus{
	JobStatusApplied,
	JobStatusInterviewing,
	JobStatusOffered,
	JobStatusRejected,
}

// Valid reports whether s is one of JobStatuses.
func (s JobStatus) Valid() bool {
	return slices.Contains(JobStatuses, s)
}

// DateLayout is the wire and storage format of application dates.
const DateLayout = "2006-01-02"

// CreateJobParams contains parameters to create a job entry.
type CreateJobParams struct {
	CompanyName     string  `json:"company_name" validate:"required,notblank"`
	JobTitle        string  `json:"job_title" validate:"required,notblank"`
	Status          string  `json:"status" validate:"required,jobstatus"`
	ApplicationDate *string `json:"application_date" validate:"omitnil,jobdate"`
	Notes           *string `json:"notes"`
}

// UpdateJobParams contains parameters to update a job entry.
// Nil required fields keep their stored value; nil optional fields are cleared.
type UpdateJobParams struct {
	CompanyName     *string `json:"company_name" validate:"omitnil,required,notblank"`
	JobTitle        *string `json:"job_title" validate:"omitnil,required,notblank"`
	Status          *string `json:"status" validate:"omitnil,jobstatus"`
	ApplicationDate *string `json:"application_date" validate:"omitnil,jobdate"`
	Notes           *string `json:"notes"`
}

// JobFields is the column set written by a store update.
type JobFields struct {
	CompanyName     *string
	JobTitle        *string
	Status          *string
	ApplicationDate *string
	Notes           *string
}
