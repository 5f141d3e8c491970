package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionStore persists login sessions backing issued tokens.
type SessionStore interface {
	Create(ctx context.Context, session Session) error
	GetByID(ctx context.Context, id uuid.UUID) (Session, error)
	GetByJTI(ctx context.Context, jti string) (Session, error)
	// GetByRotatedFrom returns the session opened by rotating the refresh token with the given JTI.
	GetByRotatedFrom(ctx context.Context, jti string) (Session, error)
	// Revoke ends an active session and reports whether this call ended it.
	Revoke(ctx context.Context, id uuid.UUID) (bool, error)
	RevokeAllByUser(ctx context.Context, userID uuid.UUID) error
}

// Session is a login session. Access tokens reference it by ID,
// the refresh token by JTI.
type Session struct {
	ID             uuid.UUID
	JTI            string
	UserID         uuid.UUID
	TokenHash      []byte
	IssuedAt       time.Time
	ExpiresAt      time.Time
	RevokedAt      *time.Time
	RotatedFromJTI *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Active reports whether the session can still authenticate requests.
func (s Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
