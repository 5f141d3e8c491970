package context

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey int

const userIDKey ctxKey = iota

// Manager stores the authenticated user ID in a request context.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetUserIDToContext returns a copy of ctx carrying userID.
func (m *Manager) SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext retrieves the user ID set by SetUserIDToContext.
// A missing or nil ID reports false.
func (m *Manager) GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}
