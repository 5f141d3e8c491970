package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// IdentityProvider accepts credentials, issues bearer tokens and resolves
// them back to a user identity.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string) (User, error)
	SignIn(ctx context.Context, email, password string) (User, AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
	Refresh(ctx context.Context, refreshToken string) (AuthSession, error)
	ResolveToken(ctx context.Context, accessToken string) (UserIdentity, error)
}

// UserIdentity is the caller identity resolved from a bearer token.
type UserIdentity struct {
	ID        uuid.UUID
	SessionID uuid.UUID
}

// AuthSession holds the tokens handed to a client after sign in.
type AuthSession struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}
