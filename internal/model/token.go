package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenManager generates and validates access/refresh tokens.
type TokenManager interface {
	GenerateAccessToken(userID, sessionID uuid.UUID) (token string, expiresAt time.Time, err error)
	GenerateRefreshToken(userID uuid.UUID) (token string, jti string, err error)
	ParseAccessToken(token string) (AccessClaims, error)
	ParseRefreshToken(token string) (userID uuid.UUID, jti string, err error)
}

// AccessClaims is the identity carried by a verified access token.
type AccessClaims struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
}
