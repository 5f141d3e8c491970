package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/jobtracker-server/internal/logger"
	"github.com/dtroode/jobtracker-server/internal/model"
)

// TokenService provides high-level operations for issuing, refreshing,
// resolving and revoking tokens. It composes the TokenManager and SessionStore.
type TokenService struct {
	manager    model.TokenManager
	store      model.SessionStore
	refreshTTL time.Duration
	logger     *logger.Logger
}

func NewTokenService(manager model.TokenManager, store model.SessionStore, refreshTTL time.Duration, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, store: store, refreshTTL: refreshTTL, logger: logger}
}

// Issue opens a new session for the user and returns its token pair.
func (s *TokenService) Issue(ctx context.Context, userID uuid.UUID) (model.AuthSession, error) {
	return s.openSession(ctx, userID, nil)
}

func (s *TokenService) openSession(ctx context.Context, userID uuid.UUID, rotatedFrom *string) (model.AuthSession, error) {
	sessionID := uuid.New()

	access, expiresAt, err := s.manager.GenerateAccessToken(userID, sessionID)
	if err != nil {
		return model.AuthSession{}, fmt.Errorf("issue access: %w", err)
	}

	refresh, jti, err := s.manager.GenerateRefreshToken(userID)
	if err != nil {
		return model.AuthSession{}, fmt.Errorf("issue refresh: %w", err)
	}

	now := time.Now()
	session := model.Session{
		ID:             sessionID,
		JTI:            jti,
		UserID:         userID,
		TokenHash:      hashRefresh(refresh),
		IssuedAt:       now,
		ExpiresAt:      now.Add(s.refreshTTL),
		RotatedFromJTI: rotatedFrom,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.Create(ctx, session); err != nil {
		return model.AuthSession{}, fmt.Errorf("persist session: %w", err)
	}

	return model.AuthSession{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}, nil
}

// Refresh rotates a refresh token: the presented session is revoked and a new one is opened.
// Each refresh token is redeemed at most once. Presenting one that was already
// rotated ends every session of its user.
func (s *TokenService) Refresh(ctx context.Context, presentedRefresh string) (model.AuthSession, error) {
	userID, jti, err := s.manager.ParseRefreshToken(presentedRefresh)
	if err != nil {
		return model.AuthSession{}, model.NewErrInvalidRefreshToken()
	}

	session, err := s.store.GetByJTI(ctx, jti)
	if errors.Is(err, model.ErrNotFound) {
		return model.AuthSession{}, model.NewErrInvalidRefreshToken()
	}
	if err != nil {
		return model.AuthSession{}, fmt.Errorf("get session: %w", err)
	}

	if err := validateSession(session, hashRefresh(presentedRefresh), time.Now()); err != nil {
		s.logger.Info("Token service: refresh rejected",
			"session_id", session.ID,
			"reason", err.Error())
		if errors.Is(err, model.ErrTokenRevoked) {
			if err := s.revokeOnReuse(ctx, session); err != nil {
				return model.AuthSession{}, err
			}
		}
		return model.AuthSession{}, model.NewErrInvalidRefreshToken()
	}

	revoked, err := s.store.Revoke(ctx, session.ID)
	if err != nil {
		return model.AuthSession{}, fmt.Errorf("revoke old session: %w", err)
	}
	if !revoked {
		s.logger.Info("Token service: refresh rejected",
			"session_id", session.ID,
			"reason", "already rotated")
		return model.AuthSession{}, model.NewErrInvalidRefreshToken()
	}

	rotatedFrom := session.JTI
	return s.openSession(ctx, userID, &rotatedFrom)
}

// Resolve verifies an access token and the session it belongs to.
func (s *TokenService) Resolve(ctx context.Context, accessToken string) (model.UserIdentity, error) {
	claims, err := s.manager.ParseAccessToken(accessToken)
	if err != nil || claims.UserID == uuid.Nil || claims.SessionID == uuid.Nil {
		return model.UserIdentity{}, model.NewErrInvalidAuthorizationToken()
	}

	session, err := s.store.GetByID(ctx, claims.SessionID)
	if errors.Is(err, model.ErrNotFound) {
		return model.UserIdentity{}, model.NewErrInvalidAuthorizationToken()
	}
	if err != nil {
		return model.UserIdentity{}, fmt.Errorf("get session: %w", err)
	}

	if session.UserID != claims.UserID || !session.Active(time.Now()) {
		return model.UserIdentity{}, model.NewErrInvalidAuthorizationToken()
	}

	return model.UserIdentity{ID: claims.UserID, SessionID: claims.SessionID}, nil
}

// RevokeByAccessToken ends the session an access token belongs to.
// Tokens that fail verification are ignored.
func (s *TokenService) RevokeByAccessToken(ctx context.Context, accessToken string) error {
	claims, err := s.manager.ParseAccessToken(accessToken)
	if err != nil || claims.SessionID == uuid.Nil {
		return nil
	}
	_, err = s.store.Revoke(ctx, claims.SessionID)
	return err
}

func (s *TokenService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return s.store.RevokeAllByUser(ctx, userID)
}

// revokeOnReuse ends all sessions of the user when a revoked session has a successor.
// A session revoked by logout has none and is left alone.
func (s *TokenService) revokeOnReuse(ctx context.Context, session model.Session) error {
	successor, err := s.store.GetByRotatedFrom(ctx, session.JTI)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get rotated session: %w", err)
	}

	s.logger.Warn("Token service: rotated refresh token reused, revoking all sessions",
		"user_id", session.UserID,
		"session_id", session.ID,
		"successor_id", successor.ID)

	if err := s.RevokeAllForUser(ctx, session.UserID); err != nil {
		return fmt.Errorf("revoke sessions on reuse: %w", err)
	}
	return nil
}

func hashRefresh(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}

func validateSession(session model.Session, presentedHash []byte, now time.Time) error {
	if session.RevokedAt != nil {
		return model.ErrTokenRevoked
	}
	if now.After(session.ExpiresAt) {
		return model.ErrTokenExpired
	}
	if subtle.ConstantTimeCompare(session.TokenHash, presentedHash) != 1 {
		return model.ErrTokenMismatch
	}
	return nil
}
