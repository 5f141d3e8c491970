package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/jobtracker-server/internal/model"
)

var _ model.SessionStore = (*SessionRepository)(nil)

type SessionRepository struct {
	db *Connection
}

func NewSessionRepository(db *Connection) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, jti, user_id, token_hash, issued_at, expires_at, revoked_at, rotated_from_jti, created_at, updated_at`

func (r *SessionRepository) Create(ctx context.Context, session model.Session) error {
	const query = `
        INSERT INTO sessions (
            id, jti, user_id, token_hash, issued_at, expires_at, revoked_at, rotated_from_jti, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW())
    `

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		session.ID, session.JTI, session.UserID, session.TokenHash, session.IssuedAt, session.ExpiresAt,
		session.RevokedAt, session.RotatedFromJTI,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *SessionRepository) GetByJTI(ctx context.Context, jti string) (model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE jti = $1`
	return r.getOne(ctx, query, jti)
}

func (r *SessionRepository) GetByRotatedFrom(ctx context.Context, jti string) (model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE rotated_from_jti = $1`
	return r.getOne(ctx, query, jti)
}

func (r *SessionRepository) getOne(ctx context.Context, query string, arg any) (model.Session, error) {
	var s model.Session
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&s.ID, &s.JTI, &s.UserID, &s.TokenHash, &s.IssuedAt, &s.ExpiresAt,
		&s.RevokedAt, &s.RotatedFromJTI, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

func (r *SessionRepository) Revoke(ctx context.Context, id uuid.UUID) (bool, error) {
	const query = `
        UPDATE sessions SET revoked_at = NOW(), updated_at = NOW()
        WHERE id = $1 AND revoked_at IS NULL
    `
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to revoke session: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *SessionRepository) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	const query = `
        UPDATE sessions SET revoked_at = NOW(), updated_at = NOW()
        WHERE user_id = $1 AND revoked_at IS NULL
    `
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to revoke sessions by user: %w", err)
	}
	return nil
}
