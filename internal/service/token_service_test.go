package service

import (
	"context"
	"crypto/sha256"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/jobtracker-server/internal/mocks"
	"github.com/dtroode/jobtracker-server/internal/model"
	"github.com/dtroode/jobtracker-server/internal/testutil"
	"github.com/dtroode/jobtracker-server/internal/token"
)

func TestTokenService_Issue(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	expiresAt := time.Now().Add(time.Hour)

	manager := mocks.NewTokenManager(t)
	store := mocks.NewSessionStore(t)

	var sessionID uuid.UUID
	manager.On("GenerateAccessToken", userID, mock.AnythingOfType("uuid.UUID")).
		Run(func(args mock.Arguments) { sessionID = args.Get(1).(uuid.UUID) }).
		Return("access", expiresAt, nil).Once()
	manager.On("GenerateRefreshToken", userID).Return("refresh", "jti-1", nil).Once()

	wantHash := sha256.Sum256([]byte("refresh"))
	store.On("Create", ctx, mock.MatchedBy(func(s model.Session) bool {
		return s.ID == sessionID &&
			s.UserID == userID &&
			s.JTI == "jti-1" &&
			assert.ObjectsAreEqual(wantHash[:], s.TokenHash) &&
			s.RotatedFromJTI == nil &&
			s.ExpiresAt.Sub(s.IssuedAt) == 24*time.Hour
	})).Return(nil).Once()

	svc := NewTokenService(manager, store, 24*time.Hour, testutil.MakeNoopLogger())

	session, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "access", session.AccessToken)
	assert.Equal(t, "refresh", session.RefreshToken)
	assert.Equal(t, expiresAt, session.ExpiresAt)
}

func TestTokenService_Issue_Errors(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("access generation", func(t *testing.T) {
		manager := mocks.NewTokenManager(t)
		store := mocks.NewSessionStore(t)
		manager.On("GenerateAccessToken", userID, mock.Anything).Return("", time.Time{}, assert.AnError).Once()

		_, err := NewTokenService(manager, store, time.Hour, testutil.MakeNoopLogger()).Issue(ctx, userID)
		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("refresh generation", func(t *testing.T) {
		manager := mocks.NewTokenManager(t)
		store := mocks.NewSessionStore(t)
		manager.On("GenerateAccessToken", userID, mock.Anything).Return("access", time.Now(), nil).Once()
		manager.On("GenerateRefreshToken", userID).Return("", "", assert.AnError).Once()

		_, err := NewTokenService(manager, store, time.Hour, testutil.MakeNoopLogger()).Issue(ctx, userID)
		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("persist", func(t *testing.T) {
		manager := mocks.NewTokenManager(t)
		store := mocks.NewSessionStore(t)
		manager.On("GenerateAccessToken", userID, mock.Anything).Return("access", time.Now(), nil).Once()
		manager.On("GenerateRefreshToken", userID).Return("refresh", "jti", nil).Once()
		store.On("Create", ctx, mock.Anything).Return(assert.AnError).Once()

		_, err := NewTokenService(manager, store, time.Hour, testutil.MakeNoopLogger()).Issue(ctx, userID)
		require.ErrorIs(t, err, assert.AnError)
	})
}

func TestTokenService_Refresh(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	oldSessionID := uuid.New()
	presentedHash := sha256.Sum256([]byte("old-refresh"))
	now := time.Now()

	activeSession := model.Session{
		ID:        oldSessionID,
		JTI:       "old-jti",
		UserID:    userID,
		TokenHash: presentedHash[:],
		IssuedAt:  now.Add(-time.Hour),
		ExpiresAt: now.Add(time.Hour),
	}

	t.Run("rotates", func(t *testing.T) {
		manager := mocks.NewTokenManager(t)
		store := mocks.NewSessionStore(t)

		manager.On("ParseRefreshToken", "old-refresh").Return(userID, "old-jti", nil).Once()
		store.On("GetByJTI", ctx, "old-jti").Return(activeSession, nil).Once()
		store.On("Revoke", ctx, oldSessionID).Return(true, nil).Once()
		manager.On("GenerateAccessToken", userID, mock.Anything).Return("new-access", now.Add(time.Hour), nil).Once()
		manager.On("GenerateRefreshToken", userID).Return("new-refresh", "new-jti", nil).Once()
		store.On("Create", ctx, mock.MatchedBy(func(s model.Session) bool {
			return s.JTI == "new-jti" && s.RotatedFromJTI != nil && *s.RotatedFromJTI == "old-jti"
		})).Return(nil).Once()

		session, err := NewTokenService(manager, store, time.Hour, testutil.MakeNoopLogger()).Refresh(ctx, "old-refresh")
		require.NoError(t, err)
		assert.Equal(t, "new-access", session.AccessToken)
		assert.Equal(t, "new-refresh", session.RefreshToken)
	})

	revokedAt := now.Add(-time.Minute)
	otherHash := sha256.Sum256([]byte("other"))

	revokedSession := activeSession
	revokedSession.RevokedAt = &revokedAt

	rejected := []struct {
		name    string
		session model.Session
		setup   func(store *mocks.SessionStore)
	}{
		{
			name:    "revoked by logout",
			session: revokedSession,
			setup: func(store *mocks.SessionStore) {
				store.On("GetByRotatedFrom", ctx, "old-jti").Return(model.Session{}, model.ErrNotFound).Once()
			},
		},
		{
			name:    "rotated token reused",
			session: revokedSession,
			setup: func(store *mocks.SessionStore) {
				store.On("GetByRotatedFrom", ctx, "old-jti").Return(model.Session{ID: uuid.New(), UserID: userID}, nil).Once()
				store.On("RevokeAllByUser", ctx, userID).Return(nil).Once()
			},
		},
		{name: "expired", session: func() model.Session { s := activeSession; s.ExpiresAt = now.Add(-time.Second); return s }()},
		{name: "hash mismatch", session: func() model.Session { s := activeSession; s.TokenHash = otherHash[:]; return s }()},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			manager := mocks.NewTokenManager(t)
			store := mocks.NewSessionStore(t)
			manager.On("ParseRefreshToken", "old-refresh").Return(userID, "old-jti", nil).Once()
			store.On("GetByJTI", ctx, "old-jti").Return(tt.session, nil).Once()
			if tt.setup != nil {
				tt.setup(store)
			}

			_, err := NewTokenService(manager, store, time.Hour, testutil.MakeNoopLogger()).Refresh(ctx, "old-refresh")
			requireAPIError(t, err, 401)
			store.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything)
		})
	}

	t.Run("reuse lookup failure", func(t *testing.T) {
		manager := mocks.NewTokenManager(t)
		store := mocks.NewSessionStore(t)
		manager.On("ParseRefreshToken", "old-refresh").Return(userID, "old-jti", nil).Once()
		store.On("GetByJTI", ctx, "old-jti").Return(revokedSession, nil).Once()
		store.On("GetByRotatedFrom", ctx, "old-jti").Return(model.Session{}, assert.AnError).Once()

		_, err := NewTokenService(manager, store, time.Hour, testutil.MakeNoopLogger()).Refresh(ctx, "old-refresh")
		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("already rotated by a concurrent refresh", func(t *testing.T) {
		manager := mocks.NewTokenManager(t)
		store := mocks.NewSessionStore(t)
		manager.On("ParseRefreshToken", "old-refresh").Return(userID, "old-jti", nil).Once()
		store.On("GetByJTI", ctx, "old-jti").Return(activeSession, nil).Once()
		store.On("Revoke", ctx, oldSessionID).Return(false, nil).Once()

		_, err := NewTokenService(manager, store, time.Hour, testutil.MakeNoopLogger()).Refresh(ctx, "old-refresh")
		requireAPIError(t, err, 401)
		store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unparseable", func(t *testing.T) {
		manager := mocks.NewTokenManager(t)
		store := mocks.NewSessionStore(t)
		manager.On("ParseRefreshToken", "junk").Return(uuid.Nil, "", assert.AnError).Once()

		_, err := NewTokenService(manager, store, time.Hour, testutil.MakeNoopLogger()).Refresh(ctx, "junk")
		requireAPIError(t, err, 401)
	})

	t.Run("unknown session", func(t *testing.T) {
		manager := mocks.NewTokenManager(t)
		store := mocks.NewSessionStore(t)
		manager.On("ParseRefreshToken", "old-refresh").Return(userID, "old-jti", nil).Once()
		store.On("GetByJTI", ctx, "old-jti").Return(model.Session{}, model.ErrNotFound).Once()

		_, err := NewTokenService(manager, store, time.Hour, testutil.MakeNoopLogger()).Refresh(ctx, "old-refresh")
		requireAPIError(t, err, 401)
	})

	t.Run("store failure", func(t *testing.T) {
		manager := mocks.NewTokenManager(t)
		store := mocks.NewSessionStore(t)
		manager.On("ParseRefreshToken", "old-refresh").Return(userID, "old-jti", nil).Once()
		store.On("GetByJTI", ctx, "old-jti").Return(model.Session{}, assert.AnError).Once()

		_, err := NewTokenService(manager, store, time.Hour, testutil.MakeNoopLogger()).Refresh(ctx, "old-refresh")
		require.ErrorIs(t, err, assert.AnError)
	})
}

func TestTokenService_Resolve(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	sessionID := uuid.New()
	claims := model.AccessClaims{UserID: userID, SessionID: sessionID}
	now := time.Now()
	revokedAt := now.Add(-time.Minute)

	tests := []struct {
		name      string
		claims    model.AccessClaims
		parseErr  error
		session   model.Session
		storeErr  error
		skipStore bool
		wantErr   int
	}{
		{
			name:    "active session",
			claims:  claims,
			session: model.Session{ID: sessionID, UserID: userID, ExpiresAt: now.Add(time.Hour)},
		},
		{
			name:      "bad signature",
			parseErr:  assert.AnError,
			skipStore: true,
			wantErr:   401,
		},
		{
			name:      "token without session",
			claims:    model.AccessClaims{UserID: userID},
			skipStore: true,
			wantErr:   401,
		},
		{
			name:     "session gone",
			claims:   claims,
			storeErr: model.ErrNotFound,
			wantErr:  401,
		},
		{
			name:    "session revoked",
			claims:  claims,
			session: model.Session{ID: sessionID, UserID: userID, ExpiresAt: now.Add(time.Hour), RevokedAt: &revokedAt},
			wantErr: 401,
		},
		{
			name:    "session expired",
			claims:  claims,
			session: model.Session{ID: sessionID, UserID: userID, ExpiresAt: now.Add(-time.Second)},
			wantErr: 401,
		},
		{
			name:    "session of another user",
			claims:  claims,
			session: model.Session{ID: sessionID, UserID: uuid.New(), ExpiresAt: now.Add(time.Hour)},
			wantErr: 401,
		},
		{
			name:     "store failure",
			claims:   claims,
			storeErr: assert.AnError,
			wantErr:  500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := mocks.NewTokenManager(t)
			store := mocks.NewSessionStore(t)
			manager.On("ParseAccessToken", "access").Return(tt.claims, tt.parseErr).Once()
			if !tt.skipStore {
				store.On("GetByID", ctx, sessionID).Return(tt.session, tt.storeErr).Once()
			}

			identity, err := NewTokenService(manager, store, time.Hour, testutil.MakeNoopLogger()).Resolve(ctx, "access")
			switch tt.wantErr {
			case 0:
				require.NoError(t, err)
				assert.Equal(t, model.UserIdentity{ID: userID, SessionID: sessionID}, identity)
			case 500:
				require.ErrorIs(t, err, tt.storeErr)
			default:
				requireAPIError(t, err, tt.wantErr)
			}
		})
	}
}

func TestTokenService_RevokeByAccessToken(t *testing.T) {
	ctx := context.Background()
	sessionID := uuid.New()

	t.Run("revokes session", func(t *testing.T) {
		manager := mocks.NewTokenManager(t)
		store := mocks.NewSessionStore(t)
		manager.On("ParseAccessToken", "access").Return(model.AccessClaims{UserID: uuid.New(), SessionID: sessionID}, nil).Once()
		store.On("Revoke", ctx, sessionID).Return(true, nil).Once()

		require.NoError(t, NewTokenService(manager, store, time.Hour, testutil.MakeNoopLogger()).RevokeByAccessToken(ctx, "access"))
	})

	t.Run("ignores invalid token", func(t *testing.T) {
		manager := mocks.NewTokenManager(t)
		store := mocks.NewSessionStore(t)
		manager.On("ParseAccessToken", "junk").Return(model.AccessClaims{}, assert.AnError).Once()

		require.NoError(t, NewTokenService(manager, store, time.Hour, testutil.MakeNoopLogger()).RevokeByAccessToken(ctx, "junk"))
	})
}

func TestTokenService_RevokeAllForUser(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	manager := mocks.NewTokenManager(t)
	store := mocks.NewSessionStore(t)
	store.On("RevokeAllByUser", ctx, userID).Return(nil).Once()

	require.NoError(t, NewTokenService(manager, store, time.Hour, testutil.MakeNoopLogger()).RevokeAllForUser(ctx, userID))
}

// slowSessionStore delays session reads so concurrent refreshes overlap.
type slowSessionStore struct {
	*testutil.MemSessionStore
	delay time.Duration
}

func (s slowSessionStore) GetByJTI(ctx context.Context, jti string) (model.Session, error) {
	time.Sleep(s.delay)
	return s.MemSessionStore.GetByJTI(ctx, jti)
}

func TestTokenService_Refresh_ConcurrentRedemption(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	store := slowSessionStore{MemSessionStore: testutil.NewMemSessionStore(), delay: 5 * time.Millisecond}
	svc := NewTokenService(token.NewJWT("test-secret", time.Hour, time.Hour), store, time.Hour, testutil.MakeNoopLogger())

	issued, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	const callers = 32
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		rejected  atomic.Int32
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Refresh(ctx, issued.RefreshToken)
			var apiErr *model.APIError
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.As(err, &apiErr) && apiErr.Status == 401:
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(callers-1), rejected.Load())
}

func TestTokenService_Refresh_ReuseRevokesAllSessions(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	store := testutil.NewMemSessionStore()
	svc := NewTokenService(token.NewJWT("test-secret", time.Hour, time.Hour), store, time.Hour, testutil.MakeNoopLogger())

	first, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	other, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	_, err = svc.Resolve(ctx, rotated.AccessToken)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, first.RefreshToken)
	requireAPIError(t, err, 401)

	_, err = svc.Resolve(ctx, rotated.AccessToken)
	requireAPIError(t, err, 401)
	_, err = svc.Resolve(ctx, other.AccessToken)
	requireAPIError(t, err, 401)
	_, err = svc.Refresh(ctx, rotated.RefreshToken)
	requireAPIError(t, err, 401)
}

func TestTokenService_Refresh_AfterLogoutKeepsOtherSessions(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	store := testutil.NewMemSessionStore()
	svc := NewTokenService(token.NewJWT("test-secret", time.Hour, time.Hour), store, time.Hour, testutil.MakeNoopLogger())

	loggedOut, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	other, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeByAccessToken(ctx, loggedOut.AccessToken))

	_, err = svc.Refresh(ctx, loggedOut.RefreshToken)
	requireAPIError(t, err, 401)

	_, err = svc.Resolve(ctx, other.AccessToken)
	require.NoError(t, err)
}
