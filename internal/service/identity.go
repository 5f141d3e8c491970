package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/jobtracker-server/internal/logger"
	"github.com/dtroode/jobtracker-server/internal/model"
)

// bcrypt ignores input past this length.
const maxPasswordBytes = 72

// CredentialPolicy configures password hashing and acceptance rules.
type CredentialPolicy struct {
	BcryptCost        int
	MinPasswordLength int
}

// Identity is the self-hosted identity provider: it stores users with
// bcrypt password hashes and issues session-backed bearer tokens.
type Identity struct {
	userStore    model.UserStore
	tokenService *TokenService
	policy       CredentialPolicy
	validate     *validator.Validate
	logger       *logger.Logger
}

var _ model.IdentityProvider = (*Identity)(nil)

func NewIdentity(
	userStore model.UserStore,
	tokenService *TokenService,
	policy CredentialPolicy,
	logger *logger.Logger,
) *Identity {
	return &Identity{
		userStore:    userStore,
		tokenService: tokenService,
		policy:       policy,
		validate:     newValidator(),
		logger:       logger,
	}
}

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (a *Identity) SignUp(ctx context.Context, email, password string) (model.User, error) {
	email = normalizeEmail(email)

	a.logger.Debug("Identity service: starting user registration",
		"email", email)

	if email == "" || password == "" {
		return model.User{}, model.NewErrValidation("Email and Password are required")
	}
	if err := a.validate.StructCtx(ctx, credentials{Email: email, Password: password}); err != nil {
		return model.User{}, validationError(err)
	}
	if len(password) < a.policy.MinPasswordLength {
		return model.User{}, model.NewErrValidation(
			fmt.Sprintf("Password must be at least %d characters long", a.policy.MinPasswordLength))
	}
	if len(password) > maxPasswordBytes {
		return model.User{}, model.NewErrValidation(
			fmt.Sprintf("Password must be at most %d bytes long", maxPasswordBytes))
	}

	_, err := a.userStore.GetByEmail(ctx, email)
	if err == nil {
		a.logger.Info("Identity service: user already exists",
			"email", email)
		return model.User{}, model.NewErrEmailIsTaken(email)
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Identity service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.policy.BcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrAlreadyExists) {
		return model.User{}, model.NewErrEmailIsTaken(email)
	}
	if err != nil {
		a.logger.Error("Identity service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Identity service: user registration completed",
		"user_id", user.ID)

	return user, nil
}

func (a *Identity) SignIn(ctx context.Context, email, password string) (model.User, model.AuthSession, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return model.User{}, model.AuthSession{}, model.NewErrValidation("Email and password are required")
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.AuthSession{}, model.NewErrInvalidCredentials()
	}
	if err != nil {
		return model.User{}, model.AuthSession{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		a.logger.Info("Identity service: password mismatch",
			"user_id", user.ID)
		return model.User{}, model.AuthSession{}, model.NewErrInvalidCredentials()
	}

	session, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		return model.User{}, model.AuthSession{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Identity service: login completed",
		"user_id", user.ID)

	return user, session, nil
}

// SignOut revokes the session behind accessToken. An empty or unverifiable
// token is a no-op.
func (a *Identity) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	if err := a.tokenService.RevokeByAccessToken(ctx, accessToken); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (a *Identity) Refresh(ctx context.Context, refreshToken string) (model.AuthSession, error) {
	if refreshToken == "" {
		return model.AuthSession{}, model.NewErrValidation("refresh_token is required")
	}
	return a.tokenService.Refresh(ctx, refreshToken)
}

func (a *Identity) ResolveToken(ctx context.Context, accessToken string) (model.UserIdentity, error) {
	return a.tokenService.Resolve(ctx, accessToken)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
