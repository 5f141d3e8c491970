package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/jobtracker-server/internal/api/http/response"
	"github.com/dtroode/jobtracker-server/internal/logger"
	"github.com/dtroode/jobtracker-server/internal/model"
)

// IdentityProvider defines the account and session operations exposed over HTTP.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string) (model.User, error)
	SignIn(ctx context.Context, email, password string) (model.User, model.AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
	Refresh(ctx context.Context, refreshToken string) (model.AuthSession, error)
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	identity IdentityProvider
	logger   *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(identity IdentityProvider, logger *logger.Logger) *Auth {
	return &Auth{identity: identity, logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type sessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
}

type signUpResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type signInResponse struct {
	Message string          `json:"message"`
	User    userResponse    `json:"user"`
	Session sessionResponse `json:"session"`
}

type refreshResponse struct {
	Message string          `json:"message"`
	Session sessionResponse `json:"session"`
}

func toUserResponse(user model.User) userResponse {
	return userResponse{ID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt}
}

func toSessionResponse(session model.AuthSession) sessionResponse {
	expiresIn := int64(time.Until(session.ExpiresAt).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}
	return sessionResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		TokenType:    "bearer",
		ExpiresIn:    expiresIn,
		ExpiresAt:    session.ExpiresAt.Unix(),
	}
}

// SignUp registers a new account.
func (h *Auth) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, err)
		return
	}

	user, err := h.identity.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Info("Auth handler: signup failed",
			"error", err.Error())
		handleError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, signUpResponse{
		Message: "User created successfully",
		User:    toUserResponse(user),
	})
}

// SignIn exchanges credentials for a token pair.
func (h *Auth) SignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, err)
		return
	}

	user, session, err := h.identity.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Info("Auth handler: login failed",
			"error", err.Error())
		handleError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, signInResponse{
		Message: "Login successful",
		User:    toUserResponse(user),
		Session: toSessionResponse(session),
	})
}

// SignOut ends the session of the presented bearer token, if any.
func (h *Auth) SignOut(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))

	if err := h.identity.SignOut(r.Context(), token); err != nil {
		h.logger.Error("Auth handler: logout failed",
			"error", err.Error())
		handleError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, response.MessageBody{Message: "Logged out successfully"})
}

// Refresh rotates a refresh token.
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, err)
		return
	}

	session, err := h.identity.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.logger.Info("Auth handler: refresh failed",
			"error", err.Error())
		handleError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, refreshResponse{
		Message: "Token refreshed successfully",
		Session: toSessionResponse(session),
	})
}
