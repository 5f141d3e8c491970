package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/jobtracker-server/internal/api/http/response"
	"github.com/dtroode/jobtracker-server/internal/logger"
	"github.com/dtroode/jobtracker-server/internal/model"
)

const bearerPrefix = "Bearer "

// TokenResolver resolves a bearer token to the identity it was issued for.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (model.UserIdentity, error)
}

// Authenticate validates bearer tokens and injects user ID into context.
type Authenticate struct {
	resolver       TokenResolver
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(resolver TokenResolver, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{resolver: resolver, contextManager: contextManager, logger: logger}
}

// Identify extracts the bearer token from r and resolves it.
func (m *Authenticate) Identify(r *http.Request) (model.UserIdentity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return model.UserIdentity{}, model.NewErrMissingAuthorizationToken()
	}

	token, ok := strings.CutPrefix(header, bearerPrefix)
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return model.UserIdentity{}, model.NewErrInvalidAuthorizationToken()
	}

	identity, err := m.resolver.ResolveToken(r.Context(), token)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			return model.UserIdentity{}, model.NewErrInvalidAuthorizationToken()
		}
		return model.UserIdentity{}, err
	}

	if identity.ID == uuid.Nil {
		return model.UserIdentity{}, model.NewErrInvalidAuthorizationToken()
	}

	return identity, nil
}

// Handler rejects requests without a valid bearer token.
func (m *Authenticate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.Identify(r)
		if err != nil {
			var apiErr *model.APIError
			if errors.As(err, &apiErr) {
				response.WriteError(w, apiErr.Status, apiErr.Message)
				return
			}
			m.logger.Error("Authenticate middleware: failed to resolve token",
				"path", r.URL.Path,
				"error", err.Error())
			response.WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		ctx := m.contextManager.SetUserIDToContext(r.Context(), identity.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
