package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/jobtracker-server/internal/model"
)

// Claims represents JWT claims with token type, user ID and session ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"user_id"`
	SessionID uuid.UUID `json:"sid,omitempty"`
	TokenType string    `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWT creates a new JWT token manager with the provided secret key and lifetimes.
func NewJWT(secretKey string, accessTTL, refreshTTL time.Duration) *JWT {
	return &JWT{secretKey: secretKey, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

var _ model.TokenManager = (*JWT)(nil)

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// RefreshTTL returns the lifetime of refresh tokens.
func (j *JWT) RefreshTTL() time.Duration {
	return j.refreshTTL
}

// GenerateAccessToken creates a short-lived access token bound to a session.
func (j *JWT) GenerateAccessToken(userID, sessionID uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(j.accessTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:    userID,
		SessionID: sessionID,
		TokenType: typeAccess,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// GenerateRefreshToken creates a long-lived refresh token and returns its JTI.
func (j *JWT) GenerateRefreshToken(userID uuid.UUID) (string, string, error) {
	now := time.Now()
	jti := uuid.NewString()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.refreshTTL)),
		},
		UserID:    userID,
		TokenType: typeRefresh,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return tokenString, jti, nil
}

// ParseAccessToken validates an access token and extracts its user and session IDs.
func (j *JWT) ParseAccessToken(tokenString string) (model.AccessClaims, error) {
	claims, err := j.parse(tokenString, typeAccess)
	if err != nil {
		return model.AccessClaims{}, fmt.Errorf("failed to parse access token: %w", err)
	}
	return model.AccessClaims{UserID: claims.UserID, SessionID: claims.SessionID}, nil
}

// ParseRefreshToken validates and extracts the user ID and JTI from a refresh token.
func (j *JWT) ParseRefreshToken(tokenString string) (uuid.UUID, string, error) {
	claims, err := j.parse(tokenString, typeRefresh)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("failed to parse refresh token: %w", err)
	}
	return claims.UserID, claims.ID, nil
}

func (j *JWT) parse(tokenString, tokenType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}
	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}
	return claims, nil
}
