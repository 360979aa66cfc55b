package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleetdeck/config"
	"fleetdeck/internal/database"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const SESSION_CACHE_PREFIX = "session:"

// ErrSessionExpired distinguishes an expired or revoked session from a
// malformed token, so handlers can tell the user to sign in again.
var ErrSessionExpired = errors.New("session expired")

// SessionService issues and validates HS256 session tokens. Active sessions
// are mirrored in the session cache so logout can revoke a token before its
// expiry.
type SessionService struct {
	db     database.DB
	secret []byte
	ttl    time.Duration
	log    logger.Logger
}

type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

type TokenInfo struct {
	UserID    uuid.UUID
	SessionID string
	Valid     bool
}

func NewSessionService(config config.Config, db database.DB) (*SessionService, error) {
	log := logger.New("SessionService")

	if config.SessionSecret == "" {
		return nil, log.ErrMsg("session secret required but not provided")
	}

	return &SessionService{
		db:     db,
		secret: []byte(config.SessionSecret),
		ttl:    time.Duration(config.SessionTTLHours) * time.Hour,
		log:    log,
	}, nil
}

// IssueToken creates a signed token for the user and records the session id
// in the cache; tokens whose session id is absent are treated as revoked.
func (s *SessionService) IssueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	log := s.log.Function("IssueToken")

	now := time.Now()
	sessionID := uuid.New().String()

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		SessionID: sessionID,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", log.Err("failed to sign session token", err, "userID", userID)
	}

	if err := database.NewCacheBuilder(s.db.Cache.Session, SESSION_CACHE_PREFIX+sessionID).
		WithValue(userID.String()).
		WithTTL(s.ttl).
		WithContext(ctx).
		Set(); err != nil {
		return "", log.Err("failed to record session", err, "userID", userID)
	}

	return token, nil
}

// ValidateToken verifies signature and expiry, then checks the session has
// not been revoked.
func (s *SessionService) ValidateToken(ctx context.Context, tokenString string) (*TokenInfo, error) {
	log := s.log.Function("ValidateToken")

	token, err := jwt.ParseWithClaims(
		tokenString,
		&SessionClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, log.ErrMsg("unexpected signing method")
			}
			return s.secret, nil
		},
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return &TokenInfo{Valid: false}, fmt.Errorf("%w: %w", ErrSessionExpired, err)
		}
		return &TokenInfo{Valid: false}, log.Err("session token verification failed", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return &TokenInfo{Valid: false}, log.ErrMsg("session token is invalid")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return &TokenInfo{Valid: false}, log.Err("failed to parse token subject", err)
	}

	var cached string
	found, err := database.NewCacheBuilder(s.db.Cache.Session, SESSION_CACHE_PREFIX+claims.SessionID).
		WithContext(ctx).
		Get(&cached)
	if err != nil {
		// Cache trouble is not a reason to kick everyone out; the signature
		// already proved the token
		log.Warn("session cache lookup failed", "error", err)
	} else if !found {
		return &TokenInfo{Valid: false}, ErrSessionExpired
	}

	return &TokenInfo{
		UserID:    userID,
		SessionID: claims.SessionID,
		Valid:     true,
	}, nil
}

// RevokeSession drops the session from the cache, invalidating its token.
func (s *SessionService) RevokeSession(ctx context.Context, sessionID string) error {
	log := s.log.Function("RevokeSession")

	if err := database.NewCacheBuilder(s.db.Cache.Session, SESSION_CACHE_PREFIX+sessionID).
		WithContext(ctx).
		Delete(); err != nil {
		return log.Err("failed to revoke session", err, "sessionID", sessionID)
	}

	return nil
}

// HashPassword produces a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a candidate password against the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
