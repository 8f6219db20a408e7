package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shelfwise/library-system/internal/core/domain"
	"github.com/shelfwise/library-system/internal/core/ports"
	"github.com/shelfwise/library-system/pkg/password"
	"github.com/shelfwise/library-system/pkg/token"
)

// LoginLimiter abstracts the per-username attempt throttle (Redis).
type LoginLimiter interface {
	Allow(ctx context.Context, username string) error
}

// AuditRecorder receives security events without blocking the request path.
type AuditRecorder interface {
	Record(username, action, outcome string, at time.Time)
}

// AuthService implements registration, login and refresh-token exchange.
type AuthService struct {
	repo    ports.UserRepository
	hasher  *password.Hasher
	codec   *token.Codec
	limiter LoginLimiter
	audit   AuditRecorder
	logger  zerolog.Logger
}

// NewAuthService wires the auth core. limiter and audit may be nil; both are
// optional collaborators.
func NewAuthService(repo ports.UserRepository, hasher *password.Hasher, codec *token.Codec, limiter LoginLimiter, audit AuditRecorder, logger zerolog.Logger) *AuthService {
	return &AuthService{
		repo:    repo,
		hasher:  hasher,
		codec:   codec,
		limiter: limiter,
		audit:   audit,
		logger:  logger,
	}
}

// Register creates a new account. The role is taken verbatim from the caller,
// including "administrator" — registration does not restrict role assignment.
func (s *AuthService) Register(ctx context.Context, username, email, plaintext string, role domain.Role) (*domain.User, error) {
	if username == "" || plaintext == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		ModifiedAt:   now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.record(username, "register", "success")
	s.logger.Info().Str("username", username).Str("role", string(role)).Msg("user registered")
	return created, nil
}

// Login verifies credentials and issues an access + refresh token pair.
// A missing user and a wrong password produce the identical error so callers
// cannot enumerate usernames from the response.
func (s *AuthService) Login(ctx context.Context, username, plaintext string) (*ports.TokenPair, error) {
	if username == "" || plaintext == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.Allow(ctx, username); err != nil {
			if errors.Is(err, domain.ErrTooManyAttempts) {
				s.record(username, "login", "throttled")
				return nil, err
			}
			// Throttle store down: let the attempt through rather than
			// locking everyone out.
			s.logger.Warn().Err(err).Str("username", username).Msg("login limiter unavailable")
		}
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.record(username, "login", "failure")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(plaintext, user.PasswordHash) {
		s.record(username, "login", "failure")
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	s.record(username, "login", "success")
	s.logger.Info().Str("username", username).Msg("login succeeded")
	return pair, nil
}

// Refresh exchanges a valid refresh token for a fresh access + refresh pair.
// The user is re-read so a deleted account or changed role invalidates
// outstanding refresh tokens; the old refresh token itself is not blacklisted
// and stays usable until its own expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	claims, err := s.codec.Decode(refreshToken)
	if err != nil {
		s.record("", "refresh", "failure")
		return nil, domain.ErrInvalidRefreshToken
	}
	if claims.Kind != token.KindRefresh {
		s.record(claims.Subject, "refresh", "failure")
		return nil, domain.ErrInvalidRefreshToken
	}

	user, err := s.repo.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.record(claims.Subject, "refresh", "failure")
			return nil, domain.ErrInvalidRefreshToken
		}
		return nil, err
	}
	if string(user.Role) != claims.Role {
		s.record(claims.Subject, "refresh", "failure")
		return nil, domain.ErrInvalidRefreshToken
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	s.record(claims.Subject, "refresh", "success")
	return pair, nil
}

// issuePair mints both tokens or neither.
func (s *AuthService) issuePair(user *domain.User) (*ports.TokenPair, error) {
	access, err := s.codec.Encode(user.Username, string(user.Role), token.KindAccess)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.codec.Encode(user.Username, string(user.Role), token.KindRefresh)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &ports.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

func (s *AuthService) record(username, action, outcome string) {
	if s.audit != nil {
		s.audit.Record(username, action, outcome, time.Now().UTC())
	}
}
