package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/freelancehub/api/internal/core/domain"
	"github.com/freelancehub/api/internal/core/ports"
)

const maxPasswordBytes = 72

// LoginLimiter abstracts the failed-login lockout store (Redis).
type LoginLimiter interface {
	Locked(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// dummyHash is compared against when the username is unknown so both
// failure paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("freelancehub-dummy"), bcrypt.DefaultCost)

// AuthService implements registration, login and token validation.
type AuthService struct {
	repo      ports.AuthRepository
	limiter   LoginLimiter
	jwtSecret []byte
	tokenTTL  time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

type claims struct {
	jwt.RegisteredClaims
}

// NewAuthService returns an AuthService. A nil limiter disables lockout.
func NewAuthService(repo ports.AuthRepository, limiter LoginLimiter, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		limiter:   limiter,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		log:       log,
		now:       time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, domain.Required("username")
	}
	if strings.TrimSpace(password) == "" {
		return nil, domain.Required("password")
	}
	if len(password) > maxPasswordBytes {
		return nil, &domain.ValidationError{Field: "password", Reason: "must be at most 72 bytes"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", created.Username).Msg("user registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Token, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		locked, err := s.limiter.Locked(ctx, username)
		if err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("lockout check failed, continuing")
		} else if locked {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		s.recordFailure(ctx, username)
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("failed to clear lockout counter")
		}
	}

	return s.generateToken(user.Username)
}

// Validate checks signature, algorithm and expiry and returns the subject.
// Every failure collapses into domain.ErrUnauthorized.
func (s *AuthService) Validate(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthorized
	}

	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || c.Subject == "" {
		return "", domain.ErrUnauthorized
	}
	return c.Subject, nil
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
	}
}

func (s *AuthService) generateToken(username string) (*domain.Token, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	c := claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   username,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &domain.Token{Value: signed, Subject: username, ExpiresAt: expiresAt.UTC()}, nil
}
