package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/cache"
	"github.com/spec-kit/account-service/internal/config"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/events"
	"github.com/spec-kit/account-service/internal/repository"
)

var (
	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords so callers cannot tell the cases apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidReset covers every reset confirmation failure: bad user ref,
	// unknown user, bad signature, stale window, changed password.
	ErrInvalidReset = errors.New("invalid or expired reset token")
)

// AccountService coordinates registration, login, profile and password flows.
type AccountService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	resets     *auth.ResetTokenCodec
	profiles   *cache.ProfileCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// AccountDependencies encapsulates collaborators for the account service.
type AccountDependencies struct {
	UserRepo     repository.UserRepository
	ProfileCache *cache.ProfileCache
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewAccountService builds the service.
func NewAccountService(cfg config.Config, deps AccountDependencies) *AccountService {
	return &AccountService{
		users:      deps.UserRepo,
		tokens:     auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), cfg.Auth.RefreshTokenTTL()),
		resets:     auth.NewResetTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.ResetTokenWindow()),
		profiles:   deps.ProfileCache,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates an account and mints a fresh token pair. Email uniqueness
// is left to the store so two concurrent registrations cannot both win.
func (s *AccountService) Register(ctx context.Context, email, name, password string, termsAccepted bool) (*domain.User, auth.TokenPair, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	user := &domain.User{
		Email:         NormalizeEmail(email),
		Name:          name,
		PasswordHash:  hash,
		TermsAccepted: termsAccepted,
		IsActive:      true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, auth.TokenPair{}, err
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Email: user.Email,
		Name:  user.Name,
	})
	return user, pair, nil
}

// Login authenticates by email and password.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.User, auth.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.TokenPair{}, ErrInvalidCredentials
		}
		return nil, auth.TokenPair{}, err
	}
	if !user.IsActive || !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, auth.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	return user, pair, nil
}

// Profile returns the public fields for a user id, served from the Redis
// cache when fresh.
func (s *AccountService) Profile(ctx context.Context, userID string) (domain.Profile, error) {
	if profile, ok := s.profiles.Get(ctx, userID); ok {
		return *profile, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}

	profile := user.PublicProfile()
	s.profiles.Set(ctx, profile)
	return profile, nil
}

// ChangePassword rehashes and persists the new password for an authenticated
// user. The hash change also invalidates every outstanding reset token.
func (s *AccountService) ChangePassword(ctx context.Context, user *domain.User, newPassword string) error {
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.profiles.Invalidate(ctx, user.ID)
	s.publish(ctx, events.EventPasswordChanged, user.ID, events.PasswordChangedPayload{Email: user.Email})
	return nil
}

// RequestPasswordReset issues a reset token for the account behind the email
// and hands it to the notification pipeline. It succeeds whether or not the
// email is registered; a miss is only visible in debug logs.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug("password reset requested for unknown email")
			return nil
		}
		return err
	}

	s.publish(ctx, events.EventPasswordResetRequested, user.ID, events.PasswordResetRequestedPayload{
		Email:   user.Email,
		Name:    user.Name,
		UserRef: auth.EncodeUserRef(user.ID),
		Token:   s.resets.IssueToken(user),
	})
	return nil
}

// ConfirmPasswordReset validates the user ref and token, then persists the
// new password. That single write is what revokes the token: a retry
// recomputes against the new hash and fails.
func (s *AccountService) ConfirmPasswordReset(ctx context.Context, userRef, token, newPassword string) error {
	userID, err := auth.DecodeUserRef(userRef)
	if err != nil {
		return ErrInvalidReset
	}
	// A ref can decode cleanly and still not be an id at all; never let such
	// input reach the store, where it would fail with a cast error instead of
	// a clean miss.
	if _, err := uuid.Parse(userID); err != nil {
		return ErrInvalidReset
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInvalidReset
		}
		return err
	}

	if !s.resets.CheckToken(user, token) {
		return ErrInvalidReset
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.profiles.Invalidate(ctx, user.ID)
	s.publish(ctx, events.EventPasswordChanged, user.ID, events.PasswordChangedPayload{Email: user.Email})
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AccountService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// ResetCodec exposes the reset token codec.
func (s *AccountService) ResetCodec() *auth.ResetTokenCodec {
	return s.resets
}

func (s *AccountService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

// NormalizeEmail trims whitespace and lowercases the domain part, keeping
// the local part intact.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}
