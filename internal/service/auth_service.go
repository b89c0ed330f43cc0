package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"streamlearn/internal/model"
	"streamlearn/internal/pubsub"
	"streamlearn/internal/repository"
	"streamlearn/internal/session"
	"streamlearn/internal/util"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LoginMeta describes where a sign-in came from.
type LoginMeta struct {
	IPAddress string
	UserAgent string
}

// AuthResult is returned after a successful register or login.
type AuthResult struct {
	Token     string
	Claims    *util.Claims
	User      *model.User
	SessionID int64
}

// AuthService handles member sign-up, sign-in and sign-out
type AuthService interface {
	Register(ctx context.Context, name, email, password string, meta LoginMeta) (*AuthResult, error)
	Login(ctx context.Context, email, password string, meta LoginMeta) (*AuthResult, error)
	Logout(ctx context.Context, claims *util.Claims) error
	Me(ctx context.Context, userID string) (*model.User, error)
}

type authService struct {
	users     repository.UserRepository
	settings  repository.SettingsRepository
	revoked   session.RevocationStore
	events    EventSink
	mailer    Mailer
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
	logger    zerolog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	settings repository.SettingsRepository,
	revoked session.RevocationStore,
	events EventSink,
	mailer Mailer,
	jwtSecret string,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) AuthService {
	if mailer == nil {
		mailer = noopMailer{}
	}
	return &authService{
		users:     users,
		settings:  settings,
		revoked:   revoked,
		events:    sinkOrNoop(events),
		mailer:    mailer,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       time.Now,
		logger:    logger.With().Str("service", "AuthService").Logger(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an active, non-admin member with no entitlements and signs them in.
func (s *authService) Register(ctx context.Context, name, email, password string, meta LoginMeta) (*AuthResult, error) {
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if !settings.RegistrationEnabled {
		return nil, ErrRegistrationClosed
	}
	if len(password) < util.MinPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		UserID:            uuid.NewString(),
		Name:              strings.TrimSpace(name),
		Email:             normalizeEmail(email),
		PasswordHash:      hash,
		IsActive:          true,
		AccessibleCourses: []int64{},
	}
	// The account and its first login commit together, so a failed sign-in
	// leaves nothing behind and the same email can register again.
	sess := s.newSession(u, meta)
	if err := s.users.CreateUserWithLogin(ctx, u, sess); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyRegistered
		}
		s.logger.Error().Err(err).Msg("Failed to create user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.events.Emit(ctx, pubsub.Event{Type: pubsub.EventUserRegistered, UserID: u.UserID})
	if err := s.mailer.QueueWelcome(ctx, u); err != nil {
		s.logger.Warn().Err(err).Str("user_id", u.UserID).Msg("Failed to queue welcome email")
	}

	return s.issueToken(ctx, u, sess)
}

// Login verifies credentials and registers the login.
func (s *authService) Login(ctx context.Context, email, password string, meta LoginMeta) (*AuthResult, error) {
	u, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if u == nil || !util.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrUserInactive
	}
	return s.signIn(ctx, u, meta)
}

func (s *authService) newSession(u *model.User, meta LoginMeta) *model.LoginSession {
	return &model.LoginSession{
		UserID:    u.UserID,
		TokenID:   uuid.NewString(),
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		LoginTime: s.now().UTC(),
	}
}

func (s *authService) signIn(ctx context.Context, u *model.User, meta LoginMeta) (*AuthResult, error) {
	sess := s.newSession(u, meta)
	if err := s.users.RegisterLogin(ctx, sess); err != nil {
		s.logger.Error().Err(err).Str("user_id", u.UserID).Msg("Failed to register login")
		return nil, fmt.Errorf("failed to register login: %w", err)
	}
	return s.issueToken(ctx, u, sess)
}

// issueToken mirrors the registered login onto u and signs its JWT.
func (s *authService) issueToken(ctx context.Context, u *model.User, sess *model.LoginSession) (*AuthResult, error) {
	now := sess.LoginTime
	u.LoginCount++
	u.LastLogin = &now
	if sess.IPAddress != "" {
		ip := sess.IPAddress
		u.IPAddress = &ip
	}

	token, claims, err := util.IssueJWT(s.jwtSecret, util.TokenParams{
		TokenID:   sess.TokenID,
		UserID:    u.UserID,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		SessionID: sess.ID,
		TTL:       s.tokenTTL,
		Now:       now,
	})
	if err != nil {
		return nil, err
	}

	s.events.Emit(ctx, pubsub.Event{
		Type:   pubsub.EventUserLoggedIn,
		UserID: u.UserID,
		Data:   map[string]any{"session_id": sess.ID, "ip_address": sess.IPAddress},
	})
	return &AuthResult{Token: token, Claims: claims, User: u, SessionID: sess.ID}, nil
}

// Logout closes the session row and revokes the token until it would expire.
func (s *authService) Logout(ctx context.Context, claims *util.Claims) error {
	if claims == nil {
		return nil
	}
	now := s.now()
	if claims.SessionID != 0 {
		if err := s.users.EndSession(ctx, claims.SessionID, claims.Subject, now.UTC()); err != nil {
			return fmt.Errorf("failed to end session: %w", err)
		}
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.TTL(now)); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *authService) Me(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}
