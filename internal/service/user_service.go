package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"streamlearn/internal/model"
	"streamlearn/internal/repository"
	"streamlearn/internal/util"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// NewUserInput is an admin-created account.
type NewUserInput struct {
	Name              string
	Email             string
	Password          string // optional; without one the user cannot sign in until a password is set
	IsAdmin           bool
	AccessibleCourses []int64
}

// UserService manages members from the admin panel and the admin CLI
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
	CreateUser(ctx context.Context, in NewUserInput) (*model.User, error)
	ToggleActive(ctx context.Context, userID string) (*model.User, error)
	SetActive(ctx context.Context, userID string, active bool) (*model.User, error)
	SetAdmin(ctx context.Context, userID string, admin bool) (*model.User, error)
	SetPassword(ctx context.Context, userID, password string) error
	ToggleCourseAccess(ctx context.Context, userID string, courseID int64) (*model.User, error)
	GrantCourse(ctx context.Context, userID string, courseID int64) (*model.User, error)
	RevokeCourse(ctx context.Context, userID string, courseID int64) (*model.User, error)
	ListSessions(ctx context.Context, userID string, limit int) ([]model.LoginSession, error)
}

type userService struct {
	users   repository.UserRepository
	courses repository.CourseRepository
	mailer  Mailer
	logger  zerolog.Logger
}

func NewUserService(users repository.UserRepository, courses repository.CourseRepository, mailer Mailer, logger zerolog.Logger) UserService {
	if mailer == nil {
		mailer = noopMailer{}
	}
	return &userService{
		users:   users,
		courses: courses,
		mailer:  mailer,
		logger:  logger.With().Str("service", "UserService").Logger(),
	}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.users.ListUsers(ctx)
}

func (s *userService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// CreateUser adds an active account with a zero login count.
func (s *userService) CreateUser(ctx context.Context, in NewUserInput) (*model.User, error) {
	u := &model.User{
		UserID:            uuid.NewString(),
		Name:              strings.TrimSpace(in.Name),
		Email:             normalizeEmail(in.Email),
		IsActive:          true,
		IsAdmin:           in.IsAdmin,
		AccessibleCourses: dedupe(in.AccessibleCourses),
	}
	if in.Password != "" {
		if len(in.Password) < util.MinPasswordLength {
			return nil, ErrWeakPassword
		}
		hash, err := util.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.Info().Str("user_id", u.UserID).Bool("is_admin", u.IsAdmin).Msg("User created")

	if err := s.mailer.QueueWelcome(ctx, u); err != nil {
		s.logger.Warn().Err(err).Str("user_id", u.UserID).Msg("Failed to queue welcome email")
	}
	return u, nil
}

func (s *userService) ToggleActive(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.SetActive(ctx, userID, !u.IsActive)
}

func (s *userService) SetActive(ctx context.Context, userID string, active bool) (*model.User, error) {
	if err := s.users.SetActive(ctx, userID, active); err != nil {
		return nil, mapUserErr(err)
	}
	return s.GetUser(ctx, userID)
}

func (s *userService) SetAdmin(ctx context.Context, userID string, admin bool) (*model.User, error) {
	if err := s.users.SetAdmin(ctx, userID, admin); err != nil {
		return nil, mapUserErr(err)
	}
	return s.GetUser(ctx, userID)
}

func (s *userService) SetPassword(ctx context.Context, userID, password string) error {
	if len(password) < util.MinPasswordLength {
		return ErrWeakPassword
	}
	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}
	return mapUserErr(s.users.SetPasswordHash(ctx, userID, hash))
}

// ToggleCourseAccess adds the course to the user's entitlements or removes it.
func (s *userService) ToggleCourseAccess(ctx context.Context, userID string, courseID int64) (*model.User, error) {
	return s.updateCourses(ctx, userID, courseID, s.users.ToggleCourse)
}

func (s *userService) GrantCourse(ctx context.Context, userID string, courseID int64) (*model.User, error) {
	return s.updateCourses(ctx, userID, courseID, s.users.GrantCourse)
}

func (s *userService) RevokeCourse(ctx context.Context, userID string, courseID int64) (*model.User, error) {
	return s.updateCourses(ctx, userID, courseID, s.users.RevokeCourse)
}

type courseUpdate func(ctx context.Context, userID string, courseID int64) (*model.User, error)

func (s *userService) updateCourses(ctx context.Context, userID string, courseID int64, apply courseUpdate) (*model.User, error) {
	course, err := s.courses.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	u, err := apply(ctx, userID, courseID)
	if err != nil {
		return nil, mapUserErr(err)
	}
	s.logger.Info().Str("user_id", userID).Int64("course_id", courseID).Bool("has_access", u.HasCourse(courseID)).Msg("Course access changed")
	return u, nil
}

func (s *userService) ListSessions(ctx context.Context, userID string, limit int) ([]model.LoginSession, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.users.ListSessions(ctx, userID, limit)
}

func mapUserErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func dedupe(ids []int64) []int64 {
	out := []int64{}
	seen := map[int64]bool{}
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
