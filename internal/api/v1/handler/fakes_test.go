package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"streamlearn/internal/middleware"
	"streamlearn/internal/model"
	"streamlearn/internal/service"
	"streamlearn/internal/util"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

var testValidate = validator.New(validator.WithRequiredStructEnabled())

// passthrough stands in for the auth middleware chain.
func passthrough(next http.Handler) http.Handler { return next }

// serve routes req through mux as userID. An empty userID sends it anonymously.
func serve(t *testing.T, mux *http.ServeMux, req *http.Request, userID string) *httptest.ResponseRecorder {
	t.Helper()
	if userID != "" {
		claims := &util.Claims{
			SessionID: 7,
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "token-" + userID,
				Subject:   userID,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		req = req.WithContext(middleware.WithClaims(req.Context(), claims))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

type fakeAuthService struct {
	registerErr error
	loginErr    error
	lastMeta    service.LoginMeta
	loggedOut   *util.Claims
	users       map[string]*model.User
}

func (f *fakeAuthService) result(email string) *service.AuthResult {
	u := &model.User{UserID: "u-1", Name: "Ana", Email: email, IsActive: true}
	return &service.AuthResult{
		Token: "signed.jwt.token",
		Claims: &util.Claims{RegisteredClaims: jwt.RegisteredClaims{
			ID:        "tok-1",
			Subject:   u.UserID,
			ExpiresAt: jwt.NewNumericDate(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)),
		}},
		User:      u,
		SessionID: 1,
	}
}

func (f *fakeAuthService) Register(_ context.Context, _, email, _ string, meta service.LoginMeta) (*service.AuthResult, error) {
	f.lastMeta = meta
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.result(email), nil
}

func (f *fakeAuthService) Login(_ context.Context, email, _ string, meta service.LoginMeta) (*service.AuthResult, error) {
	f.lastMeta = meta
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.result(email), nil
}

func (f *fakeAuthService) Logout(_ context.Context, claims *util.Claims) error {
	f.loggedOut = claims
	return nil
}

func (f *fakeAuthService) Me(_ context.Context, userID string) (*model.User, error) {
	if u, ok := f.users[userID]; ok {
		return u, nil
	}
	return nil, service.ErrUserNotFound
}

// fakeCourseService implements only what the member handlers call.
type fakeCourseService struct {
	service.CourseService
	views  []model.CourseView
	detail *service.CourseDetail
	topic  *service.TopicDetail
	err    error
}

func (f *fakeCourseService) ListForUser(context.Context, string) ([]model.CourseView, error) {
	return f.views, f.err
}

func (f *fakeCourseService) GetCourseDetail(context.Context, string, int64) (*service.CourseDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

func (f *fakeCourseService) GetTopicDetail(context.Context, string, int64) (*service.TopicDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.topic, nil
}

type progressCall struct {
	userID    string
	lessonID  int64
	watchTime int
	complete  bool
}

type fakeProgressService struct {
	calls []progressCall
	err   error
}

func (f *fakeProgressService) CompleteLesson(_ context.Context, userID string, lessonID int64, watchTime int) (*service.ProgressResult, error) {
	f.calls = append(f.calls, progressCall{userID: userID, lessonID: lessonID, watchTime: watchTime, complete: true})
	if f.err != nil {
		return nil, f.err
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &service.ProgressResult{LessonID: lessonID, TopicID: 10, CourseID: 1, IsCompleted: true, CompletedAt: &now, TopicProgress: 50, CourseProgress: 75}, nil
}

func (f *fakeProgressService) UncompleteLesson(_ context.Context, userID string, lessonID int64) (*service.ProgressResult, error) {
	f.calls = append(f.calls, progressCall{userID: userID, lessonID: lessonID})
	if f.err != nil {
		return nil, f.err
	}
	return &service.ProgressResult{LessonID: lessonID, TopicID: 10, CourseID: 1, TopicProgress: 0, CourseProgress: 50}, nil
}

type fakeDashboardService struct {
	dashboard *service.Dashboard
	at        time.Time
}

func (f *fakeDashboardService) GetDashboard(_ context.Context, _ string, now time.Time) (*service.Dashboard, error) {
	f.at = now
	return f.dashboard, nil
}

type fakeUserService struct {
	service.UserService
	users   map[string]*model.User
	created *service.NewUserInput
	toggled []string
}

func (f *fakeUserService) GetUser(_ context.Context, userID string) (*model.User, error) {
	if u, ok := f.users[userID]; ok {
		return u, nil
	}
	return nil, service.ErrUserNotFound
}

func (f *fakeUserService) CreateUser(_ context.Context, in service.NewUserInput) (*model.User, error) {
	f.created = &in
	return &model.User{UserID: "new", Name: in.Name, Email: in.Email, IsActive: true, IsAdmin: in.IsAdmin, AccessibleCourses: in.AccessibleCourses}, nil
}

func (f *fakeUserService) ToggleActive(ctx context.Context, userID string) (*model.User, error) {
	f.toggled = append(f.toggled, userID)
	u, err := f.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.IsActive = !u.IsActive
	return u, nil
}

func (f *fakeUserService) SetAdmin(ctx context.Context, userID string, admin bool) (*model.User, error) {
	u, err := f.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.IsAdmin = admin
	return u, nil
}

func (f *fakeUserService) GrantCourse(ctx context.Context, userID string, courseID int64) (*model.User, error) {
	u, err := f.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.HasCourse(courseID) {
		u.ToggleCourse(courseID)
	}
	return u, nil
}

type fakeNotificationService struct {
	service.NotificationService
	created *model.Notification
}

func (f *fakeNotificationService) CreateNotification(_ context.Context, n *model.Notification) (*model.Notification, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	n.NotificationID = 1
	f.created = n
	return n, nil
}

type fakeSettingsService struct {
	settings *model.SiteSettings
}

func (f *fakeSettingsService) GetSettings(context.Context) (*model.SiteSettings, error) {
	return f.settings, nil
}

func (f *fakeSettingsService) UpdateSettings(_ context.Context, s *model.SiteSettings) (*model.SiteSettings, error) {
	f.settings = s
	return s, nil
}

func nopLogger() zerolog.Logger { return zerolog.Nop() }
