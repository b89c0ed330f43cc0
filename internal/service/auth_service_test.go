package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"streamlearn/internal/email"
	"streamlearn/internal/model"
	"streamlearn/internal/pubsub"
	"streamlearn/internal/session"
	"streamlearn/internal/util"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	svc      AuthService
	users    *fakeUserRepo
	settings *fakeSettingsRepo
	revoked  *session.MemoryStore
	events   *recordingSink
	queue    *recordingQueue
}

func newAuthFixture(t *testing.T, users ...*model.User) *authFixture {
	t.Helper()
	f := &authFixture{
		users:    newFakeUserRepo(users...),
		settings: newFakeSettingsRepo(),
		revoked:  session.NewMemoryStore(),
		events:   &recordingSink{},
		queue:    &recordingQueue{},
	}
	mailer := NewMailer(f.queue, "email_queue", f.settings, zerolog.Nop())
	f.svc = NewAuthService(f.users, f.settings, f.revoked, f.events, mailer, "test-secret", time.Hour, zerolog.Nop())
	return f
}

func memberWithPassword(t *testing.T, id, email, password string) *model.User {
	t.Helper()
	hash, err := util.HashPassword(password)
	require.NoError(t, err)
	return &model.User{UserID: id, Name: "Member", Email: email, PasswordHash: hash, IsActive: true, AccessibleCourses: []int64{}}
}

func TestRegisterCreatesMemberAndSignsIn(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	res, err := f.svc.Register(ctx, " Ana ", "Ana@Example.com", "secret1", LoginMeta{IPAddress: "10.0.0.1", UserAgent: "test"})
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", res.User.Email)
	assert.Equal(t, "Ana", res.User.Name)
	assert.True(t, res.User.IsActive)
	assert.False(t, res.User.IsAdmin)
	assert.Empty(t, res.User.AccessibleCourses)
	assert.Equal(t, 1, res.User.LoginCount)

	claims, err := util.ValidateJWT(res.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, res.User.UserID, claims.Subject)
	assert.Equal(t, res.SessionID, claims.SessionID)
	assert.False(t, claims.IsAdmin)

	stored, _ := f.users.GetUserByID(ctx, res.User.UserID)
	assert.Equal(t, 1, stored.LoginCount)
	require.NotNil(t, stored.IPAddress)
	assert.Equal(t, "10.0.0.1", *stored.IPAddress)

	assert.Equal(t, []string{pubsub.EventUserRegistered, pubsub.EventUserLoggedIn}, f.events.types())

	require.Len(t, f.queue.payloads, 1)
	var msg email.Message
	require.NoError(t, json.Unmarshal(f.queue.payloads[0], &msg))
	assert.Equal(t, "ana@example.com", msg.To)
}

func TestRegisterRejections(t *testing.T) {
	ctx := context.Background()

	f := newAuthFixture(t, memberWithPassword(t, "u1", "taken@example.com", "secret1"))
	_, err := f.svc.Register(ctx, "X", "taken@example.com", "secret1", LoginMeta{})
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)

	_, err = f.svc.Register(ctx, "X", "new@example.com", "123", LoginMeta{})
	assert.ErrorIs(t, err, ErrWeakPassword)

	f.settings.settings.RegistrationEnabled = false
	_, err = f.svc.Register(ctx, "X", "other@example.com", "secret1", LoginMeta{})
	assert.ErrorIs(t, err, ErrRegistrationClosed)
}

func TestRegisterSkipsWelcomeEmailWhenDisabled(t *testing.T) {
	f := newAuthFixture(t)
	f.settings.settings.EmailNotifications = false

	_, err := f.svc.Register(context.Background(), "Ana", "ana@example.com", "secret1", LoginMeta{})
	require.NoError(t, err)
	assert.Empty(t, f.queue.payloads)
}

func TestRegisterLeavesNoAccountWhenFirstLoginFails(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.users.loginErr = errors.New("connection reset")
	_, err := f.svc.Register(ctx, "Ana", "ana@example.com", "secret1", LoginMeta{})
	require.Error(t, err)

	existing, err := f.users.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Nil(t, existing)
	assert.Empty(t, f.events.types())
	assert.Empty(t, f.queue.payloads)

	f.users.loginErr = nil
	res, err := f.svc.Register(ctx, "Ana", "ana@example.com", "secret1", LoginMeta{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.User.LoginCount)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	inactive := memberWithPassword(t, "u2", "off@example.com", "secret1")
	inactive.IsActive = false
	f := newAuthFixture(t, memberWithPassword(t, "u1", "ana@example.com", "secret1"), inactive)

	_, err := f.svc.Login(ctx, "nobody@example.com", "secret1", LoginMeta{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, "ana@example.com", "wrong", LoginMeta{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, "off@example.com", "secret1", LoginMeta{})
	assert.ErrorIs(t, err, ErrUserInactive)

	res, err := f.svc.Login(ctx, "ANA@example.com", "secret1", LoginMeta{IPAddress: "1.2.3.4", UserAgent: "ua"})
	require.NoError(t, err)
	assert.Equal(t, "u1", res.User.UserID)
	assert.Equal(t, 1, res.User.LoginCount)

	sessions, err := f.users.ListSessions(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, res.Claims.ID, sessions[0].TokenID)
	assert.Equal(t, "ua", sessions[0].UserAgent)
	assert.Equal(t, []string{pubsub.EventUserLoggedIn}, f.events.types())
}

func TestLogoutRevokesTokenAndClosesSession(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, memberWithPassword(t, "u1", "ana@example.com", "secret1"))

	res, err := f.svc.Login(ctx, "ana@example.com", "secret1", LoginMeta{})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, res.Claims))

	revoked, err := f.revoked.IsRevoked(ctx, res.Claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	sessions, _ := f.users.ListSessions(ctx, "u1", 10)
	require.Len(t, sessions, 1)
	assert.False(t, sessions[0].IsActive)
	assert.NotNil(t, sessions[0].LogoutTime)

	assert.NoError(t, f.svc.Logout(ctx, nil))
}

func TestMe(t *testing.T) {
	f := newAuthFixture(t, memberWithPassword(t, "u1", "ana@example.com", "secret1"))
	u, err := f.svc.Me(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)

	_, err = f.svc.Me(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
