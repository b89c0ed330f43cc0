package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"streamlearn/internal/api/v1/dto"
	"streamlearn/internal/middleware"
	"streamlearn/internal/model"
	"streamlearn/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthMux(svc *fakeAuthService) *http.ServeMux {
	mux := http.NewServeMux()
	NewAuthHandler(svc, testValidate, true, nopLogger()).RegisterRoutes(mux, passthrough)
	return mux
}

func sessionCookie(t *testing.T, res *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range res.Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", middleware.SessionCookieName)
	return nil
}

func TestRegisterSetsSessionCookie(t *testing.T) {
	svc := &fakeAuthService{}
	req := jsonRequest(http.MethodPost, "/auth/register", `{"name":"Ana","email":"ana@example.com","password":"secret1"}`)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	req.Header.Set("User-Agent", "test-agent")

	rec := serve(t, newAuthMux(svc), req, "")

	require.Equal(t, http.StatusCreated, rec.Code)
	var body dto.AuthResponseDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "signed.jwt.token", body.Token)
	assert.Equal(t, "ana@example.com", body.User.Email)
	assert.Equal(t, []int64{}, body.User.AccessibleCourses)

	cookie := sessionCookie(t, rec.Result())
	assert.Equal(t, "signed.jwt.token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, "/", cookie.Path)

	assert.Equal(t, service.LoginMeta{IPAddress: "203.0.113.9", UserAgent: "test-agent"}, svc.lastMeta)
}

func TestRegisterErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{name: "registration closed", body: `{"name":"Ana","email":"ana@example.com","password":"secret1"}`, err: service.ErrRegistrationClosed, want: http.StatusForbidden},
		{name: "duplicate email", body: `{"name":"Ana","email":"ana@example.com","password":"secret1"}`, err: service.ErrEmailAlreadyRegistered, want: http.StatusConflict},
		{name: "short password", body: `{"name":"Ana","email":"ana@example.com","password":"123"}`, want: http.StatusBadRequest},
		{name: "bad email", body: `{"name":"Ana","email":"not-an-email","password":"secret1"}`, want: http.StatusBadRequest},
		{name: "malformed json", body: `{"name":`, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAuthService{registerErr: tt.err}
			rec := serve(t, newAuthMux(svc), jsonRequest(http.MethodPost, "/auth/register", tt.body), "")
			assert.Equal(t, tt.want, rec.Code)
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestLoginErrors(t *testing.T) {
	body := `{"email":"ana@example.com","password":"secret1"}`

	rec := serve(t, newAuthMux(&fakeAuthService{loginErr: service.ErrInvalidCredentials}), jsonRequest(http.MethodPost, "/auth/login", body), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(t, newAuthMux(&fakeAuthService{loginErr: service.ErrUserInactive}), jsonRequest(http.MethodPost, "/auth/login", body), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLoginSucceeds(t *testing.T) {
	svc := &fakeAuthService{}
	req := jsonRequest(http.MethodPost, "/auth/login", `{"email":"ana@example.com","password":"secret1"}`)
	req.RemoteAddr = "198.51.100.4:5555"

	rec := serve(t, newAuthMux(svc), req, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "signed.jwt.token", sessionCookie(t, rec.Result()).Value)
	assert.Equal(t, "198.51.100.4", svc.lastMeta.IPAddress)
}

func TestLogoutClearsCookie(t *testing.T) {
	svc := &fakeAuthService{}
	rec := serve(t, newAuthMux(svc), jsonRequest(http.MethodPost, "/auth/logout", ""), "u-1")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, svc.loggedOut)
	assert.Equal(t, "u-1", svc.loggedOut.Subject)
	assert.Equal(t, int64(7), svc.loggedOut.SessionID)
	cookie := sessionCookie(t, rec.Result())
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}

func TestLogoutWithoutSession(t *testing.T) {
	rec := serve(t, newAuthMux(&fakeAuthService{}), jsonRequest(http.MethodPost, "/auth/logout", ""), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe(t *testing.T) {
	svc := &fakeAuthService{users: map[string]*model.User{"u-1": {UserID: "u-1", Name: "Ana", AccessibleCourses: []int64{2}}}}

	rec := serve(t, newAuthMux(svc), jsonRequest(http.MethodGet, "/auth/me", ""), "u-1")
	require.Equal(t, http.StatusOK, rec.Code)
	var body dto.UserResponseDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []int64{2}, body.AccessibleCourses)

	rec = serve(t, newAuthMux(svc), jsonRequest(http.MethodGet, "/auth/me", ""), "ghost")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMeBehindRequireAuth(t *testing.T) {
	mux := http.NewServeMux()
	NewAuthHandler(&fakeAuthService{}, testValidate, false, nopLogger()).RegisterRoutes(mux, middleware.RequireAuth("/login"))

	rec := serve(t, mux, jsonRequest(http.MethodGet, "/auth/me", ""), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := jsonRequest(http.MethodGet, "/auth/me", "")
	req.Header.Set("Accept", "text/html")
	rec = serve(t, mux, req, "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Fauth%2Fme", rec.Header().Get("Location"))
}
