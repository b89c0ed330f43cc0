package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"streamlearn/internal/model"
	"streamlearn/internal/session"
	"streamlearn/internal/util"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func issue(t *testing.T, userID string, isAdmin bool) (string, *util.Claims) {
	t.Helper()
	token, claims, err := util.IssueJWT(secret, util.TokenParams{UserID: userID, IsAdmin: isAdmin, TTL: time.Hour, Now: time.Now()})
	require.NoError(t, err)
	return token, claims
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(UserIDFromContext(r.Context())))
})

func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func TestAuthenticateFromHeaderAndCookie(t *testing.T) {
	store := session.NewMemoryStore()
	h := chain(okHandler, Authenticate(secret, store, zerolog.Nop()), RequireAuth("/login"))
	token, _ := issue(t, "u1", false)

	req := httptest.NewRequest(http.MethodGet, "/courses", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/courses", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	store := session.NewMemoryStore()
	h := chain(okHandler, Authenticate(secret, store, zerolog.Nop()), RequireAuth("/login"))

	tests := []struct {
		name     string
		method   string
		accept   string
		token    string
		wantCode int
		wantLoc  string
	}{
		{name: "api call", method: http.MethodGet, accept: "application/json", wantCode: http.StatusUnauthorized},
		{name: "page load", method: http.MethodGet, accept: "text/html,application/xhtml+xml", wantCode: http.StatusSeeOther, wantLoc: "/login?next=%2Fcourses%3Fpage%3D2"},
		{name: "form post", method: http.MethodPost, accept: "text/html", wantCode: http.StatusUnauthorized},
		{name: "bad token page load", method: http.MethodGet, accept: "text/html", token: "garbage", wantCode: http.StatusSeeOther, wantLoc: "/login?next=%2Fcourses%3Fpage%3D2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/courses?page=2", nil)
			req.Header.Set("Accept", tt.accept)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantLoc != "" {
				assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
			}
		})
	}
}

func TestRequireAuthRedirectKeepsMountPrefix(t *testing.T) {
	store := session.NewMemoryStore()
	api := http.NewServeMux()
	api.Handle("GET /dashboard", chain(okHandler, Authenticate(secret, store, zerolog.Nop()), RequireAuth("/login")))
	root := http.NewServeMux()
	root.Handle("/v1/", http.StripPrefix("/v1", api))

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard?tab=progress", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	root.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Fv1%2Fdashboard%3Ftab%3Dprogress", rec.Header().Get("Location"))
}

func TestAuthenticateIgnoresRevokedToken(t *testing.T) {
	store := session.NewMemoryStore()
	token, claims := issue(t, "u1", false)
	require.NoError(t, store.Revoke(context.Background(), claims.ID, time.Hour))

	h := chain(okHandler, Authenticate(secret, store, zerolog.Nop()), RequireAuth("/login"))
	req := httptest.NewRequest(http.MethodGet, "/courses", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type failingStore struct{}

func (failingStore) Revoke(context.Context, string, time.Duration) error { return nil }
func (failingStore) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func TestAuthenticateRevocationStoreError(t *testing.T) {
	token, _ := issue(t, "u1", false)
	h := chain(okHandler, Authenticate(secret, failingStore{}, zerolog.Nop()))
	req := httptest.NewRequest(http.MethodGet, "/courses", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type usersByID map[string]*model.User

func (u usersByID) GetUserByID(_ context.Context, id string) (*model.User, error) {
	return u[id], nil
}

func TestRequireAdmin(t *testing.T) {
	users := usersByID{
		"admin":  {UserID: "admin", IsAdmin: true, IsActive: true},
		"member": {UserID: "member", IsActive: true},
		// token still says admin, database says otherwise
		"demoted": {UserID: "demoted", IsActive: true},
	}
	store := session.NewMemoryStore()
	h := chain(okHandler,
		Authenticate(secret, store, zerolog.Nop()),
		RequireAuth("/login"),
		RequireAdmin(users, "/dashboard", zerolog.Nop()),
	)

	tests := []struct {
		name     string
		userID   string
		tokenAdm bool
		accept   string
		wantCode int
		wantLoc  string
	}{
		{name: "admin api", userID: "admin", tokenAdm: true, wantCode: http.StatusOK},
		{name: "member api", userID: "member", wantCode: http.StatusForbidden},
		{name: "member page", userID: "member", accept: "text/html", wantCode: http.StatusSeeOther, wantLoc: "/dashboard"},
		{name: "demoted admin", userID: "demoted", tokenAdm: true, wantCode: http.StatusForbidden},
		{name: "unknown user", userID: "ghost", wantCode: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, _ := issue(t, tt.userID, tt.tokenAdm)
			req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantLoc != "" {
				assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
			}
		})
	}
}

type staticSettings struct{ s model.SiteSettings }

func (s staticSettings) GetSettings(context.Context) (*model.SiteSettings, error) {
	c := s.s
	return &c, nil
}

func TestMaintenance(t *testing.T) {
	settings := staticSettings{s: model.SiteSettings{MaintenanceMode: true}}
	users := usersByID{
		"admin":    {UserID: "admin", IsAdmin: true, IsActive: true},
		"member":   {UserID: "member", IsActive: true},
		"demoted":  {UserID: "demoted", IsActive: true},
		"disabled": {UserID: "disabled", IsAdmin: true},
	}
	store := session.NewMemoryStore()
	h := chain(okHandler,
		Authenticate(secret, store, zerolog.Nop()),
		Maintenance(settings, users, zerolog.Nop(), "/auth/"),
	)

	memberToken, _ := issue(t, "member", false)
	adminToken, _ := issue(t, "admin", true)
	demotedToken, _ := issue(t, "demoted", true)
	disabledToken, _ := issue(t, "disabled", true)

	do := func(path, token string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusServiceUnavailable, do("/courses", memberToken))
	assert.Equal(t, http.StatusServiceUnavailable, do("/courses", ""))
	assert.Equal(t, http.StatusOK, do("/courses", adminToken))
	assert.Equal(t, http.StatusServiceUnavailable, do("/courses", demotedToken), "token admin claim is not trusted")
	assert.Equal(t, http.StatusServiceUnavailable, do("/courses", disabledToken))
	assert.Equal(t, http.StatusOK, do("/auth/login", ""))

	open := chain(okHandler, Maintenance(staticSettings{}, users, zerolog.Nop()))
	rec := httptest.NewRecorder()
	open.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/courses", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoggerMiddlewareKeepsStatus(t *testing.T) {
	h := LoggerMiddleware(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
