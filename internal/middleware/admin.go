package middleware

import (
	"context"
	"net/http"
	"strings"

	"streamlearn/internal/model"

	"github.com/rs/zerolog"
)

// UserLookup loads the current state of a user.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// SettingsLookup loads the site settings.
type SettingsLookup interface {
	GetSettings(ctx context.Context) (*model.SiteSettings, error)
}

// RequireAdmin lets through active administrators only. The admin flag is read
// from the database on every request so a revoked admin loses access at once.
// Must run after RequireAuth.
func RequireAdmin(users UserLookup, dashboardPath string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := UserIDFromContext(r.Context())
			u, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				logger.Error().Err(err).Str("user_id", userID).Msg("Failed to load user for admin check")
				http.Error(w, "Failed to verify permissions", http.StatusInternalServerError)
				return
			}
			if isActiveAdmin(u) {
				next.ServeHTTP(w, r)
				return
			}
			if isNavigation(r) {
				http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
				return
			}
			http.Error(w, "Forbidden: administrator access required", http.StatusForbidden)
		})
	}
}

func isActiveAdmin(u *model.User) bool {
	return u != nil && u.IsAdmin && u.IsActive
}

// Maintenance answers 503 to non-admin requests while maintenance mode is on.
// As in RequireAdmin, admin status comes from the database, not the token.
// Paths with an exempt prefix (sign-in, health) are always served.
func Maintenance(settings SettingsLookup, users UserLookup, logger zerolog.Logger, exemptPrefixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range exemptPrefixes {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}
			s, err := settings.GetSettings(r.Context())
			if err != nil {
				logger.Error().Err(err).Msg("Failed to load site settings")
				next.ServeHTTP(w, r)
				return
			}
			if s.MaintenanceMode && !adminBypass(r, users, logger) {
				w.Header().Set("Retry-After", "300")
				http.Error(w, "Service unavailable: maintenance in progress", http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func adminBypass(r *http.Request, users UserLookup, logger zerolog.Logger) bool {
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		return false
	}
	u, err := users.GetUserByID(r.Context(), userID)
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to load user for maintenance check")
		return false
	}
	return isActiveAdmin(u)
}
