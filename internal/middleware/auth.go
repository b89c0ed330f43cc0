package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"streamlearn/internal/session"
	"streamlearn/internal/util"

	"github.com/rs/zerolog"
)

// Injected key type to avoid context collisions
type contextKey string

const ClaimsContextKey = contextKey("claims")

// SessionCookieName is the HttpOnly cookie carrying the token for browser clients.
const SessionCookieName = "session"

// ClaimsFromContext returns the verified token claims, if any.
func ClaimsFromContext(ctx context.Context) (*util.Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*util.Claims)
	return claims, ok && claims != nil
}

// UserIDFromContext returns the authenticated user's ID, or "".
func UserIDFromContext(ctx context.Context) string {
	if claims, ok := ClaimsFromContext(ctx); ok {
		return claims.Subject
	}
	return ""
}

// WithClaims stores claims in ctx.
func WithClaims(ctx context.Context, claims *util.Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

func tokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// Authenticate resolves the token from the Authorization header or the session
// cookie and stores its claims in the request context. Requests without a valid,
// unrevoked token continue anonymously; RequireAuth decides what to do with them.
func Authenticate(jwtSecret string, revoked session.RevocationStore, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := tokenFromRequest(r)
			if tokenString == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := util.ValidateJWT(tokenString, jwtSecret)
			if err != nil {
				logger.Debug().Err(err).Msg("Invalid token")
				next.ServeHTTP(w, r)
				return
			}
			isRevoked, err := revoked.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to check token revocation")
				http.Error(w, "Failed to verify session", http.StatusInternalServerError)
				return
			}
			if isRevoked {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// isNavigation reports whether the request is a browser page load rather than an API call.
func isNavigation(r *http.Request) bool {
	return (r.Method == http.MethodGet || r.Method == http.MethodHead) &&
		strings.Contains(r.Header.Get("Accept"), "text/html")
}

// originalURI is the path and query the client asked for. Unlike r.URL it is
// not rewritten by http.StripPrefix. Absolute-form targets are ignored.
func originalURI(r *http.Request) string {
	if strings.HasPrefix(r.RequestURI, "/") && !strings.HasPrefix(r.RequestURI, "//") {
		return r.RequestURI
	}
	return r.URL.RequestURI()
}

// RequireAuth rejects anonymous requests. Page loads are redirected to loginPath
// with the original path in "next"; API calls get 401.
func RequireAuth(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := ClaimsFromContext(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}
			if isNavigation(r) {
				target := loginPath + "?next=" + url.QueryEscape(originalURI(r))
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			http.Error(w, "Unauthorized: authentication required", http.StatusUnauthorized)
		})
	}
}
