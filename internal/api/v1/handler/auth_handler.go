package handler

import (
	"net/http"
	"time"

	"streamlearn/internal/api/v1/dto"
	"streamlearn/internal/middleware"
	"streamlearn/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// AuthHandler handles sign-up, sign-in and sign-out
type AuthHandler struct {
	authService  service.AuthService
	validate     *validator.Validate
	cookieSecure bool
	logger       zerolog.Logger
}

func NewAuthHandler(authService service.AuthService, validate *validator.Validate, cookieSecure bool, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, validate: validate, cookieSecure: cookieSecure, logger: logger}
}

// RegisterRoutes mounts auth routes. Register and login are public.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /auth/register", h.register)
	mux.HandleFunc("POST /auth/login", h.login)
	mux.Handle("POST /auth/logout", authMw(http.HandlerFunc(h.logout)))
	mux.Handle("GET /auth/me", authMw(http.HandlerFunc(h.me)))
}

func loginMeta(r *http.Request) service.LoginMeta {
	return service.LoginMeta{IPAddress: clientIP(r), UserAgent: r.UserAgent()}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) writeAuthResult(w http.ResponseWriter, status int, res *service.AuthResult) {
	expires := res.Claims.ExpiresAt.Time
	h.setSessionCookie(w, res.Token, expires)
	writeJSON(w, status, dto.AuthResponseDTO{
		Token:     res.Token,
		ExpiresAt: expires,
		User:      dto.NewUserResponse(res.User),
	})
}

// register godoc
// @Summary Register a member account
// @Description Creates an account and signs it in. Fails when registration is disabled.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequestDTO true "Registration request"
// @Success 201 {object} dto.AuthResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 403 {string} string "registration is disabled"
// @Failure 409 {string} string "email is already registered"
// @Failure 500 {string} string "Failed to register"
// @Router /auth/register [post]
func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequestDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	res, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password, loginMeta(r))
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			h.logger.Error().Err(err).Msg("Failed to register")
		}
		writeError(w, err, "Failed to register")
		return
	}
	h.writeAuthResult(w, http.StatusCreated, res)
}

// login godoc
// @Summary Sign in
// @Description Verifies credentials, records the login and sets the session cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequestDTO true "Login request"
// @Success 200 {object} dto.AuthResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "invalid email or password"
// @Failure 403 {string} string "user account is inactive"
// @Failure 500 {string} string "Failed to sign in"
// @Router /auth/login [post]
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequestDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	res, err := h.authService.Login(r.Context(), req.Email, req.Password, loginMeta(r))
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			h.logger.Error().Err(err).Msg("Failed to sign in")
		}
		writeError(w, err, "Failed to sign in")
		return
	}
	h.writeAuthResult(w, http.StatusOK, res)
}

// logout godoc
// @Summary Sign out
// @Description Revokes the current token and clears the session cookie.
// @Tags auth
// @Success 204
// @Failure 401 {string} string "Unauthorized"
// @Failure 500 {string} string "Failed to sign out"
// @Router /auth/logout [post]
func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if err := h.authService.Logout(r.Context(), claims); err != nil {
		h.logger.Error().Err(err).Str("user_id", claims.Subject).Msg("Failed to sign out")
		http.Error(w, "Failed to sign out", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} dto.UserResponseDTO
// @Failure 401 {string} string "Unauthorized"
// @Router /auth/me [get]
func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	u, err := h.authService.Me(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err, "Failed to load user")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewUserResponse(u))
}
