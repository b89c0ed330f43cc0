package handler

import (
	"net/http"
	"strconv"

	"streamlearn/internal/api/v1/dto"
	"streamlearn/internal/middleware"
	"streamlearn/internal/model"
	"streamlearn/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// AdminUserHandler manages member accounts and their course entitlements
type AdminUserHandler struct {
	userService service.UserService
	validate    *validator.Validate
	logger      zerolog.Logger
}

func NewAdminUserHandler(userService service.UserService, validate *validator.Validate, logger zerolog.Logger) *AdminUserHandler {
	return &AdminUserHandler{userService: userService, validate: validate, logger: logger}
}

// RegisterRoutes mounts admin user routes behind adminMw
func (h *AdminUserHandler) RegisterRoutes(mux *http.ServeMux, adminMw func(http.Handler) http.Handler) {
	mux.Handle("GET /admin/users", adminMw(http.HandlerFunc(h.listUsers)))
	mux.Handle("POST /admin/users", adminMw(http.HandlerFunc(h.createUser)))
	mux.Handle("GET /admin/users/{userId}", adminMw(http.HandlerFunc(h.getUser)))
	mux.Handle("PATCH /admin/users/{userId}", adminMw(http.HandlerFunc(h.updateUser)))
	mux.Handle("POST /admin/users/{userId}/toggle-active", adminMw(http.HandlerFunc(h.toggleActive)))
	mux.Handle("GET /admin/users/{userId}/sessions", adminMw(http.HandlerFunc(h.listSessions)))
	mux.Handle("POST /admin/users/{userId}/courses/{courseId}/toggle", adminMw(http.HandlerFunc(h.toggleCourse)))
	mux.Handle("PUT /admin/users/{userId}/courses/{courseId}", adminMw(http.HandlerFunc(h.grantCourse)))
	mux.Handle("DELETE /admin/users/{userId}/courses/{courseId}", adminMw(http.HandlerFunc(h.revokeCourse)))
}

func (h *AdminUserHandler) writeUser(w http.ResponseWriter, status int, u *model.User, err error, failMsg string) {
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			h.logger.Error().Err(err).Msg(failMsg)
		}
		writeError(w, err, failMsg)
		return
	}
	writeJSON(w, status, dto.NewUserResponse(u))
}

// isSelf blocks admins from locking themselves out.
func isSelf(r *http.Request, userID string) bool {
	return middleware.UserIDFromContext(r.Context()) == userID
}

// listUsers godoc
// @Summary List users
// @Tags admin
// @Produce json
// @Success 200 {array} dto.UserResponseDTO
// @Failure 403 {string} string "Forbidden"
// @Router /admin/users [get]
func (h *AdminUserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list users")
		http.Error(w, "Failed to list users", http.StatusInternalServerError)
		return
	}
	resp := make([]dto.UserResponseDTO, 0, len(users))
	for i := range users {
		resp = append(resp, dto.NewUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// createUser godoc
// @Summary Create a user
// @Description Admin-created accounts start active with a login count of 0. A welcome email is queued when enabled.
// @Tags admin
// @Accept json
// @Produce json
// @Param body body dto.AdminUserCreateDTO true "New user"
// @Success 201 {object} dto.UserResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 409 {string} string "email is already registered"
// @Router /admin/users [post]
func (h *AdminUserHandler) createUser(w http.ResponseWriter, r *http.Request) {
	var req dto.AdminUserCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	u, err := h.userService.CreateUser(r.Context(), service.NewUserInput{
		Name:              req.Name,
		Email:             req.Email,
		Password:          req.Password,
		IsAdmin:           req.IsAdmin,
		AccessibleCourses: req.AccessibleCourses,
	})
	h.writeUser(w, http.StatusCreated, u, err, "Failed to create user")
}

// getUser godoc
// @Summary Get a user
// @Tags admin
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} dto.UserResponseDTO
// @Failure 404 {string} string "user not found"
// @Router /admin/users/{userId} [get]
func (h *AdminUserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.userService.GetUser(r.Context(), r.PathValue("userId"))
	h.writeUser(w, http.StatusOK, u, err, "Failed to retrieve user")
}

// updateUser godoc
// @Summary Update account flags
// @Description Sets the active flag, the admin flag or the password. Admins cannot change their own flags.
// @Tags admin
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param body body dto.AdminUserUpdateDTO true "Fields to change"
// @Success 200 {object} dto.UserResponseDTO
// @Failure 400 {string} string "Validation failed"
// @Failure 404 {string} string "user not found"
// @Router /admin/users/{userId} [patch]
func (h *AdminUserHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	var req dto.AdminUserUpdateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	if (req.IsActive != nil || req.IsAdmin != nil) && isSelf(r, userID) {
		http.Error(w, "You cannot change your own account flags", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	if req.Password != nil {
		if err := h.userService.SetPassword(ctx, userID, *req.Password); err != nil {
			writeError(w, err, "Failed to update user")
			return
		}
	}
	if req.IsActive != nil {
		if _, err := h.userService.SetActive(ctx, userID, *req.IsActive); err != nil {
			writeError(w, err, "Failed to update user")
			return
		}
	}
	if req.IsAdmin != nil {
		if _, err := h.userService.SetAdmin(ctx, userID, *req.IsAdmin); err != nil {
			writeError(w, err, "Failed to update user")
			return
		}
	}
	u, err := h.userService.GetUser(ctx, userID)
	h.writeUser(w, http.StatusOK, u, err, "Failed to update user")
}

// toggleActive godoc
// @Summary Toggle a user's active flag
// @Tags admin
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} dto.UserResponseDTO
// @Failure 400 {string} string "You cannot deactivate yourself"
// @Failure 404 {string} string "user not found"
// @Router /admin/users/{userId}/toggle-active [post]
func (h *AdminUserHandler) toggleActive(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if isSelf(r, userID) {
		http.Error(w, "You cannot deactivate yourself", http.StatusBadRequest)
		return
	}
	u, err := h.userService.ToggleActive(r.Context(), userID)
	h.writeUser(w, http.StatusOK, u, err, "Failed to update user")
}

// listSessions godoc
// @Summary Recent login sessions
// @Tags admin
// @Produce json
// @Param userId path string true "User ID"
// @Param limit query int false "Maximum rows (default 20)"
// @Success 200 {array} dto.LoginSessionResponseDTO
// @Router /admin/users/{userId}/sessions [get]
func (h *AdminUserHandler) listSessions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	sessions, err := h.userService.ListSessions(r.Context(), r.PathValue("userId"), limit)
	if err != nil {
		writeError(w, err, "Failed to list sessions")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewLoginSessionResponses(sessions))
}

// toggleCourse godoc
// @Summary Toggle a course entitlement
// @Tags admin
// @Produce json
// @Param userId path string true "User ID"
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.UserResponseDTO
// @Failure 404 {string} string "user or course not found"
// @Router /admin/users/{userId}/courses/{courseId}/toggle [post]
func (h *AdminUserHandler) toggleCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	u, err := h.userService.ToggleCourseAccess(r.Context(), r.PathValue("userId"), courseID)
	h.writeUser(w, http.StatusOK, u, err, "Failed to update course access")
}

// grantCourse godoc
// @Summary Grant a course entitlement
// @Tags admin
// @Produce json
// @Param userId path string true "User ID"
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.UserResponseDTO
// @Router /admin/users/{userId}/courses/{courseId} [put]
func (h *AdminUserHandler) grantCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	u, err := h.userService.GrantCourse(r.Context(), r.PathValue("userId"), courseID)
	h.writeUser(w, http.StatusOK, u, err, "Failed to grant course access")
}

// revokeCourse godoc
// @Summary Revoke a course entitlement
// @Tags admin
// @Produce json
// @Param userId path string true "User ID"
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.UserResponseDTO
// @Router /admin/users/{userId}/courses/{courseId} [delete]
func (h *AdminUserHandler) revokeCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	u, err := h.userService.RevokeCourse(r.Context(), r.PathValue("userId"), courseID)
	h.writeUser(w, http.StatusOK, u, err, "Failed to revoke course access")
}
