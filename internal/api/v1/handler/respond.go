package handler

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"streamlearn/internal/model"
	"streamlearn/internal/service"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// decodeAndValidate reads a JSON body into req and runs its validate tags.
// It writes a 400 and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, validate *validator.Validate, req any) bool {
	if err := decodeJSONBody(w, r, req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return false
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// pathID parses a numeric path wildcard, writing a 400 when it is not one.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrTopicNotFound),
		errors.Is(err, service.ErrLessonNotFound),
		errors.Is(err, service.ErrBannerNotFound),
		errors.Is(err, service.ErrNotificationNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrCourseLocked),
		errors.Is(err, service.ErrUserInactive),
		errors.Is(err, service.ErrRegistrationClosed):
		return http.StatusForbidden
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		return http.StatusConflict
	case errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrInvalidUploadKind),
		errors.Is(err, service.ErrInvalidContentType),
		errors.Is(err, model.ErrEmptyMessage),
		errors.Is(err, model.ErrInvalidType),
		errors.Is(err, model.ErrButtonIncomplete):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrStorageUnconfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the mapped status. Internal errors get the
// generic message so driver details are not leaked.
func writeError(w http.ResponseWriter, err error, internalMsg string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		http.Error(w, internalMsg, status)
		return
	}
	http.Error(w, err.Error(), status)
}

// clientIP prefers the first X-Forwarded-For hop, as set by Cloud Run.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
