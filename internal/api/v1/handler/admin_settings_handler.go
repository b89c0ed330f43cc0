package handler

import (
	"net/http"

	"streamlearn/internal/api/v1/dto"
	"streamlearn/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// SettingsHandler serves site settings, platform statistics and media uploads
type SettingsHandler struct {
	settingsService service.SettingsService
	statsService    service.StatsService
	mediaService    service.MediaService
	validate        *validator.Validate
	logger          zerolog.Logger
}

func NewSettingsHandler(
	settingsService service.SettingsService,
	statsService service.StatsService,
	mediaService service.MediaService,
	validate *validator.Validate,
	logger zerolog.Logger,
) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		statsService:    statsService,
		mediaService:    mediaService,
		validate:        validate,
		logger:          logger,
	}
}

// RegisterRoutes mounts the public branding route and the admin routes behind adminMw
func (h *SettingsHandler) RegisterRoutes(mux *http.ServeMux, adminMw func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /settings", h.getPublicSettings)
	mux.Handle("GET /admin/settings", adminMw(http.HandlerFunc(h.getSettings)))
	mux.Handle("PUT /admin/settings", adminMw(http.HandlerFunc(h.updateSettings)))
	mux.Handle("GET /admin/stats", adminMw(http.HandlerFunc(h.getStats)))
	mux.Handle("POST /admin/uploads", adminMw(http.HandlerFunc(h.createUpload)))
}

// getPublicSettings godoc
// @Summary Site branding
// @Description Name, logo, colours and the registration and maintenance switches. No session required.
// @Tags settings
// @Produce json
// @Success 200 {object} dto.PublicSettingsResponseDTO
// @Router /settings [get]
func (h *SettingsHandler) getPublicSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.settingsService.GetSettings(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to load settings")
		http.Error(w, "Failed to load settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPublicSettingsResponse(s))
}

// getSettings godoc
// @Summary Get site settings
// @Tags admin
// @Produce json
// @Success 200 {object} model.SiteSettings
// @Router /admin/settings [get]
func (h *SettingsHandler) getSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.settingsService.GetSettings(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to load settings")
		http.Error(w, "Failed to load settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// updateSettings godoc
// @Summary Replace site settings
// @Tags admin
// @Accept json
// @Produce json
// @Param settings body dto.SettingsUpdateDTO true "Settings"
// @Success 200 {object} model.SiteSettings
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Router /admin/settings [put]
func (h *SettingsHandler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req dto.SettingsUpdateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	s, err := h.settingsService.UpdateSettings(r.Context(), req.ToModel())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to update settings")
		http.Error(w, "Failed to update settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// getStats godoc
// @Summary Platform statistics
// @Tags admin
// @Produce json
// @Success 200 {object} model.AdminStats
// @Router /admin/stats [get]
func (h *SettingsHandler) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.GetStats(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to compute stats")
		http.Error(w, "Failed to compute stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// createUpload godoc
// @Summary Presign an image upload
// @Description Returns a URL to PUT the image to and the public URL to store on the course, topic, banner or site logo.
// @Tags admin
// @Accept json
// @Produce json
// @Param body body dto.UploadRequestDTO true "Upload request"
// @Success 201 {object} dto.UploadResponseDTO
// @Failure 400 {string} string "content type must be an image"
// @Failure 503 {string} string "object storage is not configured"
// @Router /admin/uploads [post]
func (h *SettingsHandler) createUpload(w http.ResponseWriter, r *http.Request) {
	var req dto.UploadRequestDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	up, err := h.mediaService.PresignUpload(r.Context(), req.Kind, req.ContentType)
	if err != nil {
		writeError(w, err, "Failed to create upload URL")
		return
	}
	writeJSON(w, http.StatusCreated, dto.UploadResponseDTO{
		UploadURL: up.UploadURL,
		ObjectKey: up.ObjectKey,
		PublicURL: up.PublicURL,
		ExpiresAt: up.ExpiresAt,
	})
}
