package handler

import (
	"net/http"

	"streamlearn/internal/api/v1/dto"
	"streamlearn/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// AdminContentHandler manages dashboard banners and site notifications
type AdminContentHandler struct {
	bannerService       service.BannerService
	notificationService service.NotificationService
	validate            *validator.Validate
	logger              zerolog.Logger
}

func NewAdminContentHandler(
	bannerService service.BannerService,
	notificationService service.NotificationService,
	validate *validator.Validate,
	logger zerolog.Logger,
) *AdminContentHandler {
	return &AdminContentHandler{
		bannerService:       bannerService,
		notificationService: notificationService,
		validate:            validate,
		logger:              logger,
	}
}

// RegisterRoutes mounts banner and notification routes behind adminMw
func (h *AdminContentHandler) RegisterRoutes(mux *http.ServeMux, adminMw func(http.Handler) http.Handler) {
	mux.Handle("GET /admin/banners", adminMw(http.HandlerFunc(h.listBanners)))
	mux.Handle("POST /admin/banners", adminMw(http.HandlerFunc(h.createBanner)))
	mux.Handle("PUT /admin/banners/{bannerId}", adminMw(http.HandlerFunc(h.updateBanner)))
	mux.Handle("POST /admin/banners/{bannerId}/toggle", adminMw(http.HandlerFunc(h.toggleBanner)))
	mux.Handle("DELETE /admin/banners/{bannerId}", adminMw(http.HandlerFunc(h.deleteBanner)))

	mux.Handle("GET /admin/notifications", adminMw(http.HandlerFunc(h.listNotifications)))
	mux.Handle("POST /admin/notifications", adminMw(http.HandlerFunc(h.createNotification)))
	mux.Handle("PUT /admin/notifications/{notificationId}", adminMw(http.HandlerFunc(h.updateNotification)))
	mux.Handle("POST /admin/notifications/{notificationId}/toggle", adminMw(http.HandlerFunc(h.toggleNotification)))
	mux.Handle("DELETE /admin/notifications/{notificationId}", adminMw(http.HandlerFunc(h.deleteNotification)))
}

func (h *AdminContentHandler) fail(w http.ResponseWriter, err error, msg string) {
	if statusFor(err) == http.StatusInternalServerError {
		h.logger.Error().Err(err).Msg(msg)
	}
	writeError(w, err, msg)
}

// listBanners godoc
// @Summary List all banners
// @Tags admin
// @Produce json
// @Success 200 {array} dto.BannerResponseDTO
// @Router /admin/banners [get]
func (h *AdminContentHandler) listBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := h.bannerService.ListBanners(r.Context())
	if err != nil {
		h.fail(w, err, "Failed to list banners")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewBannerResponses(banners))
}

// createBanner godoc
// @Summary Create a banner
// @Description Title and description are required. The button label defaults when empty.
// @Tags admin
// @Accept json
// @Produce json
// @Param banner body dto.BannerCreateDTO true "Banner"
// @Success 201 {object} dto.BannerResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Router /admin/banners [post]
func (h *AdminContentHandler) createBanner(w http.ResponseWriter, r *http.Request) {
	var req dto.BannerCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	created, err := h.bannerService.CreateBanner(r.Context(), req.ToModel())
	if err != nil {
		h.fail(w, err, "Failed to create banner")
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewBannerResponse(created))
}

// updateBanner godoc
// @Summary Replace a banner
// @Description The active flag is kept when omitted.
// @Tags admin
// @Accept json
// @Produce json
// @Param bannerId path int true "Banner ID"
// @Param banner body dto.BannerCreateDTO true "Banner"
// @Success 200 {object} dto.BannerResponseDTO
// @Failure 404 {string} string "banner not found"
// @Router /admin/banners/{bannerId} [put]
func (h *AdminContentHandler) updateBanner(w http.ResponseWriter, r *http.Request) {
	bannerID, ok := pathID(w, r, "bannerId")
	if !ok {
		return
	}
	var req dto.BannerCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	existing, err := h.bannerService.GetBanner(r.Context(), bannerID)
	if err != nil {
		h.fail(w, err, "Failed to update banner")
		return
	}
	b := req.ToModel()
	b.BannerID = bannerID
	if req.IsActive == nil {
		b.IsActive = existing.IsActive
	}
	updated, err := h.bannerService.UpdateBanner(r.Context(), b)
	if err != nil {
		h.fail(w, err, "Failed to update banner")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewBannerResponse(updated))
}

// toggleBanner godoc
// @Summary Toggle a banner's active flag
// @Tags admin
// @Produce json
// @Param bannerId path int true "Banner ID"
// @Success 200 {object} dto.BannerResponseDTO
// @Failure 404 {string} string "banner not found"
// @Router /admin/banners/{bannerId}/toggle [post]
func (h *AdminContentHandler) toggleBanner(w http.ResponseWriter, r *http.Request) {
	bannerID, ok := pathID(w, r, "bannerId")
	if !ok {
		return
	}
	b, err := h.bannerService.ToggleBanner(r.Context(), bannerID)
	if err != nil {
		h.fail(w, err, "Failed to toggle banner")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewBannerResponse(b))
}

// deleteBanner godoc
// @Summary Delete a banner
// @Tags admin
// @Param bannerId path int true "Banner ID"
// @Success 204
// @Failure 404 {string} string "banner not found"
// @Router /admin/banners/{bannerId} [delete]
func (h *AdminContentHandler) deleteBanner(w http.ResponseWriter, r *http.Request) {
	bannerID, ok := pathID(w, r, "bannerId")
	if !ok {
		return
	}
	if err := h.bannerService.DeleteBanner(r.Context(), bannerID); err != nil {
		h.fail(w, err, "Failed to delete banner")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listNotifications godoc
// @Summary List all notifications
// @Tags admin
// @Produce json
// @Success 200 {array} dto.NotificationResponseDTO
// @Router /admin/notifications [get]
func (h *AdminContentHandler) listNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.notificationService.ListNotifications(r.Context())
	if err != nil {
		h.fail(w, err, "Failed to list notifications")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewNotificationResponses(notifications))
}

// createNotification godoc
// @Summary Create a notification
// @Description Message is Markdown; notifications are active unless stated otherwise.
// @Tags admin
// @Accept json
// @Produce json
// @Param notification body dto.NotificationCreateDTO true "Notification"
// @Success 201 {object} dto.NotificationResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Router /admin/notifications [post]
func (h *AdminContentHandler) createNotification(w http.ResponseWriter, r *http.Request) {
	var req dto.NotificationCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	created, err := h.notificationService.CreateNotification(r.Context(), req.ToModel())
	if err != nil {
		h.fail(w, err, "Failed to create notification")
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewNotificationResponse(created))
}

// updateNotification godoc
// @Summary Replace a notification
// @Description The active flag is kept when omitted.
// @Tags admin
// @Accept json
// @Produce json
// @Param notificationId path int true "Notification ID"
// @Param notification body dto.NotificationCreateDTO true "Notification"
// @Success 200 {object} dto.NotificationResponseDTO
// @Failure 404 {string} string "notification not found"
// @Router /admin/notifications/{notificationId} [put]
func (h *AdminContentHandler) updateNotification(w http.ResponseWriter, r *http.Request) {
	notificationID, ok := pathID(w, r, "notificationId")
	if !ok {
		return
	}
	var req dto.NotificationCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	existing, err := h.notificationService.GetNotification(r.Context(), notificationID)
	if err != nil {
		h.fail(w, err, "Failed to update notification")
		return
	}
	n := req.ToModel()
	n.NotificationID = notificationID
	if req.IsActive == nil {
		n.IsActive = existing.IsActive
	}
	updated, err := h.notificationService.UpdateNotification(r.Context(), n)
	if err != nil {
		h.fail(w, err, "Failed to update notification")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewNotificationResponse(updated))
}

// toggleNotification godoc
// @Summary Toggle a notification's active flag
// @Tags admin
// @Produce json
// @Param notificationId path int true "Notification ID"
// @Success 200 {object} dto.NotificationResponseDTO
// @Failure 404 {string} string "notification not found"
// @Router /admin/notifications/{notificationId}/toggle [post]
func (h *AdminContentHandler) toggleNotification(w http.ResponseWriter, r *http.Request) {
	notificationID, ok := pathID(w, r, "notificationId")
	if !ok {
		return
	}
	n, err := h.notificationService.ToggleNotification(r.Context(), notificationID)
	if err != nil {
		h.fail(w, err, "Failed to toggle notification")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewNotificationResponse(n))
}

// deleteNotification godoc
// @Summary Delete a notification
// @Tags admin
// @Param notificationId path int true "Notification ID"
// @Success 204
// @Failure 404 {string} string "notification not found"
// @Router /admin/notifications/{notificationId} [delete]
func (h *AdminContentHandler) deleteNotification(w http.ResponseWriter, r *http.Request) {
	notificationID, ok := pathID(w, r, "notificationId")
	if !ok {
		return
	}
	if err := h.notificationService.DeleteNotification(r.Context(), notificationID); err != nil {
		h.fail(w, err, "Failed to delete notification")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
