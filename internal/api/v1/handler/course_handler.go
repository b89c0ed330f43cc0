package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"streamlearn/internal/api/v1/dto"
	"streamlearn/internal/middleware"
	"streamlearn/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// CourseHandler serves the member dashboard, course pages and lesson progress
type CourseHandler struct {
	dashboardService service.DashboardService
	courseService    service.CourseService
	progressService  service.ProgressService
	validate         *validator.Validate
	now              func() time.Time
	logger           zerolog.Logger
}

func NewCourseHandler(
	dashboardService service.DashboardService,
	courseService service.CourseService,
	progressService service.ProgressService,
	validate *validator.Validate,
	logger zerolog.Logger,
) *CourseHandler {
	return &CourseHandler{
		dashboardService: dashboardService,
		courseService:    courseService,
		progressService:  progressService,
		validate:         validate,
		now:              time.Now,
		logger:           logger,
	}
}

// RegisterRoutes mounts member routes; every one requires a session
func (h *CourseHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("GET /dashboard", authMw(http.HandlerFunc(h.getDashboard)))
	mux.Handle("GET /courses", authMw(http.HandlerFunc(h.listCourses)))
	mux.Handle("GET /courses/{courseId}", authMw(http.HandlerFunc(h.getCourse)))
	mux.Handle("GET /topics/{topicId}", authMw(http.HandlerFunc(h.getTopic)))
	mux.Handle("POST /lessons/{lessonId}/complete", authMw(http.HandlerFunc(h.completeLesson)))
	mux.Handle("DELETE /lessons/{lessonId}/complete", authMw(http.HandlerFunc(h.uncompleteLesson)))
}

// getDashboard godoc
// @Summary Member dashboard
// @Description Banners, active notifications, available and locked courses, and progress statistics.
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.DashboardResponseDTO
// @Failure 401 {string} string "Unauthorized"
// @Failure 500 {string} string "Failed to load dashboard"
// @Router /dashboard [get]
func (h *CourseHandler) getDashboard(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	d, err := h.dashboardService.GetDashboard(r.Context(), userID, h.now())
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to load dashboard")
		}
		writeError(w, err, "Failed to load dashboard")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewDashboardResponse(d))
}

// listCourses godoc
// @Summary List courses
// @Description Every course with the caller's access and progress.
// @Tags courses
// @Produce json
// @Success 200 {array} dto.CourseResponseDTO
// @Failure 401 {string} string "Unauthorized"
// @Failure 500 {string} string "Failed to list courses"
// @Router /courses [get]
func (h *CourseHandler) listCourses(w http.ResponseWriter, r *http.Request) {
	views, err := h.courseService.ListForUser(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err, "Failed to list courses")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewCourseViewResponses(views))
}

// getCourse godoc
// @Summary Open a course
// @Description Returns the course with its ordered topics and lessons. Locked courses answer 403.
// @Tags courses
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.CourseDetailResponseDTO
// @Failure 400 {string} string "Invalid courseId"
// @Failure 403 {string} string "course is locked for this user"
// @Failure 404 {string} string "course not found"
// @Router /courses/{courseId} [get]
func (h *CourseHandler) getCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	d, err := h.courseService.GetCourseDetail(r.Context(), middleware.UserIDFromContext(r.Context()), courseID)
	if err != nil {
		writeError(w, err, "Failed to retrieve course")
		return
	}
	writeJSON(w, http.StatusOK, dto.CourseDetailResponseDTO{
		Course:   dto.NewCourseResponse(&d.Course),
		Topics:   dto.NewTopicResponses(d.Topics),
		Progress: d.Progress,
	})
}

// getTopic godoc
// @Summary Open a topic
// @Tags courses
// @Produce json
// @Param topicId path int true "Topic ID"
// @Success 200 {object} dto.TopicDetailResponseDTO
// @Failure 400 {string} string "Invalid topicId"
// @Failure 403 {string} string "course is locked for this user"
// @Failure 404 {string} string "topic not found"
// @Router /topics/{topicId} [get]
func (h *CourseHandler) getTopic(w http.ResponseWriter, r *http.Request) {
	topicID, ok := pathID(w, r, "topicId")
	if !ok {
		return
	}
	d, err := h.courseService.GetTopicDetail(r.Context(), middleware.UserIDFromContext(r.Context()), topicID)
	if err != nil {
		writeError(w, err, "Failed to retrieve topic")
		return
	}
	writeJSON(w, http.StatusOK, dto.TopicDetailResponseDTO{
		Course:         dto.NewCourseResponse(&d.Course),
		Topic:          dto.NewTopicResponse(&d.Topic),
		CourseProgress: d.Progress,
	})
}

// completeLesson godoc
// @Summary Mark a lesson complete
// @Description Records completion for the caller and returns the recomputed topic and course progress.
// @Tags progress
// @Accept json
// @Produce json
// @Param lessonId path int true "Lesson ID"
// @Param body body dto.LessonCompleteDTO false "Watch time in seconds"
// @Success 200 {object} dto.ProgressResponseDTO
// @Failure 400 {string} string "Invalid lessonId"
// @Failure 403 {string} string "course is locked for this user"
// @Failure 404 {string} string "lesson not found"
// @Router /lessons/{lessonId}/complete [post]
func (h *CourseHandler) completeLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := pathID(w, r, "lessonId")
	if !ok {
		return
	}
	var req dto.LessonCompleteDTO
	if r.ContentLength != 0 {
		if err := decodeJSONBody(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := h.validate.Struct(&req); err != nil {
			http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	userID := middleware.UserIDFromContext(r.Context())
	res, err := h.progressService.CompleteLesson(r.Context(), userID, lessonID, req.WatchTime)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			h.logger.Error().Err(err).Str("user_id", userID).Int64("lesson_id", lessonID).Msg("Failed to complete lesson")
		}
		writeError(w, err, "Failed to complete lesson")
		return
	}
	writeJSON(w, http.StatusOK, progressResponse(res))
}

// uncompleteLesson godoc
// @Summary Clear a lesson's completion
// @Tags progress
// @Produce json
// @Param lessonId path int true "Lesson ID"
// @Success 200 {object} dto.ProgressResponseDTO
// @Failure 400 {string} string "Invalid lessonId"
// @Failure 403 {string} string "course is locked for this user"
// @Failure 404 {string} string "lesson not found"
// @Router /lessons/{lessonId}/complete [delete]
func (h *CourseHandler) uncompleteLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := pathID(w, r, "lessonId")
	if !ok {
		return
	}
	res, err := h.progressService.UncompleteLesson(r.Context(), middleware.UserIDFromContext(r.Context()), lessonID)
	if err != nil {
		writeError(w, err, "Failed to update lesson")
		return
	}
	writeJSON(w, http.StatusOK, progressResponse(res))
}

func progressResponse(res *service.ProgressResult) dto.ProgressResponseDTO {
	return dto.ProgressResponseDTO{
		LessonID:       res.LessonID,
		TopicID:        res.TopicID,
		CourseID:       res.CourseID,
		IsCompleted:    res.IsCompleted,
		CompletedAt:    res.CompletedAt,
		TopicProgress:  res.TopicProgress,
		CourseProgress: res.CourseProgress,
	}
}
