package handler

import (
	"net/http"

	"streamlearn/internal/api/v1/dto"
	"streamlearn/internal/model"
	"streamlearn/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// AdminCourseHandler manages the course catalogue
type AdminCourseHandler struct {
	courseService service.CourseService
	validate      *validator.Validate
	logger        zerolog.Logger
}

func NewAdminCourseHandler(courseService service.CourseService, validate *validator.Validate, logger zerolog.Logger) *AdminCourseHandler {
	return &AdminCourseHandler{courseService: courseService, validate: validate, logger: logger}
}

// RegisterRoutes mounts catalogue management routes behind adminMw
func (h *AdminCourseHandler) RegisterRoutes(mux *http.ServeMux, adminMw func(http.Handler) http.Handler) {
	mux.Handle("GET /admin/courses", adminMw(http.HandlerFunc(h.listCourses)))
	mux.Handle("POST /admin/courses", adminMw(http.HandlerFunc(h.createCourse)))
	mux.Handle("GET /admin/courses/{courseId}", adminMw(http.HandlerFunc(h.getCourse)))
	mux.Handle("PATCH /admin/courses/{courseId}", adminMw(http.HandlerFunc(h.updateCourse)))
	mux.Handle("DELETE /admin/courses/{courseId}", adminMw(http.HandlerFunc(h.deleteCourse)))

	mux.Handle("GET /admin/courses/{courseId}/topics", adminMw(http.HandlerFunc(h.listTopics)))
	mux.Handle("POST /admin/courses/{courseId}/topics", adminMw(http.HandlerFunc(h.createTopic)))
	mux.Handle("PUT /admin/topics/{topicId}", adminMw(http.HandlerFunc(h.updateTopic)))
	mux.Handle("DELETE /admin/topics/{topicId}", adminMw(http.HandlerFunc(h.deleteTopic)))

	mux.Handle("POST /admin/topics/{topicId}/lessons", adminMw(http.HandlerFunc(h.createLesson)))
	mux.Handle("PUT /admin/lessons/{lessonId}", adminMw(http.HandlerFunc(h.updateLesson)))
	mux.Handle("DELETE /admin/lessons/{lessonId}", adminMw(http.HandlerFunc(h.deleteLesson)))
}

func (h *AdminCourseHandler) fail(w http.ResponseWriter, err error, msg string) {
	if statusFor(err) == http.StatusInternalServerError {
		h.logger.Error().Err(err).Msg(msg)
	}
	writeError(w, err, msg)
}

// listCourses godoc
// @Summary List all courses
// @Tags admin
// @Produce json
// @Success 200 {array} dto.CourseResponseDTO
// @Router /admin/courses [get]
func (h *AdminCourseHandler) listCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseService.ListCourses(r.Context())
	if err != nil {
		h.fail(w, err, "Failed to list courses")
		return
	}
	resp := make([]dto.CourseResponseDTO, 0, len(courses))
	for i := range courses {
		resp = append(resp, dto.NewCourseResponse(&courses[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// createCourse godoc
// @Summary Create a course
// @Tags admin
// @Accept json
// @Produce json
// @Param course body dto.CourseCreateDTO true "Course creation request"
// @Success 201 {object} dto.CourseResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 500 {string} string "Failed to create course"
// @Router /admin/courses [post]
func (h *AdminCourseHandler) createCourse(w http.ResponseWriter, r *http.Request) {
	var req dto.CourseCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	course := &model.Course{
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		Thumbnail:   req.Thumbnail,
		Duration:    req.Duration,
		Category:    req.Category,
		IsFree:      req.IsFree,
		Rating:      req.Rating,
		Students:    req.Students,
	}
	// Paid courses start locked unless stated otherwise.
	course.IsLocked = !req.IsFree
	if req.IsLocked != nil {
		course.IsLocked = *req.IsLocked
	}
	created, err := h.courseService.CreateCourse(r.Context(), course)
	if err != nil {
		h.fail(w, err, "Failed to create course")
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewCourseResponse(created))
}

// getCourse godoc
// @Summary Get a course
// @Tags admin
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.CourseResponseDTO
// @Failure 404 {string} string "course not found"
// @Router /admin/courses/{courseId} [get]
func (h *AdminCourseHandler) getCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	course, err := h.courseService.GetCourse(r.Context(), courseID)
	if err != nil {
		h.fail(w, err, "Failed to retrieve course")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewCourseResponse(course))
}

// updateCourse godoc
// @Summary Update a course
// @Description Absent fields keep their stored value.
// @Tags admin
// @Accept json
// @Produce json
// @Param courseId path int true "Course ID"
// @Param course body dto.CourseUpdateDTO true "Course update request"
// @Success 200 {object} dto.CourseResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 404 {string} string "course not found"
// @Router /admin/courses/{courseId} [patch]
func (h *AdminCourseHandler) updateCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	var req dto.CourseUpdateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	course, err := h.courseService.GetCourse(r.Context(), courseID)
	if err != nil {
		h.fail(w, err, "Failed to update course")
		return
	}
	req.Apply(course)
	updated, err := h.courseService.UpdateCourse(r.Context(), course)
	if err != nil {
		h.fail(w, err, "Failed to update course")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewCourseResponse(updated))
}

// deleteCourse godoc
// @Summary Delete a course
// @Description Deletes the course with its topics, lessons and progress rows.
// @Tags admin
// @Param courseId path int true "Course ID"
// @Success 204
// @Failure 404 {string} string "course not found"
// @Router /admin/courses/{courseId} [delete]
func (h *AdminCourseHandler) deleteCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	if err := h.courseService.DeleteCourse(r.Context(), courseID); err != nil {
		h.fail(w, err, "Failed to delete course")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listTopics godoc
// @Summary List a course's topics
// @Tags admin
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {array} dto.TopicResponseDTO
// @Failure 404 {string} string "course not found"
// @Router /admin/courses/{courseId}/topics [get]
func (h *AdminCourseHandler) listTopics(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	topics, err := h.courseService.ListTopics(r.Context(), courseID)
	if err != nil {
		h.fail(w, err, "Failed to list topics")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewTopicResponses(topics))
}

// createTopic godoc
// @Summary Add a topic to a course
// @Tags admin
// @Accept json
// @Produce json
// @Param courseId path int true "Course ID"
// @Param topic body dto.TopicCreateDTO true "Topic"
// @Success 201 {object} dto.TopicResponseDTO
// @Failure 404 {string} string "course not found"
// @Router /admin/courses/{courseId}/topics [post]
func (h *AdminCourseHandler) createTopic(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}
	var req dto.TopicCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	created, err := h.courseService.CreateTopic(r.Context(), &model.Topic{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
		OrderIndex:  req.OrderIndex,
	})
	if err != nil {
		h.fail(w, err, "Failed to create topic")
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewTopicResponse(created))
}

// updateTopic godoc
// @Summary Replace a topic
// @Tags admin
// @Accept json
// @Produce json
// @Param topicId path int true "Topic ID"
// @Param topic body dto.TopicCreateDTO true "Topic"
// @Success 200 {object} dto.TopicResponseDTO
// @Failure 404 {string} string "topic not found"
// @Router /admin/topics/{topicId} [put]
func (h *AdminCourseHandler) updateTopic(w http.ResponseWriter, r *http.Request) {
	topicID, ok := pathID(w, r, "topicId")
	if !ok {
		return
	}
	var req dto.TopicCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	updated, err := h.courseService.UpdateTopic(r.Context(), &model.Topic{
		TopicID:     topicID,
		Title:       req.Title,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
		OrderIndex:  req.OrderIndex,
	})
	if err != nil {
		h.fail(w, err, "Failed to update topic")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewTopicResponse(updated))
}

// deleteTopic godoc
// @Summary Delete a topic
// @Tags admin
// @Param topicId path int true "Topic ID"
// @Success 204
// @Failure 404 {string} string "topic not found"
// @Router /admin/topics/{topicId} [delete]
func (h *AdminCourseHandler) deleteTopic(w http.ResponseWriter, r *http.Request) {
	topicID, ok := pathID(w, r, "topicId")
	if !ok {
		return
	}
	if err := h.courseService.DeleteTopic(r.Context(), topicID); err != nil {
		h.fail(w, err, "Failed to delete topic")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// createLesson godoc
// @Summary Add a lesson to a topic
// @Tags admin
// @Accept json
// @Produce json
// @Param topicId path int true "Topic ID"
// @Param lesson body dto.LessonCreateDTO true "Lesson"
// @Success 201 {object} dto.LessonResponseDTO
// @Failure 404 {string} string "topic not found"
// @Router /admin/topics/{topicId}/lessons [post]
func (h *AdminCourseHandler) createLesson(w http.ResponseWriter, r *http.Request) {
	topicID, ok := pathID(w, r, "topicId")
	if !ok {
		return
	}
	var req dto.LessonCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	created, err := h.courseService.CreateLesson(r.Context(), &model.Lesson{
		TopicID:     topicID,
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		Duration:    req.Duration,
		OrderIndex:  req.OrderIndex,
	})
	if err != nil {
		h.fail(w, err, "Failed to create lesson")
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewLessonResponse(created))
}

// updateLesson godoc
// @Summary Replace a lesson
// @Tags admin
// @Accept json
// @Produce json
// @Param lessonId path int true "Lesson ID"
// @Param lesson body dto.LessonCreateDTO true "Lesson"
// @Success 200 {object} dto.LessonResponseDTO
// @Failure 404 {string} string "lesson not found"
// @Router /admin/lessons/{lessonId} [put]
func (h *AdminCourseHandler) updateLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := pathID(w, r, "lessonId")
	if !ok {
		return
	}
	var req dto.LessonCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	updated, err := h.courseService.UpdateLesson(r.Context(), &model.Lesson{
		LessonID:    lessonID,
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		Duration:    req.Duration,
		OrderIndex:  req.OrderIndex,
	})
	if err != nil {
		h.fail(w, err, "Failed to update lesson")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewLessonResponse(updated))
}

// deleteLesson godoc
// @Summary Delete a lesson
// @Tags admin
// @Param lessonId path int true "Lesson ID"
// @Success 204
// @Failure 404 {string} string "lesson not found"
// @Router /admin/lessons/{lessonId} [delete]
func (h *AdminCourseHandler) deleteLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := pathID(w, r, "lessonId")
	if !ok {
		return
	}
	if err := h.courseService.DeleteLesson(r.Context(), lessonID); err != nil {
		h.fail(w, err, "Failed to delete lesson")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
