package dto

import (
	"time"

	"streamlearn/internal/model"
)

// CourseCreateDTO is used for incoming course creation requests
type CourseCreateDTO struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description"`
	VideoURL    string  `json:"video_url" validate:"omitempty,url"`
	Thumbnail   string  `json:"thumbnail" validate:"omitempty,url"`
	Duration    string  `json:"duration" validate:"max=20"`
	Category    string  `json:"category" validate:"max=100"`
	IsFree      bool    `json:"is_free"`
	IsLocked    *bool   `json:"is_locked,omitempty"`
	Rating      float64 `json:"rating" validate:"gte=0,lte=5"`
	Students    int     `json:"students" validate:"gte=0"`
}

// CourseUpdateDTO is used for incoming course update requests.
// Absent fields keep their stored value.
type CourseUpdateDTO struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description,omitempty"`
	VideoURL    *string  `json:"video_url,omitempty" validate:"omitempty,url"`
	Thumbnail   *string  `json:"thumbnail,omitempty" validate:"omitempty,url"`
	Duration    *string  `json:"duration,omitempty" validate:"omitempty,max=20"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	IsFree      *bool    `json:"is_free,omitempty"`
	IsLocked    *bool    `json:"is_locked,omitempty"`
	Rating      *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Students    *int     `json:"students,omitempty" validate:"omitempty,gte=0"`
}

// Apply copies the present fields onto c.
func (d *CourseUpdateDTO) Apply(c *model.Course) {
	if d.Title != nil {
		c.Title = *d.Title
	}
	if d.Description != nil {
		c.Description = *d.Description
	}
	if d.VideoURL != nil {
		c.VideoURL = *d.VideoURL
	}
	if d.Thumbnail != nil {
		c.Thumbnail = *d.Thumbnail
	}
	if d.Duration != nil {
		c.Duration = *d.Duration
	}
	if d.Category != nil {
		c.Category = *d.Category
	}
	if d.IsFree != nil {
		c.IsFree = *d.IsFree
	}
	if d.IsLocked != nil {
		c.IsLocked = *d.IsLocked
	}
	if d.Rating != nil {
		c.Rating = *d.Rating
	}
	if d.Students != nil {
		c.Students = *d.Students
	}
}

// CourseResponseDTO is returned in API responses for courses.
// HasAccess and UserProgress are only set on member views.
type CourseResponseDTO struct {
	CourseID     int64     `json:"course_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"video_url"`
	Thumbnail    string    `json:"thumbnail"`
	Duration     string    `json:"duration"`
	Category     string    `json:"category"`
	IsFree       bool      `json:"is_free"`
	IsLocked     bool      `json:"is_locked"`
	Rating       float64   `json:"rating"`
	Students     int       `json:"students"`
	HasAccess    *bool     `json:"has_access,omitempty"`
	UserProgress *int      `json:"user_progress,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewCourseResponse(c *model.Course) CourseResponseDTO {
	return CourseResponseDTO{
		CourseID:    c.CourseID,
		Title:       c.Title,
		Description: c.Description,
		VideoURL:    c.VideoURL,
		Thumbnail:   c.Thumbnail,
		Duration:    c.Duration,
		Category:    c.Category,
		IsFree:      c.IsFree,
		IsLocked:    c.IsLocked,
		Rating:      c.Rating,
		Students:    c.Students,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// NewCourseViewResponse includes the caller's access and progress.
func NewCourseViewResponse(v *model.CourseView) CourseResponseDTO {
	resp := NewCourseResponse(&v.Course)
	hasAccess, progress := v.HasAccess, v.UserProgress
	resp.HasAccess = &hasAccess
	resp.UserProgress = &progress
	return resp
}

func NewCourseViewResponses(views []model.CourseView) []CourseResponseDTO {
	out := make([]CourseResponseDTO, 0, len(views))
	for i := range views {
		out = append(out, NewCourseViewResponse(&views[i]))
	}
	return out
}

// TopicCreateDTO is used for creating and replacing topics
type TopicCreateDTO struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail" validate:"omitempty,url"`
	OrderIndex  int    `json:"order_index" validate:"gte=0"`
}

// LessonCreateDTO is used for creating and replacing lessons
type LessonCreateDTO struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url" validate:"omitempty,url"`
	Duration    string `json:"duration" validate:"max=20"`
	OrderIndex  int    `json:"order_index" validate:"gte=0"`
}

// LessonResponseDTO is a lesson with the caller's completion state
type LessonResponseDTO struct {
	LessonID    int64     `json:"lesson_id"`
	TopicID     int64     `json:"topic_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoURL    string    `json:"video_url"`
	Duration    string    `json:"duration"`
	OrderIndex  int       `json:"order_index"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewLessonResponse(l *model.Lesson) LessonResponseDTO {
	return LessonResponseDTO{
		LessonID:    l.LessonID,
		TopicID:     l.TopicID,
		Title:       l.Title,
		Description: l.Description,
		VideoURL:    l.VideoURL,
		Duration:    l.Duration,
		OrderIndex:  l.OrderIndex,
		IsCompleted: l.IsCompleted,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// TopicResponseDTO is a topic with its ordered lessons
type TopicResponseDTO struct {
	TopicID     int64               `json:"topic_id"`
	CourseID    int64               `json:"course_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Thumbnail   string              `json:"thumbnail"`
	OrderIndex  int                 `json:"order_index"`
	Progress    int                 `json:"progress"`
	Lessons     []LessonResponseDTO `json:"lessons"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func NewTopicResponse(t *model.Topic) TopicResponseDTO {
	lessons := make([]LessonResponseDTO, 0, len(t.Lessons))
	for i := range t.Lessons {
		lessons = append(lessons, NewLessonResponse(&t.Lessons[i]))
	}
	return TopicResponseDTO{
		TopicID:     t.TopicID,
		CourseID:    t.CourseID,
		Title:       t.Title,
		Description: t.Description,
		Thumbnail:   t.Thumbnail,
		OrderIndex:  t.OrderIndex,
		Progress:    t.Progress(),
		Lessons:     lessons,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func NewTopicResponses(topics []model.Topic) []TopicResponseDTO {
	out := make([]TopicResponseDTO, 0, len(topics))
	for i := range topics {
		out = append(out, NewTopicResponse(&topics[i]))
	}
	return out
}

// CourseDetailResponseDTO is an opened course
type CourseDetailResponseDTO struct {
	Course   CourseResponseDTO  `json:"course"`
	Topics   []TopicResponseDTO `json:"topics"`
	Progress int                `json:"progress"`
}

// TopicDetailResponseDTO is an opened topic with its parent course
type TopicDetailResponseDTO struct {
	Course         CourseResponseDTO `json:"course"`
	Topic          TopicResponseDTO  `json:"topic"`
	CourseProgress int               `json:"course_progress"`
}

// LessonCompleteDTO is the optional body of a completion request
type LessonCompleteDTO struct {
	WatchTime int `json:"watch_time" validate:"gte=0"`
}

// ProgressResponseDTO reports recomputed progress after a completion change
type ProgressResponseDTO struct {
	LessonID       int64      `json:"lesson_id"`
	TopicID        int64      `json:"topic_id"`
	CourseID       int64      `json:"course_id"`
	IsCompleted    bool       `json:"is_completed"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	TopicProgress  int        `json:"topic_progress"`
	CourseProgress int        `json:"course_progress"`
}
