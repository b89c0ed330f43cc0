package model

import "time"

// Course is a video course shown on the member dashboard
type Course struct {
	CourseID    int64     `db:"id" json:"course_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	VideoURL    string    `db:"video_url" json:"video_url"`
	Thumbnail   string    `db:"thumbnail" json:"thumbnail"`
	Duration    string    `db:"duration" json:"duration"`
	Category    string    `db:"category" json:"category"`
	IsFree      bool      `db:"is_free" json:"is_free"`
	IsLocked    bool      `db:"is_locked" json:"is_locked"`
	Rating      float64   `db:"rating" json:"rating"`
	Students    int       `db:"students" json:"students"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Topic is an ordered section of a course
type Topic struct {
	TopicID     int64     `db:"id" json:"topic_id"`
	CourseID    int64     `db:"course_id" json:"course_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Thumbnail   string    `db:"thumbnail" json:"thumbnail"`
	OrderIndex  int       `db:"order_index" json:"order_index"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
	Lessons     []Lesson  `db:"-" json:"lessons"`
}

// Lesson is an ordered video inside a topic. IsCompleted is per requesting user.
type Lesson struct {
	LessonID    int64     `db:"id" json:"lesson_id"`
	TopicID     int64     `db:"topic_id" json:"topic_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	VideoURL    string    `db:"video_url" json:"video_url"`
	Duration    string    `db:"duration" json:"duration"`
	OrderIndex  int       `db:"order_index" json:"order_index"`
	IsCompleted bool      `db:"-" json:"is_completed"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// LessonProgress is a user's completion record for one lesson
type LessonProgress struct {
	UserID      string     `db:"user_id" json:"user_id"`
	LessonID    int64      `db:"lesson_id" json:"lesson_id"`
	IsCompleted bool       `db:"is_completed" json:"is_completed"`
	WatchTime   int        `db:"watch_time" json:"watch_time"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// TopicCompletion holds lesson counts of one topic for one user
type TopicCompletion struct {
	CourseID         int64
	TopicID          int64
	TotalLessons     int
	CompletedLessons int
}

// Progress returns the topic's completion percentage.
func (t TopicCompletion) Progress() int {
	return Percent(t.CompletedLessons, t.TotalLessons)
}

// Progress returns the share of the topic's lessons marked complete.
func (t *Topic) Progress() int {
	completed := 0
	for _, l := range t.Lessons {
		if l.IsCompleted {
			completed++
		}
	}
	return Percent(completed, len(t.Lessons))
}

// CourseProgress aggregates topic completions per course.
// Courses without topics are absent from the result and count as 0.
func CourseProgress(completions []TopicCompletion) map[int64]int {
	perCourse := make(map[int64][]int)
	for _, c := range completions {
		perCourse[c.CourseID] = append(perCourse[c.CourseID], c.Progress())
	}
	out := make(map[int64]int, len(perCourse))
	for courseID, values := range perCourse {
		out[courseID] = AverageProgress(values)
	}
	return out
}
