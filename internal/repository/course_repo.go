package repository

import (
	"context"
	"database/sql"
	"errors"

	"streamlearn/internal/model"
)

// CourseRepository defines the interface for interacting with courses, topics and lessons
type CourseRepository interface {
	ListCourses(ctx context.Context) ([]model.Course, error)
	GetCourseByID(ctx context.Context, courseID int64) (*model.Course, error)
	CreateCourse(ctx context.Context, c *model.Course) error
	UpdateCourse(ctx context.Context, c *model.Course) error
	DeleteCourse(ctx context.Context, courseID int64) error

	// ListTopics returns the course's topics ordered by order_index, lessons included
	ListTopics(ctx context.Context, courseID int64) ([]model.Topic, error)
	GetTopicByID(ctx context.Context, topicID int64) (*model.Topic, error)
	CreateTopic(ctx context.Context, t *model.Topic) error
	UpdateTopic(ctx context.Context, t *model.Topic) error
	DeleteTopic(ctx context.Context, topicID int64) error

	GetLessonByID(ctx context.Context, lessonID int64) (*model.Lesson, error)
	CreateLesson(ctx context.Context, l *model.Lesson) error
	UpdateLesson(ctx context.Context, l *model.Lesson) error
	DeleteLesson(ctx context.Context, lessonID int64) error
}

type courseRepo struct {
	db *sql.DB
}

// NewCourseRepo creates a new CourseRepository
func NewCourseRepo(db *sql.DB) CourseRepository {
	return &courseRepo{db: db}
}

const courseColumns = `id, title, description, video_url, thumbnail, duration, category,
	is_free, is_locked, rating, students, created_at, updated_at`

func scanCourse(row rowScanner) (*model.Course, error) {
	var c model.Course
	err := row.Scan(
		&c.CourseID,
		&c.Title,
		&c.Description,
		&c.VideoURL,
		&c.Thumbnail,
		&c.Duration,
		&c.Category,
		&c.IsFree,
		&c.IsLocked,
		&c.Rating,
		&c.Students,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCourses retrieves all courses, newest first
func (r *courseRepo) ListCourses(ctx context.Context) ([]model.Course, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

// GetCourseByID retrieves a course by its ID
func (r *courseRepo) GetCourseByID(ctx context.Context, courseID int64) (*model.Course, error) {
	c, err := scanCourse(r.db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, courseID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// CreateCourse inserts a new course and fills generated fields
func (r *courseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	query := `
		INSERT INTO courses (title, description, video_url, thumbnail, duration, category, is_free, is_locked, rating, students)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		c.Title, c.Description, c.VideoURL, c.Thumbnail, c.Duration, c.Category, c.IsFree, c.IsLocked, c.Rating, c.Students,
	).Scan(&c.CourseID, &c.CreatedAt, &c.UpdatedAt)
}

// UpdateCourse updates an existing course record and returns updated timestamps
func (r *courseRepo) UpdateCourse(ctx context.Context, c *model.Course) error {
	query := `
		UPDATE courses
		SET title = $1, description = $2, video_url = $3, thumbnail = $4, duration = $5, category = $6,
		    is_free = $7, is_locked = $8, rating = $9, students = $10, updated_at = NOW()
		WHERE id = $11
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		c.Title, c.Description, c.VideoURL, c.Thumbnail, c.Duration, c.Category, c.IsFree, c.IsLocked, c.Rating, c.Students, c.CourseID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// DeleteCourse removes a course; topics, lessons and progress cascade
func (r *courseRepo) DeleteCourse(ctx context.Context, courseID int64) error {
	return expectOneRow(rowsAffected(r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, courseID)))
}

const topicColumns = `id, course_id, title, description, thumbnail, order_index, created_at, updated_at`
const lessonColumns = `id, topic_id, title, description, video_url, duration, order_index, created_at, updated_at`

func scanTopic(row rowScanner) (*model.Topic, error) {
	var t model.Topic
	if err := row.Scan(&t.TopicID, &t.CourseID, &t.Title, &t.Description, &t.Thumbnail, &t.OrderIndex, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Lessons = []model.Lesson{}
	return &t, nil
}

func scanLesson(row rowScanner) (*model.Lesson, error) {
	var l model.Lesson
	if err := row.Scan(&l.LessonID, &l.TopicID, &l.Title, &l.Description, &l.VideoURL, &l.Duration, &l.OrderIndex, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

// ListTopics retrieves the ordered topics of a course with their ordered lessons
func (r *courseRepo) ListTopics(ctx context.Context, courseID int64) ([]model.Topic, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+topicColumns+` FROM topics WHERE course_id = $1 ORDER BY order_index, id`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := []model.Topic{}
	index := map[int64]int{}
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, err
		}
		index[t.TopicID] = len(topics)
		topics = append(topics, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(topics) == 0 {
		return topics, nil
	}

	lessonRows, err := r.db.QueryContext(ctx, `
		SELECT l.id, l.topic_id, l.title, l.description, l.video_url, l.duration, l.order_index, l.created_at, l.updated_at
		FROM lessons l
		JOIN topics t ON t.id = l.topic_id
		WHERE t.course_id = $1
		ORDER BY l.topic_id, l.order_index, l.id`, courseID)
	if err != nil {
		return nil, err
	}
	defer lessonRows.Close()

	for lessonRows.Next() {
		l, err := scanLesson(lessonRows)
		if err != nil {
			return nil, err
		}
		if i, ok := index[l.TopicID]; ok {
			topics[i].Lessons = append(topics[i].Lessons, *l)
		}
	}
	return topics, lessonRows.Err()
}

// GetTopicByID retrieves a topic with its ordered lessons
func (r *courseRepo) GetTopicByID(ctx context.Context, topicID int64) (*model.Topic, error) {
	t, err := scanTopic(r.db.QueryRowContext(ctx, `SELECT `+topicColumns+` FROM topics WHERE id = $1`, topicID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+lessonColumns+` FROM lessons WHERE topic_id = $1 ORDER BY order_index, id`, topicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		t.Lessons = append(t.Lessons, *l)
	}
	return t, rows.Err()
}

func (r *courseRepo) CreateTopic(ctx context.Context, t *model.Topic) error {
	query := `
		INSERT INTO topics (course_id, title, description, thumbnail, order_index)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, t.CourseID, t.Title, t.Description, t.Thumbnail, t.OrderIndex).
		Scan(&t.TopicID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *courseRepo) UpdateTopic(ctx context.Context, t *model.Topic) error {
	query := `
		UPDATE topics
		SET title = $1, description = $2, thumbnail = $3, order_index = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING course_id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, t.Title, t.Description, t.Thumbnail, t.OrderIndex, t.TopicID).
		Scan(&t.CourseID, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *courseRepo) DeleteTopic(ctx context.Context, topicID int64) error {
	return expectOneRow(rowsAffected(r.db.ExecContext(ctx, `DELETE FROM topics WHERE id = $1`, topicID)))
}

func (r *courseRepo) GetLessonByID(ctx context.Context, lessonID int64) (*model.Lesson, error) {
	l, err := scanLesson(r.db.QueryRowContext(ctx, `SELECT `+lessonColumns+` FROM lessons WHERE id = $1`, lessonID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return l, err
}

func (r *courseRepo) CreateLesson(ctx context.Context, l *model.Lesson) error {
	query := `
		INSERT INTO lessons (topic_id, title, description, video_url, duration, order_index)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, l.TopicID, l.Title, l.Description, l.VideoURL, l.Duration, l.OrderIndex).
		Scan(&l.LessonID, &l.CreatedAt, &l.UpdatedAt)
}

func (r *courseRepo) UpdateLesson(ctx context.Context, l *model.Lesson) error {
	query := `
		UPDATE lessons
		SET title = $1, description = $2, video_url = $3, duration = $4, order_index = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING topic_id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, l.Title, l.Description, l.VideoURL, l.Duration, l.OrderIndex, l.LessonID).
		Scan(&l.TopicID, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *courseRepo) DeleteLesson(ctx context.Context, lessonID int64) error {
	return expectOneRow(rowsAffected(r.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, lessonID)))
}
