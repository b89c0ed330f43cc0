package repository

import (
	"context"
	"database/sql"

	"streamlearn/internal/model"
)

// ProgressRepository stores per-user lesson completion
type ProgressRepository interface {
	// CompleteLesson upserts a completed row; completed_at keeps its first value.
	CompleteLesson(ctx context.Context, p *model.LessonProgress) error
	UncompleteLesson(ctx context.Context, userID string, lessonID int64) error
	// CompletedLessons returns the IDs of lessons in the course the user has completed.
	CompletedLessons(ctx context.Context, userID string, courseID int64) (map[int64]bool, error)
	// TopicCompletions returns lesson counts per topic for the user across all courses.
	TopicCompletions(ctx context.Context, userID string) ([]model.TopicCompletion, error)
	// StartedCourseCompletions returns topic counts of every course each user has progress in.
	StartedCourseCompletions(ctx context.Context) (map[string][]model.TopicCompletion, error)
}

type progressRepo struct {
	db *sql.DB
}

func NewProgressRepo(db *sql.DB) ProgressRepository {
	return &progressRepo{db: db}
}

func (r *progressRepo) CompleteLesson(ctx context.Context, p *model.LessonProgress) error {
	query := `
		INSERT INTO user_progress (user_id, lesson_id, is_completed, watch_time, completed_at)
		VALUES ($1, $2, TRUE, $3, NOW())
		ON CONFLICT (user_id, lesson_id) DO UPDATE
		SET is_completed = TRUE,
		    watch_time = GREATEST(user_progress.watch_time, EXCLUDED.watch_time),
		    completed_at = COALESCE(user_progress.completed_at, EXCLUDED.completed_at)
		RETURNING is_completed, watch_time, completed_at
	`
	return r.db.QueryRowContext(ctx, query, p.UserID, p.LessonID, p.WatchTime).
		Scan(&p.IsCompleted, &p.WatchTime, &p.CompletedAt)
}

func (r *progressRepo) UncompleteLesson(ctx context.Context, userID string, lessonID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_progress SET is_completed = FALSE, completed_at = NULL
		WHERE user_id = $1 AND lesson_id = $2`, userID, lessonID)
	return err
}

func (r *progressRepo) CompletedLessons(ctx context.Context, userID string, courseID int64) (map[int64]bool, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT up.lesson_id
		FROM user_progress up
		JOIN lessons l ON l.id = up.lesson_id
		JOIN topics t ON t.id = l.topic_id
		WHERE up.user_id = $1 AND t.course_id = $2 AND up.is_completed`, userID, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	done := map[int64]bool{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		done[id] = true
	}
	return done, rows.Err()
}

func (r *progressRepo) TopicCompletions(ctx context.Context, userID string) ([]model.TopicCompletion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT course_id, topic_id, total_lessons, completed_lessons
		FROM user_topic_completion
		WHERE user_id = $1
		ORDER BY course_id, topic_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.TopicCompletion{}
	for rows.Next() {
		var c model.TopicCompletion
		if err := rows.Scan(&c.CourseID, &c.TopicID, &c.TotalLessons, &c.CompletedLessons); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *progressRepo) StartedCourseCompletions(ctx context.Context) (map[string][]model.TopicCompletion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.user_id, c.course_id, c.topic_id, c.total_lessons, c.completed_lessons
		FROM user_topic_completion c
		WHERE EXISTS (
			SELECT 1
			FROM user_progress up
			JOIN lessons l ON l.id = up.lesson_id
			JOIN topics t ON t.id = l.topic_id
			WHERE up.user_id = c.user_id AND t.course_id = c.course_id AND up.is_completed
		)
		ORDER BY c.user_id, c.course_id, c.topic_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string][]model.TopicCompletion{}
	for rows.Next() {
		var userID string
		var c model.TopicCompletion
		if err := rows.Scan(&userID, &c.CourseID, &c.TopicID, &c.TotalLessons, &c.CompletedLessons); err != nil {
			return nil, err
		}
		out[userID] = append(out[userID], c)
	}
	return out, rows.Err()
}
