package service

import (
	"context"
	"fmt"
	"time"

	"streamlearn/internal/model"
	"streamlearn/internal/pubsub"
	"streamlearn/internal/repository"

	"github.com/rs/zerolog"
)

// ProgressResult reports the recomputed progress after a lesson changes state.
type ProgressResult struct {
	LessonID       int64
	TopicID        int64
	CourseID       int64
	IsCompleted    bool
	CompletedAt    *time.Time
	TopicProgress  int
	CourseProgress int
}

// ProgressService records lesson completion for the caller
type ProgressService interface {
	CompleteLesson(ctx context.Context, userID string, lessonID int64, watchTime int) (*ProgressResult, error)
	UncompleteLesson(ctx context.Context, userID string, lessonID int64) (*ProgressResult, error)
}

type progressService struct {
	courses  CourseService
	repo     repository.CourseRepository
	progress repository.ProgressRepository
	events   EventSink
	logger   zerolog.Logger
}

func NewProgressService(courses CourseService, repo repository.CourseRepository, progress repository.ProgressRepository, events EventSink, logger zerolog.Logger) ProgressService {
	return &progressService{
		courses:  courses,
		repo:     repo,
		progress: progress,
		events:   sinkOrNoop(events),
		logger:   logger.With().Str("service", "ProgressService").Logger(),
	}
}

// lessonTopic resolves the lesson and its parent topic. Access is checked by the caller.
func (s *progressService) lessonTopic(ctx context.Context, lessonID int64) (*model.Lesson, *model.Topic, error) {
	lesson, err := s.repo.GetLessonByID(ctx, lessonID)
	if err != nil {
		return nil, nil, err
	}
	if lesson == nil {
		return nil, nil, ErrLessonNotFound
	}
	topic, err := s.repo.GetTopicByID(ctx, lesson.TopicID)
	if err != nil {
		return nil, nil, err
	}
	if topic == nil {
		return nil, nil, ErrLessonNotFound
	}
	return lesson, topic, nil
}

func (s *progressService) result(ctx context.Context, userID string, lesson *model.Lesson) (*ProgressResult, error) {
	topic, err := s.courses.GetTopicDetail(ctx, userID, lesson.TopicID)
	if err != nil {
		return nil, err
	}
	course, err := s.courses.GetCourseDetail(ctx, userID, topic.Course.CourseID)
	if err != nil {
		return nil, err
	}
	res := &ProgressResult{
		LessonID:       lesson.LessonID,
		TopicID:        lesson.TopicID,
		CourseID:       course.Course.CourseID,
		TopicProgress:  topic.Progress,
		CourseProgress: course.Progress,
	}
	for _, l := range topic.Topic.Lessons {
		if l.LessonID == lesson.LessonID {
			res.IsCompleted = l.IsCompleted
		}
	}
	return res, nil
}

// CompleteLesson marks the lesson complete; repeating it keeps the first completion time.
func (s *progressService) CompleteLesson(ctx context.Context, userID string, lessonID int64, watchTime int) (*ProgressResult, error) {
	lesson, topic, err := s.lessonTopic(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if _, err := s.courses.GetTopicDetail(ctx, userID, topic.TopicID); err != nil {
		return nil, err
	}

	if watchTime < 0 {
		watchTime = 0
	}
	p := &model.LessonProgress{UserID: userID, LessonID: lessonID, WatchTime: watchTime}
	if err := s.progress.CompleteLesson(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Int64("lesson_id", lessonID).Msg("Failed to complete lesson")
		return nil, fmt.Errorf("failed to complete lesson: %w", err)
	}

	res, err := s.result(ctx, userID, lesson)
	if err != nil {
		return nil, err
	}
	res.CompletedAt = p.CompletedAt

	s.events.Emit(ctx, pubsub.Event{
		Type:   pubsub.EventLessonCompleted,
		UserID: userID,
		Data: map[string]any{
			"lesson_id":       lessonID,
			"topic_id":        res.TopicID,
			"course_id":       res.CourseID,
			"course_progress": res.CourseProgress,
		},
	})
	return res, nil
}

// UncompleteLesson clears the caller's completion of the lesson.
func (s *progressService) UncompleteLesson(ctx context.Context, userID string, lessonID int64) (*ProgressResult, error) {
	lesson, topic, err := s.lessonTopic(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if _, err := s.courses.GetTopicDetail(ctx, userID, topic.TopicID); err != nil {
		return nil, err
	}
	if err := s.progress.UncompleteLesson(ctx, userID, lessonID); err != nil {
		return nil, fmt.Errorf("failed to reset lesson: %w", err)
	}
	return s.result(ctx, userID, lesson)
}
