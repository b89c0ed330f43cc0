package service

import (
	"context"
	"errors"

	"streamlearn/internal/model"
	"streamlearn/internal/repository"

	"github.com/rs/zerolog"
)

// CourseDetail is a course opened by one user.
type CourseDetail struct {
	Course   model.Course
	Topics   []model.Topic
	Progress int
}

// TopicDetail is a topic opened by one user.
type TopicDetail struct {
	Course   model.Course
	Topic    model.Topic
	Progress int
}

// CourseService defines course browsing for members and course management for admins
type CourseService interface {
	// ListForUser returns every course with the caller's access and progress.
	ListForUser(ctx context.Context, userID string) ([]model.CourseView, error)
	GetCourseDetail(ctx context.Context, userID string, courseID int64) (*CourseDetail, error)
	GetTopicDetail(ctx context.Context, userID string, topicID int64) (*TopicDetail, error)

	ListCourses(ctx context.Context) ([]model.Course, error)
	GetCourse(ctx context.Context, courseID int64) (*model.Course, error)
	CreateCourse(ctx context.Context, c *model.Course) (*model.Course, error)
	UpdateCourse(ctx context.Context, c *model.Course) (*model.Course, error)
	DeleteCourse(ctx context.Context, courseID int64) error

	ListTopics(ctx context.Context, courseID int64) ([]model.Topic, error)
	CreateTopic(ctx context.Context, t *model.Topic) (*model.Topic, error)
	UpdateTopic(ctx context.Context, t *model.Topic) (*model.Topic, error)
	DeleteTopic(ctx context.Context, topicID int64) error

	CreateLesson(ctx context.Context, l *model.Lesson) (*model.Lesson, error)
	UpdateLesson(ctx context.Context, l *model.Lesson) (*model.Lesson, error)
	DeleteLesson(ctx context.Context, lessonID int64) error
}

// courseService is the implementation of CourseService
type courseService struct {
	repo     repository.CourseRepository
	users    repository.UserRepository
	progress repository.ProgressRepository
	logger   zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(repo repository.CourseRepository, users repository.UserRepository, progress repository.ProgressRepository, logger zerolog.Logger) CourseService {
	return &courseService{
		repo:     repo,
		users:    users,
		progress: progress,
		logger:   logger.With().Str("service", "CourseService").Logger(),
	}
}

func (s *courseService) loadUser(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if !u.IsActive {
		return nil, ErrUserInactive
	}
	return u, nil
}

func (s *courseService) ListForUser(ctx context.Context, userID string) ([]model.CourseView, error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	courses, err := s.repo.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	completions, err := s.progress.TopicCompletions(ctx, userID)
	if err != nil {
		return nil, err
	}
	progress := model.CourseProgress(completions)

	views := make([]model.CourseView, 0, len(courses))
	for _, c := range courses {
		v := model.CourseView{Course: c, HasAccess: model.HasAccess(&c, u)}
		if v.HasAccess {
			v.UserProgress = progress[c.CourseID]
		}
		views = append(views, v)
	}
	return views, nil
}

// accessibleCourse loads the course and checks the caller's entitlement.
func (s *courseService) accessibleCourse(ctx context.Context, userID string, courseID int64) (*model.Course, error) {
	course, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !model.HasAccess(course, u) {
		return nil, ErrCourseLocked
	}
	return course, nil
}

func markCompleted(lessons []model.Lesson, done map[int64]bool) {
	for i := range lessons {
		lessons[i].IsCompleted = done[lessons[i].LessonID]
	}
}

func (s *courseService) GetCourseDetail(ctx context.Context, userID string, courseID int64) (*CourseDetail, error) {
	course, err := s.accessibleCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	topics, err := s.repo.ListTopics(ctx, courseID)
	if err != nil {
		return nil, err
	}
	done, err := s.progress.CompletedLessons(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	values := make([]int, 0, len(topics))
	for i := range topics {
		markCompleted(topics[i].Lessons, done)
		values = append(values, topics[i].Progress())
	}
	return &CourseDetail{Course: *course, Topics: topics, Progress: model.AverageProgress(values)}, nil
}

func (s *courseService) GetTopicDetail(ctx context.Context, userID string, topicID int64) (*TopicDetail, error) {
	topic, err := s.repo.GetTopicByID(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, ErrTopicNotFound
	}
	course, err := s.accessibleCourse(ctx, userID, topic.CourseID)
	if err != nil {
		return nil, err
	}
	done, err := s.progress.CompletedLessons(ctx, userID, topic.CourseID)
	if err != nil {
		return nil, err
	}
	markCompleted(topic.Lessons, done)
	return &TopicDetail{Course: *course, Topic: *topic, Progress: topic.Progress()}, nil
}

func (s *courseService) ListCourses(ctx context.Context) ([]model.Course, error) {
	return s.repo.ListCourses(ctx)
}

func (s *courseService) GetCourse(ctx context.Context, courseID int64) (*model.Course, error) {
	c, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}
	return c, nil
}

// CreateCourse creates a new course record
func (s *courseService) CreateCourse(ctx context.Context, c *model.Course) (*model.Course, error) {
	if err := s.repo.CreateCourse(ctx, c); err != nil {
		s.logger.Error().Err(err).Msg("Failed to create course")
		return nil, err
	}
	return c, nil
}

// UpdateCourse updates an existing course record
func (s *courseService) UpdateCourse(ctx context.Context, c *model.Course) (*model.Course, error) {
	if err := s.repo.UpdateCourse(ctx, c); err != nil {
		return nil, notFoundAs(err, ErrCourseNotFound)
	}
	return c, nil
}

// DeleteCourse deletes a course with its topics and lessons
func (s *courseService) DeleteCourse(ctx context.Context, courseID int64) error {
	return notFoundAs(s.repo.DeleteCourse(ctx, courseID), ErrCourseNotFound)
}

func (s *courseService) ListTopics(ctx context.Context, courseID int64) ([]model.Topic, error) {
	if _, err := s.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}
	return s.repo.ListTopics(ctx, courseID)
}

func (s *courseService) CreateTopic(ctx context.Context, t *model.Topic) (*model.Topic, error) {
	if _, err := s.GetCourse(ctx, t.CourseID); err != nil {
		return nil, err
	}
	if err := s.repo.CreateTopic(ctx, t); err != nil {
		return nil, err
	}
	t.Lessons = []model.Lesson{}
	return t, nil
}

func (s *courseService) UpdateTopic(ctx context.Context, t *model.Topic) (*model.Topic, error) {
	if err := s.repo.UpdateTopic(ctx, t); err != nil {
		return nil, notFoundAs(err, ErrTopicNotFound)
	}
	return t, nil
}

func (s *courseService) DeleteTopic(ctx context.Context, topicID int64) error {
	return notFoundAs(s.repo.DeleteTopic(ctx, topicID), ErrTopicNotFound)
}

func (s *courseService) CreateLesson(ctx context.Context, l *model.Lesson) (*model.Lesson, error) {
	topic, err := s.repo.GetTopicByID(ctx, l.TopicID)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, ErrTopicNotFound
	}
	if err := s.repo.CreateLesson(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *courseService) UpdateLesson(ctx context.Context, l *model.Lesson) (*model.Lesson, error) {
	if err := s.repo.UpdateLesson(ctx, l); err != nil {
		return nil, notFoundAs(err, ErrLessonNotFound)
	}
	return l, nil
}

func (s *courseService) DeleteLesson(ctx context.Context, lessonID int64) error {
	return notFoundAs(s.repo.DeleteLesson(ctx, lessonID), ErrLessonNotFound)
}

func notFoundAs(err, target error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return target
	}
	return err
}
