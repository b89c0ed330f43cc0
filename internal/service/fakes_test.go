package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"streamlearn/internal/model"
	"streamlearn/internal/pubsub"
	"streamlearn/internal/repository"
)

type fakeUserRepo struct {
	mu       sync.Mutex
	users    map[string]*model.User
	sessions []model.LoginSession
	nextSess int64
	// loginErr fails the login half of CreateUserWithLogin.
	loginErr error
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*model.User{}}
	for _, u := range users {
		r.users[u.UserID] = u
	}
	return r
}

func (r *fakeUserRepo) CreateUser(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.CreatedAt = time.Now()
	u.RegistrationDate = u.CreatedAt
	c := *u
	r.users[u.UserID] = &c
	return nil
}

func (r *fakeUserRepo) CreateUserWithLogin(ctx context.Context, u *model.User, s *model.LoginSession) error {
	if r.loginErr != nil {
		return r.loginErr
	}
	if err := r.CreateUser(ctx, u); err != nil {
		return err
	}
	return r.RegisterLogin(ctx, s)
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	c.AccessibleCourses = append([]int64{}, u.AccessibleCourses...)
	return &c, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ListUsers(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.User{}
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *fakeUserRepo) update(id string, fn func(*model.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(u)
	return nil
}

func (r *fakeUserRepo) SetActive(_ context.Context, id string, active bool) error {
	return r.update(id, func(u *model.User) { u.IsActive = active })
}

func (r *fakeUserRepo) SetAdmin(_ context.Context, id string, admin bool) error {
	return r.update(id, func(u *model.User) { u.IsAdmin = admin })
}

func (r *fakeUserRepo) changeCourse(id string, fn func(*model.User)) (*model.User, error) {
	var out model.User
	if err := r.update(id, func(u *model.User) {
		fn(u)
		out = *u
		out.AccessibleCourses = append([]int64{}, u.AccessibleCourses...)
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *fakeUserRepo) GrantCourse(_ context.Context, id string, courseID int64) (*model.User, error) {
	return r.changeCourse(id, func(u *model.User) {
		if !u.HasCourse(courseID) {
			u.ToggleCourse(courseID)
		}
	})
}

func (r *fakeUserRepo) RevokeCourse(_ context.Context, id string, courseID int64) (*model.User, error) {
	return r.changeCourse(id, func(u *model.User) {
		if u.HasCourse(courseID) {
			u.ToggleCourse(courseID)
		}
	})
}

func (r *fakeUserRepo) ToggleCourse(_ context.Context, id string, courseID int64) (*model.User, error) {
	return r.changeCourse(id, func(u *model.User) { u.ToggleCourse(courseID) })
}

func (r *fakeUserRepo) SetPasswordHash(_ context.Context, id, hash string) error {
	return r.update(id, func(u *model.User) { u.PasswordHash = hash })
}

func (r *fakeUserRepo) RegisterLogin(_ context.Context, s *model.LoginSession) error {
	if err := r.update(s.UserID, func(u *model.User) {
		u.LoginCount++
		t := s.LoginTime
		u.LastLogin = &t
		ip := s.IPAddress
		u.IPAddress = &ip
	}); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextSess++
	s.ID = r.nextSess
	s.IsActive = true
	r.sessions = append(r.sessions, *s)
	return nil
}

func (r *fakeUserRepo) EndSession(_ context.Context, sessionID int64, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.sessions {
		if r.sessions[i].ID == sessionID && r.sessions[i].UserID == userID {
			r.sessions[i].IsActive = false
			r.sessions[i].LogoutTime = &at
		}
	}
	return nil
}

func (r *fakeUserRepo) ListSessions(_ context.Context, userID string, limit int) ([]model.LoginSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.LoginSession{}
	for i := len(r.sessions) - 1; i >= 0 && len(out) < limit; i-- {
		if r.sessions[i].UserID == userID {
			out = append(out, r.sessions[i])
		}
	}
	return out, nil
}

type fakeCourseRepo struct {
	courses map[int64]*model.Course
	topics  map[int64]*model.Topic
	lessons map[int64]*model.Lesson
	nextID  int64
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{
		courses: map[int64]*model.Course{},
		topics:  map[int64]*model.Topic{},
		lessons: map[int64]*model.Lesson{},
		nextID:  100,
	}
}

func (r *fakeCourseRepo) id() int64 {
	r.nextID++
	return r.nextID
}

// seed helpers
func (r *fakeCourseRepo) addCourse(id int64, title string, free bool) {
	r.courses[id] = &model.Course{CourseID: id, Title: title, IsFree: free}
}

func (r *fakeCourseRepo) addTopic(id, courseID int64, order int) {
	r.topics[id] = &model.Topic{TopicID: id, CourseID: courseID, Title: "topic", OrderIndex: order}
}

func (r *fakeCourseRepo) addLesson(id, topicID int64, order int) {
	r.lessons[id] = &model.Lesson{LessonID: id, TopicID: topicID, Title: "lesson", OrderIndex: order}
}

func (r *fakeCourseRepo) ListCourses(_ context.Context) ([]model.Course, error) {
	out := []model.Course{}
	for _, c := range r.courses {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseID < out[j].CourseID })
	return out, nil
}

func (r *fakeCourseRepo) GetCourseByID(_ context.Context, id int64) (*model.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCourseRepo) CreateCourse(_ context.Context, c *model.Course) error {
	c.CourseID = r.id()
	cp := *c
	r.courses[c.CourseID] = &cp
	return nil
}

func (r *fakeCourseRepo) UpdateCourse(_ context.Context, c *model.Course) error {
	if _, ok := r.courses[c.CourseID]; !ok {
		return repository.ErrNotFound
	}
	cp := *c
	r.courses[c.CourseID] = &cp
	return nil
}

func (r *fakeCourseRepo) DeleteCourse(_ context.Context, id int64) error {
	if _, ok := r.courses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.courses, id)
	return nil
}

func (r *fakeCourseRepo) lessonsOf(topicID int64) []model.Lesson {
	out := []model.Lesson{}
	for _, l := range r.lessons {
		if l.TopicID == topicID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

func (r *fakeCourseRepo) ListTopics(_ context.Context, courseID int64) ([]model.Topic, error) {
	out := []model.Topic{}
	for _, t := range r.topics {
		if t.CourseID == courseID {
			cp := *t
			cp.Lessons = r.lessonsOf(t.TopicID)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (r *fakeCourseRepo) GetTopicByID(_ context.Context, id int64) (*model.Topic, error) {
	t, ok := r.topics[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	cp.Lessons = r.lessonsOf(id)
	return &cp, nil
}

func (r *fakeCourseRepo) CreateTopic(_ context.Context, t *model.Topic) error {
	t.TopicID = r.id()
	cp := *t
	r.topics[t.TopicID] = &cp
	return nil
}

func (r *fakeCourseRepo) UpdateTopic(_ context.Context, t *model.Topic) error {
	existing, ok := r.topics[t.TopicID]
	if !ok {
		return repository.ErrNotFound
	}
	t.CourseID = existing.CourseID
	cp := *t
	r.topics[t.TopicID] = &cp
	return nil
}

func (r *fakeCourseRepo) DeleteTopic(_ context.Context, id int64) error {
	if _, ok := r.topics[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.topics, id)
	return nil
}

func (r *fakeCourseRepo) GetLessonByID(_ context.Context, id int64) (*model.Lesson, error) {
	l, ok := r.lessons[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *fakeCourseRepo) CreateLesson(_ context.Context, l *model.Lesson) error {
	l.LessonID = r.id()
	cp := *l
	r.lessons[l.LessonID] = &cp
	return nil
}

func (r *fakeCourseRepo) UpdateLesson(_ context.Context, l *model.Lesson) error {
	existing, ok := r.lessons[l.LessonID]
	if !ok {
		return repository.ErrNotFound
	}
	l.TopicID = existing.TopicID
	cp := *l
	r.lessons[l.LessonID] = &cp
	return nil
}

func (r *fakeCourseRepo) DeleteLesson(_ context.Context, id int64) error {
	if _, ok := r.lessons[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.lessons, id)
	return nil
}

type fakeProgressRepo struct {
	courses *fakeCourseRepo
	done    map[string]map[int64]*model.LessonProgress
}

func newFakeProgressRepo(courses *fakeCourseRepo) *fakeProgressRepo {
	return &fakeProgressRepo{courses: courses, done: map[string]map[int64]*model.LessonProgress{}}
}

func (r *fakeProgressRepo) CompleteLesson(_ context.Context, p *model.LessonProgress) error {
	if r.done[p.UserID] == nil {
		r.done[p.UserID] = map[int64]*model.LessonProgress{}
	}
	existing, ok := r.done[p.UserID][p.LessonID]
	if ok && existing.CompletedAt != nil {
		p.CompletedAt = existing.CompletedAt
	} else {
		now := time.Now()
		p.CompletedAt = &now
	}
	p.IsCompleted = true
	cp := *p
	r.done[p.UserID][p.LessonID] = &cp
	return nil
}

func (r *fakeProgressRepo) UncompleteLesson(_ context.Context, userID string, lessonID int64) error {
	if p, ok := r.done[userID][lessonID]; ok {
		p.IsCompleted = false
		p.CompletedAt = nil
	}
	return nil
}

func (r *fakeProgressRepo) isDone(userID string, lessonID int64) bool {
	p, ok := r.done[userID][lessonID]
	return ok && p.IsCompleted
}

func (r *fakeProgressRepo) CompletedLessons(_ context.Context, userID string, courseID int64) (map[int64]bool, error) {
	out := map[int64]bool{}
	for id, l := range r.courses.lessons {
		t := r.courses.topics[l.TopicID]
		if t != nil && t.CourseID == courseID && r.isDone(userID, id) {
			out[id] = true
		}
	}
	return out, nil
}

func (r *fakeProgressRepo) completions(userID string) []model.TopicCompletion {
	out := []model.TopicCompletion{}
	for _, t := range r.courses.topics {
		c := model.TopicCompletion{CourseID: t.CourseID, TopicID: t.TopicID}
		for _, l := range r.courses.lessonsOf(t.TopicID) {
			c.TotalLessons++
			if r.isDone(userID, l.LessonID) {
				c.CompletedLessons++
			}
		}
		out = append(out, c)
	}
	return out
}

func (r *fakeProgressRepo) TopicCompletions(_ context.Context, userID string) ([]model.TopicCompletion, error) {
	return r.completions(userID), nil
}

func (r *fakeProgressRepo) StartedCourseCompletions(_ context.Context) (map[string][]model.TopicCompletion, error) {
	out := map[string][]model.TopicCompletion{}
	for userID := range r.done {
		started := map[int64]bool{}
		for _, c := range r.completions(userID) {
			if c.CompletedLessons > 0 {
				started[c.CourseID] = true
			}
		}
		for _, c := range r.completions(userID) {
			if started[c.CourseID] {
				out[userID] = append(out[userID], c)
			}
		}
	}
	return out, nil
}

type fakeSettingsRepo struct {
	settings model.SiteSettings
	reads    int
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: model.DefaultSiteSettings()}
}

func (r *fakeSettingsRepo) GetSettings(_ context.Context) (*model.SiteSettings, error) {
	r.reads++
	s := r.settings
	return &s, nil
}

func (r *fakeSettingsRepo) UpdateSettings(_ context.Context, s *model.SiteSettings) error {
	s.UpdatedAt = time.Now()
	r.settings = *s
	return nil
}

type fakeBannerRepo struct {
	banners []model.Banner
}

func (r *fakeBannerRepo) ListBanners(_ context.Context, activeOnly bool) ([]model.Banner, error) {
	out := []model.Banner{}
	for _, b := range r.banners {
		if !activeOnly || b.IsActive {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBannerRepo) GetBannerByID(_ context.Context, id int64) (*model.Banner, error) {
	for _, b := range r.banners {
		if b.BannerID == id {
			cp := b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeBannerRepo) CreateBanner(_ context.Context, b *model.Banner) error {
	b.BannerID = int64(len(r.banners) + 1)
	r.banners = append(r.banners, *b)
	return nil
}

func (r *fakeBannerRepo) UpdateBanner(_ context.Context, b *model.Banner) error {
	for i := range r.banners {
		if r.banners[i].BannerID == b.BannerID {
			r.banners[i] = *b
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeBannerRepo) DeleteBanner(_ context.Context, id int64) error {
	for i := range r.banners {
		if r.banners[i].BannerID == id {
			r.banners = append(r.banners[:i], r.banners[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeNotificationRepo struct {
	items []model.Notification
}

func (r *fakeNotificationRepo) ListNotifications(_ context.Context, activeOnly bool) ([]model.Notification, error) {
	out := []model.Notification{}
	for _, n := range r.items {
		if !activeOnly || n.IsActive {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) GetNotificationByID(_ context.Context, id int64) (*model.Notification, error) {
	for _, n := range r.items {
		if n.NotificationID == id {
			cp := n
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeNotificationRepo) CreateNotification(_ context.Context, n *model.Notification) error {
	n.NotificationID = int64(len(r.items) + 1)
	r.items = append(r.items, *n)
	return nil
}

func (r *fakeNotificationRepo) UpdateNotification(_ context.Context, n *model.Notification) error {
	for i := range r.items {
		if r.items[i].NotificationID == n.NotificationID {
			r.items[i] = *n
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeNotificationRepo) DeleteNotification(_ context.Context, id int64) error {
	for i := range r.items {
		if r.items[i].NotificationID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type recordingSink struct {
	events []pubsub.Event
}

func (s *recordingSink) Emit(_ context.Context, ev pubsub.Event) {
	s.events = append(s.events, ev)
}

func (s *recordingSink) types() []string {
	out := []string{}
	for _, ev := range s.events {
		out = append(out, ev.Type)
	}
	return out
}

type recordingQueue struct {
	queue    string
	payloads [][]byte
}

func (q *recordingQueue) Send(_ context.Context, queue string, payload []byte) error {
	q.queue = queue
	q.payloads = append(q.payloads, payload)
	return nil
}
