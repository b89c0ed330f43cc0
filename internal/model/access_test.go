package model_test

import (
	"testing"

	"streamlearn/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestHasAccess(t *testing.T) {
	member := &model.User{AccessibleCourses: []int64{2, 5}}
	empty := &model.User{}

	tests := []struct {
		name   string
		course *model.Course
		user   *model.User
		want   bool
	}{
		{name: "free course, no entitlements", course: &model.Course{CourseID: 1, IsFree: true}, user: empty, want: true},
		{name: "paid course, entitled", course: &model.Course{CourseID: 2}, user: member, want: true},
		{name: "paid course, not entitled", course: &model.Course{CourseID: 3}, user: member, want: false},
		{name: "paid course, empty entitlements", course: &model.Course{CourseID: 2}, user: empty, want: false},
		{name: "free and entitled", course: &model.Course{CourseID: 5, IsFree: true}, user: member, want: true},
		{name: "nil user sees free", course: &model.Course{CourseID: 9, IsFree: true}, user: nil, want: true},
		{name: "nil user paid", course: &model.Course{CourseID: 9}, user: nil, want: false},
		{name: "nil course", course: nil, user: member, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.HasAccess(tt.course, tt.user))
		})
	}
}

func TestHasAccessMatchesEntitlementRule(t *testing.T) {
	user := &model.User{AccessibleCourses: []int64{1, 3, 7}}
	for id := int64(0); id < 10; id++ {
		for _, free := range []bool{true, false} {
			course := &model.Course{CourseID: id, IsFree: free}
			assert.Equal(t, free || user.HasCourse(id), model.HasAccess(course, user), "course %d free=%v", id, free)
		}
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, model.Percent(0, 0))
	assert.Equal(t, 0, model.Percent(3, 0))
	assert.Equal(t, 0, model.Percent(0, 4))
	assert.Equal(t, 50, model.Percent(1, 2))
	assert.Equal(t, 33, model.Percent(1, 3))
	assert.Equal(t, 67, model.Percent(2, 3))
	assert.Equal(t, 100, model.Percent(3, 3))
	assert.Equal(t, 100, model.Percent(5, 3))
	assert.Equal(t, 0, model.Percent(-1, 3))
}

func TestAverageProgress(t *testing.T) {
	assert.Equal(t, 0, model.AverageProgress(nil))
	assert.Equal(t, 100, model.AverageProgress([]int{100}))
	assert.Equal(t, 50, model.AverageProgress([]int{100, 0}))
	assert.Equal(t, 38, model.AverageProgress([]int{100, 0, 15}))
	assert.Equal(t, 67, model.AverageProgress([]int{100, 100, 0}))
	assert.Equal(t, 100, model.AverageProgress([]int{250, 100}))
	assert.Equal(t, 0, model.AverageProgress([]int{-20, 0}))
}

func TestAverageProgressStaysInRange(t *testing.T) {
	for a := 0; a <= 100; a += 7 {
		for b := 0; b <= 100; b += 11 {
			got := model.AverageProgress([]int{a, b})
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		}
	}
}

func TestTopicProgress(t *testing.T) {
	topic := model.Topic{Lessons: []model.Lesson{{IsCompleted: true}, {IsCompleted: true}, {}, {}}}
	assert.Equal(t, 50, topic.Progress())

	assert.Equal(t, 0, (&model.Topic{}).Progress())
}

func TestCourseProgress(t *testing.T) {
	completions := []model.TopicCompletion{
		{CourseID: 1, TopicID: 10, TotalLessons: 2, CompletedLessons: 2},
		{CourseID: 1, TopicID: 11, TotalLessons: 2, CompletedLessons: 1},
		{CourseID: 1, TopicID: 12, TotalLessons: 2, CompletedLessons: 0},
		{CourseID: 2, TopicID: 20, TotalLessons: 0, CompletedLessons: 0},
	}
	got := model.CourseProgress(completions)
	assert.Equal(t, 50, got[1])
	assert.Equal(t, 0, got[2])
	_, ok := got[3]
	assert.False(t, ok)
}

func TestToggleCourse(t *testing.T) {
	u := &model.User{AccessibleCourses: []int64{1, 2}}
	assert.False(t, u.ToggleCourse(1))
	assert.Equal(t, []int64{2}, u.AccessibleCourses)
	assert.True(t, u.ToggleCourse(4))
	assert.Equal(t, []int64{2, 4}, u.AccessibleCourses)
}

func TestSummarizeCourses(t *testing.T) {
	courses := []model.CourseView{
		{Course: model.Course{CourseID: 1}, HasAccess: true, UserProgress: 100},
		{Course: model.Course{CourseID: 2}, HasAccess: true, UserProgress: 40},
		{Course: model.Course{CourseID: 3}, HasAccess: true, UserProgress: 0},
		{Course: model.Course{CourseID: 4}, HasAccess: false, UserProgress: 90},
	}
	stats := model.SummarizeCourses(courses)
	assert.Equal(t, model.DashboardStats{AvailableCourses: 3, CompletedCourses: 1, InProgressCourses: 1, AvgProgress: 47}, stats)

	assert.Equal(t, model.DashboardStats{}, model.SummarizeCourses(nil))
}
