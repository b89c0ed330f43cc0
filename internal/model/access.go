package model

import "math"

// HasAccess reports whether user may open course: the course is free or
// the user holds an entitlement for it.
func HasAccess(course *Course, user *User) bool {
	if course == nil {
		return false
	}
	if course.IsFree {
		return true
	}
	return user != nil && user.HasCourse(course.CourseID)
}

// Percent returns completed/total as a rounded percentage in [0,100].
func Percent(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return clampPercent(int(math.Round(float64(completed) * 100 / float64(total))))
}

// AverageProgress returns the rounded arithmetic mean of values, 0 for none.
func AverageProgress(values []int) int {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += clampPercent(v)
	}
	return clampPercent(int(math.Round(float64(sum) / float64(len(values)))))
}

func clampPercent(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
