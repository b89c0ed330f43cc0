package model

// AdminStats summarises the platform for the admin panel
type AdminStats struct {
	TotalUsers          int `json:"total_users"`
	ActiveUsers         int `json:"active_users"`
	LoginsToday         int `json:"logins_today"`
	NewUsersToday       int `json:"new_users_today"`
	TotalCourses        int `json:"total_courses"`
	TotalLessons        int `json:"total_lessons"`
	ActiveBanners       int `json:"active_banners"`
	ActiveNotifications int `json:"active_notifications"`
	CompletionRate      int `json:"completion_rate"`
}

// CourseView is a course as seen by one user
type CourseView struct {
	Course
	HasAccess    bool `json:"has_access"`
	UserProgress int  `json:"user_progress"`
}

// DashboardStats summarises a member's available courses
type DashboardStats struct {
	AvailableCourses  int `json:"available_courses"`
	CompletedCourses  int `json:"completed_courses"`
	InProgressCourses int `json:"in_progress_courses"`
	AvgProgress       int `json:"avg_progress"`
}

// SummarizeCourses computes dashboard statistics over the accessible courses.
func SummarizeCourses(courses []CourseView) DashboardStats {
	var stats DashboardStats
	var values []int
	for _, c := range courses {
		if !c.HasAccess {
			continue
		}
		stats.AvailableCourses++
		switch {
		case c.UserProgress >= 100:
			stats.CompletedCourses++
		case c.UserProgress > 0:
			stats.InProgressCourses++
		}
		values = append(values, c.UserProgress)
	}
	stats.AvgProgress = AverageProgress(values)
	return stats
}
