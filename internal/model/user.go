package model

import "time"

// User represents a platform member or administrator
type User struct {
	UserID            string     `db:"id" json:"user_id"`
	Name              string     `db:"name" json:"name"`
	Email             string     `db:"email" json:"email"`
	PasswordHash      string     `db:"password_hash" json:"-"`
	IsActive          bool       `db:"is_active" json:"is_active"`
	IsAdmin           bool       `db:"is_admin" json:"is_admin"`
	AccessibleCourses []int64    `db:"accessible_courses" json:"accessible_courses"`
	IPAddress         *string    `db:"ip_address" json:"ip_address,omitempty"`
	LastLogin         *time.Time `db:"last_login" json:"last_login,omitempty"`
	LoginCount        int        `db:"login_count" json:"login_count"`
	RegistrationDate  time.Time  `db:"registration_date" json:"registration_date"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// HasCourse reports whether courseID is in the user's entitlement set.
func (u *User) HasCourse(courseID int64) bool {
	for _, id := range u.AccessibleCourses {
		if id == courseID {
			return true
		}
	}
	return false
}

// ToggleCourse adds courseID to the entitlement set, or removes it when present.
// It returns true when the user has access afterwards.
func (u *User) ToggleCourse(courseID int64) bool {
	for i, id := range u.AccessibleCourses {
		if id == courseID {
			u.AccessibleCourses = append(u.AccessibleCourses[:i:i], u.AccessibleCourses[i+1:]...)
			return false
		}
	}
	u.AccessibleCourses = append(u.AccessibleCourses, courseID)
	return true
}

// LoginSession is one recorded sign-in
type LoginSession struct {
	ID         int64      `db:"id" json:"id"`
	UserID     string     `db:"user_id" json:"user_id"`
	TokenID    string     `db:"token_id" json:"-"`
	IPAddress  string     `db:"ip_address" json:"ip_address"`
	UserAgent  string     `db:"user_agent" json:"user_agent"`
	LoginTime  time.Time  `db:"login_time" json:"login_time"`
	LogoutTime *time.Time `db:"logout_time" json:"logout_time,omitempty"`
	IsActive   bool       `db:"is_active" json:"is_active"`
}
