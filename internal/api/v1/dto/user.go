package dto

import (
	"time"

	"streamlearn/internal/model"
)

// RegisterRequestDTO is the self sign-up body
type RegisterRequestDTO struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequestDTO is the sign-in body
type LoginRequestDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponseDTO carries the session token and the signed-in user
type AuthResponseDTO struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      UserResponseDTO `json:"user"`
}

// UserResponseDTO is returned in API responses
type UserResponseDTO struct {
	UserID            string     `json:"user_id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	IsActive          bool       `json:"is_active"`
	IsAdmin           bool       `json:"is_admin"`
	AccessibleCourses []int64    `json:"accessible_courses"`
	IPAddress         *string    `json:"ip_address,omitempty"`
	LastLogin         *time.Time `json:"last_login,omitempty"`
	LoginCount        int        `json:"login_count"`
	RegistrationDate  time.Time  `json:"registration_date"`
}

func NewUserResponse(u *model.User) UserResponseDTO {
	courses := u.AccessibleCourses
	if courses == nil {
		courses = []int64{}
	}
	return UserResponseDTO{
		UserID:            u.UserID,
		Name:              u.Name,
		Email:             u.Email,
		IsActive:          u.IsActive,
		IsAdmin:           u.IsAdmin,
		AccessibleCourses: courses,
		IPAddress:         u.IPAddress,
		LastLogin:         u.LastLogin,
		LoginCount:        u.LoginCount,
		RegistrationDate:  u.RegistrationDate,
	}
}

// AdminUserCreateDTO is used by admins to add a member directly
type AdminUserCreateDTO struct {
	Name              string  `json:"name" validate:"required,min=2,max=100"`
	Email             string  `json:"email" validate:"required,email"`
	Password          string  `json:"password" validate:"omitempty,min=6,max=72"`
	IsAdmin           bool    `json:"is_admin"`
	AccessibleCourses []int64 `json:"accessible_courses" validate:"dive,gt=0"`
}

// AdminUserUpdateDTO changes account flags; absent fields are left alone
type AdminUserUpdateDTO struct {
	IsActive *bool   `json:"is_active,omitempty"`
	IsAdmin  *bool   `json:"is_admin,omitempty"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
}

// LoginSessionResponseDTO is one recorded sign-in
type LoginSessionResponseDTO struct {
	ID         int64      `json:"id"`
	IPAddress  string     `json:"ip_address"`
	UserAgent  string     `json:"user_agent"`
	LoginTime  time.Time  `json:"login_time"`
	LogoutTime *time.Time `json:"logout_time,omitempty"`
	IsActive   bool       `json:"is_active"`
}

func NewLoginSessionResponses(sessions []model.LoginSession) []LoginSessionResponseDTO {
	out := make([]LoginSessionResponseDTO, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, LoginSessionResponseDTO{
			ID:         s.ID,
			IPAddress:  s.IPAddress,
			UserAgent:  s.UserAgent,
			LoginTime:  s.LoginTime,
			LogoutTime: s.LogoutTime,
			IsActive:   s.IsActive,
		})
	}
	return out
}
