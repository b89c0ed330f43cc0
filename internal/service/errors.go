package service

import "errors"

var (
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrUserInactive           = errors.New("user account is inactive")
	ErrUserNotFound           = errors.New("user not found")
	ErrRegistrationClosed     = errors.New("registration is disabled")
	ErrEmailAlreadyRegistered = errors.New("email is already registered")
	ErrWeakPassword           = errors.New("password is too short")

	ErrCourseNotFound = errors.New("course not found")
	ErrCourseLocked   = errors.New("course is locked for this user")
	ErrTopicNotFound  = errors.New("topic not found")
	ErrLessonNotFound = errors.New("lesson not found")

	ErrBannerNotFound       = errors.New("banner not found")
	ErrNotificationNotFound = errors.New("notification not found")

	ErrInvalidUploadKind   = errors.New("invalid upload kind")
	ErrInvalidContentType  = errors.New("content type must be an image")
	ErrStorageUnconfigured = errors.New("object storage is not configured")
)
