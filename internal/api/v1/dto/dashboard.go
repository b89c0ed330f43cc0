package dto

import (
	"time"

	"streamlearn/internal/model"
	"streamlearn/internal/service"
)

// BannerCreateDTO is used for creating and replacing banners
type BannerCreateDTO struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	Image       string `json:"image" validate:"omitempty,url"`
	Link        string `json:"link" validate:"omitempty,url"`
	ButtonText  string `json:"button_text" validate:"max=50"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

// ToModel builds a banner; banners are active unless stated otherwise.
func (d *BannerCreateDTO) ToModel() *model.Banner {
	active := true
	if d.IsActive != nil {
		active = *d.IsActive
	}
	return &model.Banner{
		Title:       d.Title,
		Description: d.Description,
		Image:       d.Image,
		Link:        d.Link,
		ButtonText:  d.ButtonText,
		IsActive:    active,
	}
}

// BannerResponseDTO is a carousel banner
type BannerResponseDTO struct {
	BannerID    int64     `json:"banner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Link        string    `json:"link"`
	ButtonText  string    `json:"button_text"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewBannerResponse(b *model.Banner) BannerResponseDTO {
	return BannerResponseDTO{
		BannerID:    b.BannerID,
		Title:       b.Title,
		Description: b.Description,
		Image:       b.Image,
		Link:        b.Link,
		ButtonText:  b.ButtonText,
		IsActive:    b.IsActive,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func NewBannerResponses(banners []model.Banner) []BannerResponseDTO {
	out := make([]BannerResponseDTO, 0, len(banners))
	for i := range banners {
		out = append(out, NewBannerResponse(&banners[i]))
	}
	return out
}

// NotificationCreateDTO is used for creating and replacing notifications
type NotificationCreateDTO struct {
	Message    string `json:"message" validate:"required"`
	Type       string `json:"type" validate:"required,oneof=info warning success"`
	HasButton  bool   `json:"has_button"`
	ButtonText string `json:"button_text" validate:"required_if=HasButton true,max=50"`
	ButtonURL  string `json:"button_url" validate:"required_if=HasButton true"`
	IsActive   *bool  `json:"is_active,omitempty"`
}

func (d *NotificationCreateDTO) ToModel() *model.Notification {
	active := true
	if d.IsActive != nil {
		active = *d.IsActive
	}
	return &model.Notification{
		Message:    d.Message,
		Type:       d.Type,
		HasButton:  d.HasButton,
		ButtonText: d.ButtonText,
		ButtonURL:  d.ButtonURL,
		IsActive:   active,
	}
}

// NotificationResponseDTO carries the markdown source and its rendered HTML
type NotificationResponseDTO struct {
	NotificationID int64     `json:"notification_id"`
	Message        string    `json:"message"`
	MessageHTML    string    `json:"message_html"`
	Type           string    `json:"type"`
	IsActive       bool      `json:"is_active"`
	HasButton      bool      `json:"has_button"`
	ButtonText     string    `json:"button_text,omitempty"`
	ButtonURL      string    `json:"button_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewNotificationResponse(n *model.Notification) NotificationResponseDTO {
	return NotificationResponseDTO{
		NotificationID: n.NotificationID,
		Message:        n.Message,
		MessageHTML:    service.RenderMarkdown(n.Message),
		Type:           n.Type,
		IsActive:       n.IsActive,
		HasButton:      n.HasButton,
		ButtonText:     n.ButtonText,
		ButtonURL:      n.ButtonURL,
		CreatedAt:      n.CreatedAt,
		UpdatedAt:      n.UpdatedAt,
	}
}

func NewNotificationResponses(notifications []model.Notification) []NotificationResponseDTO {
	out := make([]NotificationResponseDTO, 0, len(notifications))
	for i := range notifications {
		out = append(out, NewNotificationResponse(&notifications[i]))
	}
	return out
}

// DashboardResponseDTO is the member landing page
type DashboardResponseDTO struct {
	User                UserResponseDTO           `json:"user"`
	Banners             []BannerResponseDTO       `json:"banners"`
	CarouselIntervalSec int                       `json:"carousel_interval_sec"`
	CarouselIndex       int                       `json:"carousel_index"`
	Notifications       []NotificationResponseDTO `json:"notifications"`
	AvailableCourses    []CourseResponseDTO       `json:"available_courses"`
	LockedCourses       []CourseResponseDTO       `json:"locked_courses"`
	Stats               model.DashboardStats      `json:"stats"`
}

func NewDashboardResponse(d *service.Dashboard) DashboardResponseDTO {
	return DashboardResponseDTO{
		User:                NewUserResponse(d.User),
		Banners:             NewBannerResponses(d.Banners),
		CarouselIntervalSec: int(d.CarouselInterval / time.Second),
		CarouselIndex:       d.CarouselIndex,
		Notifications:       NewNotificationResponses(d.Notifications),
		AvailableCourses:    NewCourseViewResponses(d.AvailableCourses),
		LockedCourses:       NewCourseViewResponses(d.LockedCourses),
		Stats:               d.Stats,
	}
}
