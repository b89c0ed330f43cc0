package service

import (
	"context"
	"time"

	"streamlearn/internal/model"
	"streamlearn/internal/repository"
)

// Dashboard is the member landing page.
type Dashboard struct {
	User             *model.User
	Banners          []model.Banner
	CarouselInterval time.Duration
	CarouselIndex    int
	Notifications    []model.Notification
	AvailableCourses []model.CourseView
	LockedCourses    []model.CourseView
	Stats            model.DashboardStats
}

type DashboardService interface {
	GetDashboard(ctx context.Context, userID string, now time.Time) (*Dashboard, error)
}

type dashboardService struct {
	courses       CourseService
	users         repository.UserRepository
	banners       repository.BannerRepository
	notifications repository.NotificationRepository
	interval      time.Duration
}

func NewDashboardService(
	courses CourseService,
	users repository.UserRepository,
	banners repository.BannerRepository,
	notifications repository.NotificationRepository,
	interval time.Duration,
) DashboardService {
	return &dashboardService{
		courses:       courses,
		users:         users,
		banners:       banners,
		notifications: notifications,
		interval:      interval,
	}
}

// GetDashboard gathers the caller's courses, active banners and notifications.
// The carousel index is derived from wall-clock time so every client agrees on it.
func (s *dashboardService) GetDashboard(ctx context.Context, userID string, now time.Time) (*Dashboard, error) {
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

	views, err := s.courses.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	banners, err := s.banners.ListBanners(ctx, true)
	if err != nil {
		return nil, err
	}
	banners = model.ActiveBanners(banners)
	notifications, err := s.notifications.ListNotifications(ctx, true)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		User:             u,
		Banners:          banners,
		CarouselInterval: s.interval,
		Notifications:    notifications,
		AvailableCourses: []model.CourseView{},
		LockedCourses:    []model.CourseView{},
		Stats:            model.SummarizeCourses(views),
	}
	d.CarouselIndex = model.NewCarousel(len(banners)).IndexAt(time.Duration(now.UnixNano()), s.interval)
	for _, v := range views {
		if v.HasAccess {
			d.AvailableCourses = append(d.AvailableCourses, v)
		} else {
			d.LockedCourses = append(d.LockedCourses, v)
		}
	}
	return d, nil
}
