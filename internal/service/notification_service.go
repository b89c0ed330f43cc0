package service

import (
	"bytes"
	"context"
	"html/template"

	"streamlearn/internal/model"
	"streamlearn/internal/repository"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in notification markdown is dropped (WithUnsafe is not set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// RenderMarkdown converts a notification message to HTML.
func RenderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTMLEscapeString(md)
	}
	return buf.String()
}

type NotificationService interface {
	ListNotifications(ctx context.Context) ([]model.Notification, error)
	GetNotification(ctx context.Context, id int64) (*model.Notification, error)
	CreateNotification(ctx context.Context, n *model.Notification) (*model.Notification, error)
	UpdateNotification(ctx context.Context, n *model.Notification) (*model.Notification, error)
	ToggleNotification(ctx context.Context, id int64) (*model.Notification, error)
	DeleteNotification(ctx context.Context, id int64) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) ListNotifications(ctx context.Context) ([]model.Notification, error) {
	return s.repo.ListNotifications(ctx, false)
}

func (s *notificationService) GetNotification(ctx context.Context, id int64) (*model.Notification, error) {
	n, err := s.repo.GetNotificationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotificationNotFound
	}
	return n, nil
}

func (s *notificationService) CreateNotification(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	clearButton(n)
	if err := n.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *notificationService) UpdateNotification(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	clearButton(n)
	if err := n.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateNotification(ctx, n); err != nil {
		return nil, notFoundAs(err, ErrNotificationNotFound)
	}
	return n, nil
}

func (s *notificationService) ToggleNotification(ctx context.Context, id int64) (*model.Notification, error) {
	n, err := s.GetNotification(ctx, id)
	if err != nil {
		return nil, err
	}
	n.IsActive = !n.IsActive
	return s.UpdateNotification(ctx, n)
}

func (s *notificationService) DeleteNotification(ctx context.Context, id int64) error {
	return notFoundAs(s.repo.DeleteNotification(ctx, id), ErrNotificationNotFound)
}

// clearButton drops stale button fields when the call to action is off.
func clearButton(n *model.Notification) {
	if !n.HasButton {
		n.ButtonText = ""
		n.ButtonURL = ""
	}
}
