package repository

import (
	"context"
	"database/sql"
	"errors"

	"streamlearn/internal/model"
)

type NotificationRepository interface {
	ListNotifications(ctx context.Context, activeOnly bool) ([]model.Notification, error)
	GetNotificationByID(ctx context.Context, id int64) (*model.Notification, error)
	CreateNotification(ctx context.Context, n *model.Notification) error
	UpdateNotification(ctx context.Context, n *model.Notification) error
	DeleteNotification(ctx context.Context, id int64) error
}

type notificationRepo struct {
	db *sql.DB
}

func NewNotificationRepo(db *sql.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

const notificationColumns = `id, message, type, is_active, has_button, button_text, button_url, created_at, updated_at`

func scanNotification(row rowScanner) (*model.Notification, error) {
	var n model.Notification
	if err := row.Scan(&n.NotificationID, &n.Message, &n.Type, &n.IsActive, &n.HasButton, &n.ButtonText, &n.ButtonURL, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepo) ListNotifications(ctx context.Context, activeOnly bool) ([]model.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

func (r *notificationRepo) GetNotificationByID(ctx context.Context, id int64) (*model.Notification, error) {
	n, err := scanNotification(r.db.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return n, err
}

func (r *notificationRepo) CreateNotification(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (message, type, is_active, has_button, button_text, button_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, n.Message, n.Type, n.IsActive, n.HasButton, n.ButtonText, n.ButtonURL).
		Scan(&n.NotificationID, &n.CreatedAt, &n.UpdatedAt)
}

func (r *notificationRepo) UpdateNotification(ctx context.Context, n *model.Notification) error {
	query := `
		UPDATE notifications
		SET message = $1, type = $2, is_active = $3, has_button = $4, button_text = $5, button_url = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, n.Message, n.Type, n.IsActive, n.HasButton, n.ButtonText, n.ButtonURL, n.NotificationID).
		Scan(&n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *notificationRepo) DeleteNotification(ctx context.Context, id int64) error {
	return expectOneRow(rowsAffected(r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)))
}
