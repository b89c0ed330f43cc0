package repository

import (
	"context"
	"database/sql"

	"streamlearn/internal/model"
)

// StatsRepository computes admin panel counters
type StatsRepository interface {
	// Counts fills every AdminStats field except CompletionRate.
	Counts(ctx context.Context) (*model.AdminStats, error)
}

type statsRepo struct {
	db *sql.DB
}

func NewStatsRepo(db *sql.DB) StatsRepository {
	return &statsRepo{db: db}
}

func (r *statsRepo) Counts(ctx context.Context) (*model.AdminStats, error) {
	var s model.AdminStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE is_active),
			(SELECT COUNT(*) FROM login_sessions WHERE login_time >= date_trunc('day', NOW())),
			(SELECT COUNT(*) FROM users WHERE registration_date >= date_trunc('day', NOW())),
			(SELECT COUNT(*) FROM courses),
			(SELECT COUNT(*) FROM lessons),
			(SELECT COUNT(*) FROM banners WHERE is_active),
			(SELECT COUNT(*) FROM notifications WHERE is_active)`).Scan(
		&s.TotalUsers,
		&s.ActiveUsers,
		&s.LoginsToday,
		&s.NewUsersToday,
		&s.TotalCourses,
		&s.TotalLessons,
		&s.ActiveBanners,
		&s.ActiveNotifications,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
