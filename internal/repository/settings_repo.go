package repository

import (
	"context"
	"database/sql"
	"errors"

	"streamlearn/internal/model"
)

// SettingsRepository reads and writes the single site_settings row
type SettingsRepository interface {
	GetSettings(ctx context.Context) (*model.SiteSettings, error)
	UpdateSettings(ctx context.Context, s *model.SiteSettings) error
}

type settingsRepo struct {
	db *sql.DB
}

func NewSettingsRepo(db *sql.DB) SettingsRepository {
	return &settingsRepo{db: db}
}

// GetSettings returns the stored row, or the defaults when it is missing.
func (r *settingsRepo) GetSettings(ctx context.Context) (*model.SiteSettings, error) {
	var s model.SiteSettings
	err := r.db.QueryRowContext(ctx, `
		SELECT site_name, logo, primary_color, secondary_color, maintenance_mode,
		       registration_enabled, email_notifications, updated_at
		FROM site_settings WHERE id = 1`).Scan(
		&s.SiteName,
		&s.Logo,
		&s.PrimaryColor,
		&s.SecondaryColor,
		&s.MaintenanceMode,
		&s.RegistrationEnabled,
		&s.EmailNotifications,
		&s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		d := model.DefaultSiteSettings()
		return &d, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepo) UpdateSettings(ctx context.Context, s *model.SiteSettings) error {
	query := `
		INSERT INTO site_settings (id, site_name, logo, primary_color, secondary_color, maintenance_mode,
		                           registration_enabled, email_notifications, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (id) DO UPDATE
		SET site_name = EXCLUDED.site_name,
		    logo = EXCLUDED.logo,
		    primary_color = EXCLUDED.primary_color,
		    secondary_color = EXCLUDED.secondary_color,
		    maintenance_mode = EXCLUDED.maintenance_mode,
		    registration_enabled = EXCLUDED.registration_enabled,
		    email_notifications = EXCLUDED.email_notifications,
		    updated_at = NOW()
		RETURNING updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		s.SiteName, s.Logo, s.PrimaryColor, s.SecondaryColor, s.MaintenanceMode, s.RegistrationEnabled, s.EmailNotifications,
	).Scan(&s.UpdatedAt)
}
