package service

import (
	"context"
	"sync"
	"time"

	"streamlearn/internal/model"
	"streamlearn/internal/repository"

	"github.com/rs/zerolog"
)

// SettingsService reads site settings with a short cache, since the
// maintenance check runs on every request.
type SettingsService interface {
	GetSettings(ctx context.Context) (*model.SiteSettings, error)
	UpdateSettings(ctx context.Context, s *model.SiteSettings) (*model.SiteSettings, error)
}

type settingsService struct {
	repo   repository.SettingsRepository
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger

	mu       sync.Mutex
	cached   *model.SiteSettings
	cachedAt time.Time
}

func NewSettingsService(repo repository.SettingsRepository, ttl time.Duration, logger zerolog.Logger) SettingsService {
	return &settingsService{
		repo:   repo,
		ttl:    ttl,
		now:    time.Now,
		logger: logger.With().Str("service", "SettingsService").Logger(),
	}
}

func (s *settingsService) GetSettings(ctx context.Context) (*model.SiteSettings, error) {
	s.mu.Lock()
	if s.cached != nil && s.now().Sub(s.cachedAt) < s.ttl {
		c := *s.cached
		s.mu.Unlock()
		return &c, nil
	}
	s.mu.Unlock()

	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	s.store(settings)
	c := *settings
	return &c, nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, settings *model.SiteSettings) (*model.SiteSettings, error) {
	if err := s.repo.UpdateSettings(ctx, settings); err != nil {
		return nil, err
	}
	s.store(settings)
	s.logger.Info().
		Bool("maintenance_mode", settings.MaintenanceMode).
		Bool("registration_enabled", settings.RegistrationEnabled).
		Msg("Site settings updated")
	return settings, nil
}

func (s *settingsService) store(settings *model.SiteSettings) {
	c := *settings
	s.mu.Lock()
	s.cached = &c
	s.cachedAt = s.now()
	s.mu.Unlock()
}
