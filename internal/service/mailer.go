package service

import (
	"context"
	"encoding/json"
	"fmt"

	"streamlearn/internal/email"
	"streamlearn/internal/model"
	"streamlearn/internal/repository"

	"github.com/rs/zerolog"
)

// Queue is the subset of the pgmq client used to enqueue jobs.
type Queue interface {
	Send(ctx context.Context, queue string, payload []byte) error
}

// Mailer queues transactional email for the email orchestrator.
type Mailer interface {
	QueueWelcome(ctx context.Context, u *model.User) error
}

type mailer struct {
	queue     Queue
	queueName string
	settings  repository.SettingsRepository
	logger    zerolog.Logger
}

func NewMailer(queue Queue, queueName string, settings repository.SettingsRepository, logger zerolog.Logger) Mailer {
	return &mailer{
		queue:     queue,
		queueName: queueName,
		settings:  settings,
		logger:    logger.With().Str("service", "Mailer").Logger(),
	}
}

// QueueWelcome enqueues a welcome message unless email notifications are switched off.
func (m *mailer) QueueWelcome(ctx context.Context, u *model.User) error {
	settings, err := m.settings.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if !settings.EmailNotifications {
		m.logger.Debug().Str("user_id", u.UserID).Msg("Email notifications disabled, welcome email skipped")
		return nil
	}

	msg := email.Message{
		To:      u.Email,
		Subject: fmt.Sprintf("Bem-vindo ao %s", settings.SiteName),
		Text:    fmt.Sprintf("Olá %s,\n\nSua conta no %s está pronta. Bons estudos!", u.Name, settings.SiteName),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := m.queue.Send(ctx, m.queueName, payload); err != nil {
		return fmt.Errorf("failed to enqueue welcome email: %w", err)
	}
	return nil
}

type noopMailer struct{}

func (noopMailer) QueueWelcome(context.Context, *model.User) error { return nil }
