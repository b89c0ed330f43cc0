package email

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"streamlearn/internal/config"
	mail "streamlearn/internal/email"
	"streamlearn/internal/pgmq"

	"github.com/rs/zerolog"
)

// Queue is the subset of the pgmq client the dispatcher needs.
type Queue interface {
	ReadWithPoll(ctx context.Context, queue string, visibilityTimeoutSec, timeoutSec, maxMessages int) ([]*pgmq.Message, error)
	Send(ctx context.Context, queue string, payload []byte) error
	Delete(ctx context.Context, queue string, msgIDs []int64) error
}

// Options tune polling and retries.
type Options struct {
	QueueName       string
	DeadLetterQueue string
	PollTimeoutSec  int
	MaxMessages     int
	MaxRetries      int
	BackoffInitial  time.Duration
	BackoffMax      time.Duration
}

// OptionsFromConfig reads the EMAIL_* settings.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		QueueName:       cfg.EmailQueueName,
		DeadLetterQueue: cfg.EmailDeadLetterQueueName,
		PollTimeoutSec:  cfg.EmailPollTimeoutSec,
		MaxMessages:     cfg.EmailPollMaxMsg,
		MaxRetries:      cfg.EmailMaxRetries,
		BackoffInitial:  time.Duration(cfg.EmailBackoffInitialSec) * time.Second,
		BackoffMax:      time.Duration(cfg.EmailBackoffMaxSec) * time.Second,
	}
}

// backoff returns the wait before retry attempt n (0-based), doubling up to max.
func (o Options) backoff(n int) time.Duration {
	d := o.BackoffInitial
	for i := 0; i < n && d < o.BackoffMax; i++ {
		d *= 2
	}
	if d > o.BackoffMax {
		d = o.BackoffMax
	}
	return d
}

// visibilityTimeoutSec hides a message for longer than every retry of it can take.
func (o Options) visibilityTimeoutSec() int {
	var total time.Duration
	for i := 0; i < o.MaxRetries; i++ {
		total += o.backoff(i)
	}
	return int(total/time.Second) + 30
}

// deadLetter is what lands on the DLQ.
type deadLetter struct {
	MessageID int64           `json:"msg_id"`
	Error     string          `json:"error"`
	Payload   json.RawMessage `json:"payload"`
	FailedAt  time.Time       `json:"failed_at"`
}

// Dispatcher drains the email queue through a Sender.
type Dispatcher struct {
	queue  Queue
	sender mail.Sender
	opts   Options
	logger zerolog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewDispatcher(queue Queue, sender mail.Sender, opts Options, logger zerolog.Logger) *Dispatcher {
	if opts.MaxMessages <= 0 {
		opts.MaxMessages = 1
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 1
	}
	if opts.BackoffMax < opts.BackoffInitial {
		opts.BackoffMax = opts.BackoffInitial
	}
	return &Dispatcher{
		queue:  queue,
		sender: sender,
		opts:   opts,
		logger: logger.With().Str("orchestrator", "email").Logger(),
		sleep:  sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run starts the email orchestrator and blocks until ctx is cancelled.
func Run(ctx context.Context, logger zerolog.Logger, client Queue, sender mail.Sender, opts Options) error {
	return NewDispatcher(client, sender, opts, logger).Run(ctx)
}

func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Info().Str("queue", d.opts.QueueName).Msg("Starting email orchestrator")
	vt := d.opts.visibilityTimeoutSec()
	for {
		select {
		case <-ctx.Done():
			d.logger.Info().Msg("Shutting down email orchestrator")
			return nil
		default:
		}

		msgs, err := d.queue.ReadWithPoll(ctx, d.opts.QueueName, vt, d.opts.PollTimeoutSec, d.opts.MaxMessages)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			d.logger.Error().Err(err).Msg("Error reading email queue")
			_ = d.sleep(ctx, time.Second)
			continue
		}
		for _, msg := range msgs {
			d.Process(ctx, msg)
		}
	}
}

// Process sends one message, retrying with exponential backoff. The message is
// deleted once sent or dead-lettered; on shutdown it is left to reappear.
func (d *Dispatcher) Process(ctx context.Context, msg *pgmq.Message) {
	log := d.logger.With().Int64("msg_id", msg.ID).Int("read_ct", msg.ReadCt).Logger()

	var m mail.Message
	if err := json.Unmarshal(msg.Data, &m); err != nil || m.To == "" {
		if err == nil {
			err = fmt.Errorf("message has no recipient")
		}
		log.Error().Err(err).Msg("Malformed email message")
		d.deadLetter(ctx, msg, err)
		return
	}
	// A message read more times than the retry budget outlived earlier workers.
	if msg.ReadCt > d.opts.MaxRetries {
		d.deadLetter(ctx, msg, fmt.Errorf("read %d times", msg.ReadCt))
		return
	}

	var lastErr error
	for attempt := 0; attempt < d.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := d.opts.backoff(attempt - 1)
			log.Warn().Err(lastErr).Int("attempt", attempt).Dur("backoff", wait).Msg("Retrying email")
			if err := d.sleep(ctx, wait); err != nil {
				return
			}
		}
		if lastErr = d.sender.Send(ctx, m); lastErr == nil {
			log.Info().Str("to", m.To).Str("subject", m.Subject).Msg("Email sent")
			d.delete(ctx, msg)
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
	log.Error().Err(lastErr).Msg("Email retries exhausted")
	d.deadLetter(ctx, msg, lastErr)
}

func (d *Dispatcher) deadLetter(ctx context.Context, msg *pgmq.Message, cause error) {
	payload := json.RawMessage(msg.Data)
	if !json.Valid(payload) {
		quoted, _ := json.Marshal(string(msg.Data))
		payload = quoted
	}
	body, err := json.Marshal(deadLetter{
		MessageID: msg.ID,
		Error:     cause.Error(),
		Payload:   payload,
		FailedAt:  time.Now().UTC(),
	})
	if err != nil {
		d.logger.Error().Err(err).Int64("msg_id", msg.ID).Msg("Failed to encode dead letter")
		return
	}
	if err := d.queue.Send(ctx, d.opts.DeadLetterQueue, body); err != nil {
		// Keep the message so it is retried rather than lost.
		d.logger.Error().Err(err).Int64("msg_id", msg.ID).Msg("Failed to move email to dead-letter queue")
		return
	}
	d.delete(ctx, msg)
}

func (d *Dispatcher) delete(ctx context.Context, msg *pgmq.Message) {
	if err := d.queue.Delete(ctx, d.opts.QueueName, []int64{msg.ID}); err != nil {
		d.logger.Error().Err(err).Int64("msg_id", msg.ID).Msg("Error deleting email message")
	}
}
