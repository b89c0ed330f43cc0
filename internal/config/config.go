package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port               string `envconfig:"PORT" default:"8080"`
	Environment        string `envconfig:"ENV" default:"development"`
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// Auth
	JWTSecret     string `envconfig:"JWT_SECRET"`
	JWTTTLHours   int    `envconfig:"JWT_TTL_HOURS" default:"72"`
	CookieSecure  bool   `envconfig:"COOKIE_SECURE" default:"false"`
	LoginPath     string `envconfig:"LOGIN_PATH" default:"/login"`
	DashboardPath string `envconfig:"DASHBOARD_PATH" default:"/dashboard"`
	RedisURL      string `envconfig:"REDIS_URL"`

	// Dashboard
	CarouselIntervalSec int `envconfig:"CAROUSEL_INTERVAL_SEC" default:"5"`

	// Object storage (S3 compatible)
	S3URL       string `envconfig:"S3_URL"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"media"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
	// Public base URL objects are served from once uploaded; defaults to S3_URL/S3_BUCKET.
	MediaPublicBaseURL string `envconfig:"MEDIA_PUBLIC_BASE_URL"`

	// Pub/Sub events
	GCPProjectID         string `envconfig:"GCP_PROJECT_ID"`
	PubSubEmulatorHost   string `envconfig:"PUBSUB_EMULATOR_HOST"`
	PubSubLoginTopic     string `envconfig:"PUBSUB_LOGIN_TOPIC" default:"user-logins"`
	PubSubRegisterTopic  string `envconfig:"PUBSUB_REGISTER_TOPIC" default:"user-registrations"`
	PubSubProgressTopic  string `envconfig:"PUBSUB_PROGRESS_TOPIC" default:"lesson-progress"`
	EventBreakerFailures uint32 `envconfig:"EVENT_BREAKER_FAILURES" default:"5"`
	EventBreakerTimeout  int    `envconfig:"EVENT_BREAKER_TIMEOUT_SEC" default:"30"`

	// Secret Manager; when set, empty secrets above are resolved from it
	SecretManagerProjectID string `envconfig:"SECRET_MANAGER_PROJECT_ID"`

	// Email
	ResendAPIKey string `envconfig:"RESEND_API_KEY"`
	EmailFrom    string `envconfig:"EMAIL_FROM" default:"StreamLearn <noreply@streamlearn.local>"`

	// Email orchestrator settings
	EmailQueueName           string `envconfig:"EMAIL_QUEUE_NAME" default:"email_queue"`
	EmailPollTimeoutSec      int    `envconfig:"EMAIL_POLL_TIMEOUT_SEC" default:"30"`
	EmailPollMaxMsg          int    `envconfig:"EMAIL_POLL_MAX_MSG" default:"1"`
	EmailMaxRetries          int    `envconfig:"EMAIL_MAX_RETRIES" default:"5"`
	EmailBackoffInitialSec   int    `envconfig:"EMAIL_BACKOFF_INITIAL_SEC" default:"1"`
	EmailBackoffMaxSec       int    `envconfig:"EMAIL_BACKOFF_MAX_SEC" default:"60"`
	EmailDeadLetterQueueName string `envconfig:"EMAIL_DEAD_LETTER_QUEUE_NAME" default:"email_queue_dlq"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether the app runs against local services.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}

// AllowCredentials is false when any allowed origin is a wildcard, so cookies
// are never shared with an arbitrary site.
func (c *Config) AllowCredentials() bool {
	for _, o := range c.AllowedOrigins() {
		if strings.Contains(o, "*") {
			return false
		}
	}
	return true
}

// MediaBaseURL returns the public prefix for uploaded objects.
func (c *Config) MediaBaseURL() string {
	if c.MediaPublicBaseURL != "" {
		return strings.TrimRight(c.MediaPublicBaseURL, "/")
	}
	return strings.TrimRight(c.S3URL, "/") + "/" + c.S3Bucket
}
