package service

import (
	"context"
	"fmt"

	"streamlearn/internal/config"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/rs/zerolog"
)

// Secret names looked up when the matching environment variable is empty.
const (
	JWTSecretName    = "jwt-secret"
	ResendSecretName = "resend-api-key"
)

type SecretManagerService interface {
	GetSecret(ctx context.Context, name string) (string, error)
	Close() error
}

type secretManagerService struct {
	client    *secretmanager.Client
	projectID string
}

func NewSecretManagerService(ctx context.Context, cfg *config.Config) (SecretManagerService, error) {
	if cfg.SecretManagerProjectID == "" {
		return nil, fmt.Errorf("SECRET_MANAGER_PROJECT_ID is not set")
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}

	return &secretManagerService{
		client:    client,
		projectID: cfg.SecretManagerProjectID,
	}, nil
}

func (s *secretManagerService) GetSecret(ctx context.Context, name string) (string, error) {
	resourceName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", s.projectID, name)

	req := &secretmanagerpb.AccessSecretVersionRequest{
		Name: resourceName,
	}

	result, err := s.client.AccessSecretVersion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to access secret %s: %w", name, err)
	}

	return string(result.Payload.Data), nil
}

func (s *secretManagerService) Close() error {
	return s.client.Close()
}

// ResolveSecrets fills empty secret settings in cfg from Secret Manager.
// A missing JWT secret is fatal; a missing Resend key only disables email.
func ResolveSecrets(ctx context.Context, cfg *config.Config, sm SecretManagerService, logger zerolog.Logger) error {
	if cfg.JWTSecret == "" {
		v, err := sm.GetSecret(ctx, JWTSecretName)
		if err != nil {
			return err
		}
		cfg.JWTSecret = v
	}
	if cfg.ResendAPIKey == "" {
		v, err := sm.GetSecret(ctx, ResendSecretName)
		if err != nil {
			logger.Warn().Err(err).Msg("Resend API key not found, email sending disabled")
		} else {
			cfg.ResendAPIKey = v
		}
	}
	return nil
}
