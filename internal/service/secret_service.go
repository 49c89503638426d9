package service

import (
	"context"
	"fmt"

	"app/internal/config"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

// Names of the platform secrets kept in Secret Manager.
const (
	SecretStripeKey     = "stripe-secret-key"
	SecretStripeWebhook = "stripe-webhook-secret"
)

// SecretService stores and retrieves platform secrets (Stripe keys, webhook
// signing secrets) in Google Secret Manager so they never land in env files
// on deployed instances.
type SecretService interface {
	GetSecret(ctx context.Context, name string) (string, error)
	StoreSecret(ctx context.Context, name, value string) error
	DeleteSecret(ctx context.Context, name string) error
}

type secretService struct {
	client    *secretmanager.Client
	projectID string
}

func NewSecretService(ctx context.Context, cfg *config.Config) (SecretService, error) {
	projectID := cfg.GetGCPProjectID()
	if projectID == "" {
		return nil, fmt.Errorf("GCP Project ID is not set for the current environment")
	}

	var opts []option.ClientOption
	// Note: Secret Manager requires a real GCP project even for local
	// development. Set GCP_PROJECT_ID_LOCAL to your local project ID.

	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}

	return &secretService{
		client:    client,
		projectID: projectID,
	}, nil
}

// LoadStripeSecrets fills any Stripe credentials missing from the
// environment by reading them from Secret Manager. Values already set on cfg
// win, so local development can keep using env files.
func LoadStripeSecrets(ctx context.Context, secrets SecretService, cfg *config.Config) error {
	if cfg.StripeSecretKey == "" {
		key, err := secrets.GetSecret(ctx, SecretStripeKey)
		if err != nil {
			return fmt.Errorf("failed to load Stripe secret key: %w", err)
		}
		cfg.StripeSecretKey = key
	}
	if cfg.StripeWebhookSecret == "" {
		secret, err := secrets.GetSecret(ctx, SecretStripeWebhook)
		if err != nil {
			return fmt.Errorf("failed to load Stripe webhook secret: %w", err)
		}
		cfg.StripeWebhookSecret = secret
	}
	return nil
}

// GetSecret reads the latest version of the named secret.
func (s *secretService) GetSecret(ctx context.Context, name string) (string, error) {
	resourceName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", s.projectID, name)

	result, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: resourceName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to access secret version: %w", err)
	}

	return string(result.Payload.Data), nil
}

// StoreSecret creates the secret if needed and adds the value as a new version.
func (s *secretService) StoreSecret(ctx context.Context, name, value string) error {
	secretPath := fmt.Sprintf("projects/%s/secrets/%s", s.projectID, name)

	secretExists := true
	_, err := s.client.GetSecret(ctx, &secretmanagerpb.GetSecretRequest{
		Name: secretPath,
	})
	if err != nil {
		secretExists = false
	}

	if !secretExists {
		createReq := &secretmanagerpb.CreateSecretRequest{
			Parent:   fmt.Sprintf("projects/%s", s.projectID),
			SecretId: name,
			Secret: &secretmanagerpb.Secret{
				Replication: &secretmanagerpb.Replication{
					Replication: &secretmanagerpb.Replication_Automatic_{
						Automatic: &secretmanagerpb.Replication_Automatic{},
					},
				},
			},
		}
		if _, err := s.client.CreateSecret(ctx, createReq); err != nil {
			return fmt.Errorf("failed to create secret: %w", err)
		}
	}

	addVersionReq := &secretmanagerpb.AddSecretVersionRequest{
		Parent: secretPath,
		Payload: &secretmanagerpb.SecretPayload{
			Data: []byte(value),
		},
	}
	if _, err := s.client.AddSecretVersion(ctx, addVersionReq); err != nil {
		return fmt.Errorf("failed to add secret version: %w", err)
	}

	return nil
}

// DeleteSecret removes the named secret and all its versions.
func (s *secretService) DeleteSecret(ctx context.Context, name string) error {
	secretPath := fmt.Sprintf("projects/%s/secrets/%s", s.projectID, name)

	if err := s.client.DeleteSecret(ctx, &secretmanagerpb.DeleteSecretRequest{
		Name: secretPath,
	}); err != nil {
		return fmt.Errorf("failed to delete secret: %w", err)
	}

	return nil
}
