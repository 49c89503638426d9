package service

import (
	"context"
	"errors"
	"testing"

	"app/internal/config"
)

type fakeSecrets struct {
	values map[string]string
	err    error
}

func (f *fakeSecrets) GetSecret(_ context.Context, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.values[name], nil
}

func (f *fakeSecrets) StoreSecret(_ context.Context, name, value string) error {
	f.values[name] = value
	return nil
}

func (f *fakeSecrets) DeleteSecret(_ context.Context, name string) error {
	delete(f.values, name)
	return nil
}

func TestLoadStripeSecretsFillsMissing(t *testing.T) {
	secrets := &fakeSecrets{values: map[string]string{
		SecretStripeKey:     "sk_test_abc",
		SecretStripeWebhook: "whsec_xyz",
	}}
	cfg := &config.Config{}

	if err := LoadStripeSecrets(context.Background(), secrets, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StripeSecretKey != "sk_test_abc" {
		t.Fatalf("expected secret key from Secret Manager, got %q", cfg.StripeSecretKey)
	}
	if cfg.StripeWebhookSecret != "whsec_xyz" {
		t.Fatalf("expected webhook secret from Secret Manager, got %q", cfg.StripeWebhookSecret)
	}
}

func TestLoadStripeSecretsKeepsEnvValues(t *testing.T) {
	secrets := &fakeSecrets{values: map[string]string{
		SecretStripeKey:     "sk_remote",
		SecretStripeWebhook: "whsec_remote",
	}}
	cfg := &config.Config{
		StripeSecretKey:     "sk_env",
		StripeWebhookSecret: "whsec_env",
	}

	if err := LoadStripeSecrets(context.Background(), secrets, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StripeSecretKey != "sk_env" || cfg.StripeWebhookSecret != "whsec_env" {
		t.Fatalf("env-provided values must win, got %q / %q", cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	}
}

func TestLoadStripeSecretsPropagatesError(t *testing.T) {
	lookupErr := errors.New("permission denied")
	secrets := &fakeSecrets{err: lookupErr}

	err := LoadStripeSecrets(context.Background(), secrets, &config.Config{})
	if !errors.Is(err, lookupErr) {
		t.Fatalf("expected wrapped lookup error, got %v", err)
	}
}
