package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`

	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	// Content object storage
	S3URL       string `envconfig:"S3_URL" required:"true"`
	S3Bucket    string `envconfig:"S3_BUCKET" required:"true"`
	S3Region    string `envconfig:"S3_REGION" required:"true"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY" required:"true"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY" required:"true"`

	// Stripe Connect (instructor payouts). The credentials may be left
	// unset and loaded from Secret Manager at startup instead.
	StripeSecretKey         string `envconfig:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret     string `envconfig:"STRIPE_WEBHOOK_SECRET"`
	StripeConnectRefreshURL string `envconfig:"STRIPE_CONNECT_REFRESH_URL" required:"true"`
	StripeConnectReturnURL  string `envconfig:"STRIPE_CONNECT_RETURN_URL" required:"true"`

	// Course lifecycle events (Pub/Sub)
	PubSubCourseEventsTopic string `envconfig:"PUBSUB_COURSE_EVENTS_TOPIC" default:"course-events"`
	PubSubEmulatorHost      string `envconfig:"PUBSUB_EMULATOR_HOST"`
	GCPProjectIDLocal       string `envconfig:"GCP_PROJECT_ID_LOCAL"`
	GCPProjectIDStaging     string `envconfig:"GCP_PROJECT_ID_STAGING"`
	GCPProjectIDProd        string `envconfig:"GCP_PROJECT_ID_PROD"`

	CORSAllowedOrigin string `envconfig:"CORS_ALLOWED_ORIGIN" default:"http://localhost:3000"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetGCPProjectID returns the appropriate GCP project ID based on the environment.
// Local if the emulator host is set, otherwise staging (preferred) or prod.
func (c *Config) GetGCPProjectID() string {
	if c.PubSubEmulatorHost != "" {
		return c.GCPProjectIDLocal
	}
	if c.GCPProjectIDStaging != "" {
		return c.GCPProjectIDStaging
	}
	return c.GCPProjectIDProd
}
