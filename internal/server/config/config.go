// Package config handles configuration for the intermediary service,
// layered as defaults, then environment (.env aware), then an optional
// JSON overlay, then command-line flags.
package config

import (
	"time"

	"github.com/CHJCOCO/ryuin/internal/server/storage"
)

// Config holds runtime settings for the ryuin upload/contact service.
type Config struct {
	// EndpointAddr is the bind address of the HTTP API.
	EndpointAddr string `envconfig:"SERVER_ADDR" json:"endpoint_addr"`
	// Env selects runtime mode; anything but "prod" opens CORS up for
	// local development.
	Env string `envconfig:"ENV" json:"env"`

	// Object storage.
	S3Region             string `envconfig:"S3_REGION" json:"s3_region"`
	S3AccessKeyID        string `envconfig:"S3_ACCESS_KEY_ID" json:"s3_access_key_id"`
	S3SecretAccessKey    string `envconfig:"S3_SECRET_ACCESS_KEY" json:"s3_secret_access_key"`
	S3Bucket             string `envconfig:"S3_BUCKET" json:"s3_bucket"`
	S3BaseEndpoint       string `envconfig:"S3_BASE_ENDPOINT" json:"s3_base_endpoint"`
	S3PublicBaseURL      string `envconfig:"S3_PUBLIC_BASE_URL" json:"s3_public_base_url"`
	S3KeyPrefix          string `envconfig:"S3_KEY_PREFIX" json:"s3_key_prefix"`
	PresignExpirySeconds int    `envconfig:"PRESIGN_EXPIRY_SECONDS" json:"presign_expiry_seconds"`

	// Notification service (EmailJS REST API).
	EmailJSBaseURL    string `envconfig:"EMAILJS_BASE_URL" json:"emailjs_base_url"`
	EmailJSServiceID  string `envconfig:"EMAILJS_SERVICE_ID" json:"emailjs_service_id"`
	EmailJSTemplateID string `envconfig:"EMAILJS_TEMPLATE_ID" json:"emailjs_template_id"`
	EmailJSPublicKey  string `envconfig:"EMAILJS_PUBLIC_KEY" json:"emailjs_public_key"`
	EmailJSPrivateKey string `envconfig:"EMAILJS_PRIVATE_KEY" json:"emailjs_private_key"`
	ContactEmail      string `envconfig:"CONTACT_EMAIL" json:"contact_email"`

	// AllowedOrigins gates the send-email endpoint by Origin header.
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" json:"allowed_origins"`

	// Per-IP rate limit on the contact endpoints.
	RatePerMinute int `envconfig:"RATE_PER_MINUTE" json:"rate_per_minute"`
	RateBurst     int `envconfig:"RATE_BURST" json:"rate_burst"`
}

// LoadDefaults populates Config with development defaults. Storage
// credentials are deliberately left empty: their absence is a detectable
// configuration error, never a silent default.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.Env = "dev"
	c.S3Region = "ap-northeast-2"
	c.S3KeyPrefix = storage.DefaultKeyPrefix
	c.PresignExpirySeconds = 300
	c.EmailJSBaseURL = "https://api.emailjs.com"
	c.ContactEmail = "contact@ryuin.studio"
	c.AllowedOrigins = []string{"https://ryuin.studio", "https://www.ryuin.studio", "http://localhost:3000"}
	c.RatePerMinute = 10
	c.RateBurst = 5
}

// Storage returns the object-storage slice of the configuration.
func (c *Config) Storage() storage.Config {
	return storage.Config{
		Region:          c.S3Region,
		AccessKeyID:     c.S3AccessKeyID,
		SecretAccessKey: c.S3SecretAccessKey,
		Bucket:          c.S3Bucket,
		BaseEndpoint:    c.S3BaseEndpoint,
		PublicBaseURL:   c.S3PublicBaseURL,
		KeyPrefix:       c.S3KeyPrefix,
		PresignExpiry:   time.Duration(c.PresignExpirySeconds) * time.Second,
	}
}

// LoadConfig builds a Config by applying defaults, then the environment,
// then an optional JSON file, and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
