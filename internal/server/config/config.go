// Package config handles server configuration: development defaults, an
// environment overlay, and command-line flags, applied in that order.
package config

import (
	"errors"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds runtime settings for the memberhub server.
//
// SecretKey signs session JWTs (HS256) and MongoURI points at the account
// store; both are mandatory and their absence is a fatal startup error.
type Config struct {
	Addr          string `env:"ADDRESS"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	SecretKey     string `env:"JWT_SECRET"`

	// SessionTokenValidity covers the cookie-based web flow; the shorter
	// OTPTokenValidity covers logins minted from a verified one-time code.
	SessionTokenValidity time.Duration `env:"SESSION_TOKEN_VALIDITY"`
	OTPTokenValidity     time.Duration `env:"OTP_TOKEN_VALIDITY"`
	OTPCodeTTL           time.Duration `env:"OTP_CODE_TTL"`

	// AdminEmail is the bootstrap address: registering with it yields the
	// admin role.
	AdminEmail string `env:"ADMIN_EMAIL"`

	// AllowedOrigin is the SPA origin permitted by CORS.
	AllowedOrigin string `env:"ALLOWED_ORIGIN"`

	// RequestTimeout bounds every datastore call made on behalf of one
	// HTTP request.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	S3RootUser     string `env:"S3_ROOT_USER"`
	S3RootPassword string `env:"S3_ROOT_PASSWORD"`
	S3Bucket       string `env:"S3_BUCKET"`
	S3Region       string `env:"S3_REGION"`
	S3BaseEndpoint string `env:"S3_BASE_ENDPOINT"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey has no default on purpose; it must come from the
// environment or a flag.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.MongoURI = "mongodb://127.0.0.1:27017"
	c.MongoDatabase = "memberhub"
	c.RedisAddr = "127.0.0.1:6379"
	c.SessionTokenValidity = 7 * 24 * time.Hour
	c.OTPTokenValidity = 2 * time.Hour
	c.OTPCodeTTL = 2 * time.Minute
	c.AdminEmail = "admin@example.com"
	c.AllowedOrigin = "http://localhost:5173"
	c.RequestTimeout = 5 * time.Second
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "avatars"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then the environment,
// then command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)
	return cfg, nil
}

// Validate enforces the settings the server cannot run without.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("config: JWT signing secret is not set")
	}
	if c.MongoURI == "" {
		return errors.New("config: Mongo URI is not set")
	}
	return nil
}
