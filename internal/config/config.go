// Package config loads server settings from the environment. Every
// variable is prefixed CAMPUSHUB_; only the JWT secret is mandatory.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultAddr         = ":8080"
	DefaultDatabasePath = "campushub.db"
	DefaultTOTPSkew     = 6
	DefaultSMTPPort     = 587
)

// SMTP is the outbound mail transport block.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Configured reports whether mail can be sent at all.
func (s SMTP) Configured() bool {
	return s.Host != "" && s.From != ""
}

// ImageHost is the profile picture CDN block.
type ImageHost struct {
	UploadURL string
	APIKey    string
}

// Configured reports whether picture uploads can be accepted.
func (i ImageHost) Configured() bool {
	return i.UploadURL != ""
}

// Config is the full server configuration.
type Config struct {
	Addr            string
	DatabasePath    string
	JWTSecret       string
	TOTPSkew        uint
	Institution     string
	ShutdownTimeout time.Duration
	SMTP            SMTP
	ImageHost       ImageHost
}

// Load reads the environment. It fails closed: a missing or empty
// CAMPUSHUB_JWT_SECRET is a startup error, never a default.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:            envOr("CAMPUSHUB_ADDR", DefaultAddr),
		DatabasePath:    envOr("CAMPUSHUB_DB_PATH", DefaultDatabasePath),
		JWTSecret:       os.Getenv("CAMPUSHUB_JWT_SECRET"),
		TOTPSkew:        DefaultTOTPSkew,
		Institution:     envOr("CAMPUSHUB_INSTITUTION", "CampusHub Training Center"),
		ShutdownTimeout: 10 * time.Second,
		SMTP: SMTP{
			Host:     os.Getenv("CAMPUSHUB_SMTP_HOST"),
			Port:     DefaultSMTPPort,
			Username: os.Getenv("CAMPUSHUB_SMTP_USERNAME"),
			Password: os.Getenv("CAMPUSHUB_SMTP_PASSWORD"),
			From:     os.Getenv("CAMPUSHUB_SMTP_FROM"),
		},
		ImageHost: ImageHost{
			UploadURL: os.Getenv("CAMPUSHUB_IMAGE_UPLOAD_URL"),
			APIKey:    os.Getenv("CAMPUSHUB_IMAGE_API_KEY"),
		},
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("CAMPUSHUB_JWT_SECRET must be set")
	}

	if v := os.Getenv("CAMPUSHUB_TOTP_SKEW"); v != "" {
		skew, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("CAMPUSHUB_TOTP_SKEW must be a small integer: %w", err)
		}
		cfg.TOTPSkew = uint(skew)
	}
	if v := os.Getenv("CAMPUSHUB_SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("CAMPUSHUB_SMTP_PORT must be a valid port number")
		}
		cfg.SMTP.Port = port
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
