// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer("config.toml")

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Log      LogConfig
	Database DatabaseConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	DSN string
}

// JWTConfig carries one secret and lifetime per token purpose. The
// secrets must differ so tokens issued for one purpose never verify
// against another codec.
type JWTConfig struct { //nolint:govet // fieldalignment not critical for config structs
	BearerSecret       string
	RefreshSecret      string
	ResetSecret        string
	BearerExpiryDays   int
	RefreshExpiryDays  int
	ResetExpiryMinutes int
}

// BearerLifetime returns the bearer token lifetime as a duration.
func (c *JWTConfig) BearerLifetime() time.Duration {
	return time.Duration(c.BearerExpiryDays) * 24 * time.Hour
}

// RefreshLifetime returns the refresh token lifetime as a duration.
func (c *JWTConfig) RefreshLifetime() time.Duration {
	return time.Duration(c.RefreshExpiryDays) * 24 * time.Hour
}

// ResetLifetime returns the password reset token lifetime as a duration.
func (c *JWTConfig) ResetLifetime() time.Duration {
	return time.Duration(c.ResetExpiryMinutes) * time.Minute
}

type SMTPConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host     string
	Port     int
	From     string
	FromName string
	Username string
	Password string
	TLS      bool
}

// Enabled reports whether mail delivery is configured at all.
func (c *SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

func NewFromCLI(cmd *cli.Command) *Config {
	return &Config{
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		JWT: JWTConfig{
			BearerSecret:       cmd.String("jwt-bearer-secret"),
			RefreshSecret:      cmd.String("jwt-refresh-secret"),
			ResetSecret:        cmd.String("jwt-reset-secret"),
			BearerExpiryDays:   int(cmd.Int("jwt-bearer-expiry-days")),
			RefreshExpiryDays:  int(cmd.Int("jwt-refresh-expiry-days")),
			ResetExpiryMinutes: int(cmd.Int("jwt-reset-expiry-minutes")),
		},
		SMTP: SMTPConfig{
			Host:     cmd.String("smtp-host"),
			Port:     int(cmd.Int("smtp-port")),
			From:     cmd.String("smtp-from"),
			FromName: cmd.String("smtp-from-name"),
			Username: cmd.String("smtp-username"),
			Password: cmd.String("smtp-password"),
			TLS:      cmd.Bool("smtp-tls"),
		},
	}
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
		&cli.StringFlag{
			Name:    "database-dsn",
			Value:   "./data/authcore.db",
			Usage:   "Database DSN",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_DSN"), toml.TOML("database.dsn", configFile)),
		},
		&cli.StringFlag{
			Name:    "jwt-bearer-secret",
			Usage:   "Signing secret for bearer tokens",
			Sources: cli.NewValueSourceChain(cli.EnvVar("JWT_SECRET_BEARER"), toml.TOML("jwt.bearer_secret", configFile)),
		},
		&cli.StringFlag{
			Name:    "jwt-refresh-secret",
			Usage:   "Signing secret for refresh tokens",
			Sources: cli.NewValueSourceChain(cli.EnvVar("JWT_SECRET_REFRESH"), toml.TOML("jwt.refresh_secret", configFile)),
		},
		&cli.StringFlag{
			Name:    "jwt-reset-secret",
			Usage:   "Signing secret for password reset tokens",
			Sources: cli.NewValueSourceChain(cli.EnvVar("JWT_SECRET_RESET"), toml.TOML("jwt.reset_secret", configFile)),
		},
		&cli.IntFlag{
			Name:    "jwt-bearer-expiry-days",
			Value:   1,
			Usage:   "Bearer token lifetime in days",
			Sources: cli.NewValueSourceChain(cli.EnvVar("JWT_EXPIRATION_DAYS_BEARER"), toml.TOML("jwt.bearer_expiry_days", configFile)),
		},
		&cli.IntFlag{
			Name:    "jwt-refresh-expiry-days",
			Value:   30,
			Usage:   "Refresh token lifetime in days",
			Sources: cli.NewValueSourceChain(cli.EnvVar("JWT_EXPIRATION_DAYS_REFRESH"), toml.TOML("jwt.refresh_expiry_days", configFile)),
		},
		&cli.IntFlag{
			Name:    "jwt-reset-expiry-minutes",
			Value:   30,
			Usage:   "Password reset token lifetime in minutes",
			Sources: cli.NewValueSourceChain(cli.EnvVar("JWT_EXPIRATION_MINUTES_RESET"), toml.TOML("jwt.reset_expiry_minutes", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP server host (empty disables mail delivery)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_HOST"), toml.TOML("smtp.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   587,
			Usage:   "SMTP server port",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PORT"), toml.TOML("smtp.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Usage:   "From address for outgoing mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM"), toml.TOML("smtp.from", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from-name",
			Usage:   "Display name for outgoing mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM_NAME"), toml.TOML("smtp.from_name", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_USERNAME"), toml.TOML("smtp.username", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PASSWORD"), toml.TOML("smtp.password", configFile)),
		},
		&cli.BoolFlag{
			Name:    "smtp-tls",
			Value:   true,
			Usage:   "Require TLS for SMTP connections",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_TLS"), toml.TOML("smtp.tls", configFile)),
		},
	}
}
