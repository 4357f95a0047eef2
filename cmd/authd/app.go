// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v3"

	"codeberg.org/oliverandrich/authcore/internal/config"
	"codeberg.org/oliverandrich/authcore/internal/database"
	"codeberg.org/oliverandrich/authcore/internal/repository"
	"codeberg.org/oliverandrich/authcore/internal/services/email"
	"codeberg.org/oliverandrich/authcore/internal/services/permission"
	"codeberg.org/oliverandrich/authcore/internal/services/role"
	"codeberg.org/oliverandrich/authcore/internal/services/token"
	"codeberg.org/oliverandrich/authcore/internal/services/tokencodec"
	"codeberg.org/oliverandrich/authcore/internal/services/user"
)

// setupLogger configures the global slog logger.
func setupLogger(level, format string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{Level: logLevel})
	}

	slog.SetDefault(slog.New(handler))
}

// app bundles the wired services for CLI actions.
type app struct {
	cfg         *config.Config
	repo        *repository.Repository
	tokens      *token.Service
	users       *user.Service
	roles       *role.Service
	permissions *permission.Service
	close       func() error
}

func newApp(cmd *cli.Command) (*app, error) {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := repository.New(db)
	bearer := tokencodec.New(cfg.JWT.BearerSecret, cfg.JWT.BearerLifetime())
	refresh := tokencodec.New(cfg.JWT.RefreshSecret, cfg.JWT.RefreshLifetime())
	reset := tokencodec.New(cfg.JWT.ResetSecret, cfg.JWT.ResetLifetime())

	var mailer token.Mailer
	if cfg.SMTP.Enabled() {
		m, err := email.NewService(&cfg.SMTP)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		mailer = m
	}

	tokens := token.NewService(repo, bearer, refresh, reset, mailer)
	return &app{
		cfg:         cfg,
		repo:        repo,
		tokens:      tokens,
		users:       user.NewService(repo, tokens, reset),
		roles:       role.NewService(repo, tokens),
		permissions: permission.NewService(repo, tokens),
		close:       db.Close,
	}, nil
}

// printJSON writes a result to stdout; logs go to stderr.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
