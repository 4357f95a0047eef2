// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"codeberg.org/oliverandrich/authcore/internal/database"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					// Open runs pending migrations as part of setup.
					a, err := newApp(cmd)
					if err != nil {
						return err
					}
					return a.close()
				},
			},
			{
				Name:  "down",
				Usage: "Roll back the last migration",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					a, err := newApp(cmd)
					if err != nil {
						return err
					}
					defer a.close()
					return database.MigrateDown(a.repo.DB().DB)
				},
			},
			{
				Name:  "reset",
				Usage: "Roll back all migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					a, err := newApp(cmd)
					if err != nil {
						return err
					}
					defer a.close()
					return database.MigrateReset(a.repo.DB().DB)
				},
			},
		},
	}
}

func userCommand() *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "Manage user accounts",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Register a new user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true, Usage: "Email address"},
					&cli.StringFlag{Name: "password", Required: true, Usage: "Password"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					a, err := newApp(cmd)
					if err != nil {
						return err
					}
					defer a.close()
					created, err := a.users.Create(ctx, cmd.String("email"), cmd.String("password"))
					if err != nil {
						return err
					}
					return printJSON(created)
				},
			},
			{
				Name:  "list",
				Usage: "List users",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "token", Required: true, Usage: "Caller bearer token"},
					&cli.IntFlag{Name: "limit", Value: 50, Usage: "Page size"},
					&cli.IntFlag{Name: "offset", Value: 0, Usage: "Page offset"},
					&cli.BoolFlag{Name: "deleted", Usage: "Include soft-deleted users"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					a, err := newApp(cmd)
					if err != nil {
						return err
					}
					defer a.close()
					count, users, err := a.users.List(ctx,
						int64(cmd.Int("limit")), int64(cmd.Int("offset")),
						cmd.String("token"), cmd.Bool("deleted"))
					if err != nil {
						return err
					}
					return printJSON(map[string]any{"count": count, "users": users})
				},
			},
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Issue, inspect and revoke credentials",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Issue a bearer/refresh pair for a user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true, Usage: "Email address"},
					&cli.StringFlag{Name: "password", Required: true, Usage: "Password"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					a, err := newApp(cmd)
					if err != nil {
						return err
					}
					defer a.close()
					pair, err := a.tokens.Login(ctx, cmd.String("email"), cmd.String("password"))
					if err != nil {
						return err
					}
					return printJSON(pair)
				},
			},
			{
				Name:  "renew",
				Usage: "Exchange a bearer/refresh pair for a new bearer token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "bearer", Required: true, Usage: "Current bearer token"},
					&cli.StringFlag{Name: "refresh", Required: true, Usage: "Refresh token"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					a, err := newApp(cmd)
					if err != nil {
						return err
					}
					defer a.close()
					pair, err := a.tokens.Renew(ctx, cmd.String("bearer"), cmd.String("refresh"))
					if err != nil {
						return err
					}
					return printJSON(pair)
				},
			},
			{
				Name:  "introspect",
				Usage: "Validate a bearer token and show its claims",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "bearer", Required: true, Usage: "Bearer token"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					a, err := newApp(cmd)
					if err != nil {
						return err
					}
					defer a.close()
					info, err := a.tokens.Introspect(ctx, cmd.String("bearer"))
					if err != nil {
						return err
					}
					return printJSON(info)
				},
			},
			{
				Name:  "revoke",
				Usage: "Revoke a bearer token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "bearer", Required: true, Usage: "Bearer token"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					a, err := newApp(cmd)
					if err != nil {
						return err
					}
					defer a.close()
					record, err := a.tokens.Revoke(ctx, cmd.String("bearer"))
					if err != nil {
						return err
					}
					return printJSON(record)
				},
			},
			{
				Name:  "reset-request",
				Usage: "Issue a password reset token for a user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true, Usage: "Email address"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					a, err := newApp(cmd)
					if err != nil {
						return err
					}
					defer a.close()
					reset, err := a.tokens.RequestPasswordReset(ctx, cmd.String("email"))
					if err != nil {
						return err
					}
					return printJSON(map[string]string{"reset_token": reset})
				},
			},
		},
	}
}
