package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/qrseal/cmd/app/commands"
	"github.com/allisson/qrseal/internal/app"
	"github.com/allisson/qrseal/internal/config"
)

func getEnvelopeCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "encrypt-config",
			Usage: "Seal a tenant config JSON document into envelope text",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "config",
					Aliases: []string{"c"},
					Usage:   "Tenant config JSON (read from stdin when omitted)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				if err := cfg.Validate(); err != nil {
					return fmt.Errorf("invalid configuration: %w", err)
				}
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.EnvelopeUseCase()
				if err != nil {
					return err
				}

				return commands.RunEncryptConfig(
					ctx,
					useCase,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("config"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "decrypt-config",
			Usage: "Open envelope text and print the tenant config JSON",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "envelope",
					Aliases: []string{"e"},
					Usage:   "Envelope text (read from stdin when omitted)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				if err := cfg.Validate(); err != nil {
					return fmt.Errorf("invalid configuration: %w", err)
				}
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.EnvelopeUseCase()
				if err != nil {
					return err
				}

				return commands.RunDecryptConfig(
					ctx,
					useCase,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("envelope"),
				)
			},
		},
	}
}
