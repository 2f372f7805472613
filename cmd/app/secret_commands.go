package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/qrseal/cmd/app/commands"
	"github.com/allisson/qrseal/internal/app"
	"github.com/allisson/qrseal/internal/config"
)

func getSecretCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-secret",
			Usage: "Generate a random shared secret, optionally wrapped by a KMS key",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "length",
					Aliases: []string{"l"},
					Value:   32,
					Usage:   "Number of random bytes",
				},
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Usage: "KMS key URI (gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://)",
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
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateSecret(
					ctx,
					container.KMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("length")),
					cmd.String("kms-key-uri"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "store-secret",
			Usage: "Write the shared secret into the configured redis, postgres or mysql document",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "value",
					Aliases: []string{"v"},
					Usage:   "Secret value (read from stdin when omitted)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				writer, err := container.SecretWriter()
				if err != nil {
					return err
				}

				return commands.RunStoreSecret(
					ctx,
					writer,
					container.SecretLocation(),
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("value"),
				)
			},
		},
	}
}
