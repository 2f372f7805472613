package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/qrseal/cmd/app/commands"
	"github.com/allisson/qrseal/internal/app"
	"github.com/allisson/qrseal/internal/config"
)

func getAuthCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-client",
			Usage: "Create an API client and print its generated secret",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Client name",
				},
				&cli.StringFlag{
					Name:    "policies",
					Aliases: []string{"p"},
					Usage: `Policies as JSON, e.g. '[{"path":"/v1/envelopes/*","capabilities":["decrypt"]}]' ` +
						"(read from stdin when omitted)",
				},
				&cli.BoolFlag{
					Name:  "inactive",
					Usage: "Create the client disabled",
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

				clientUseCase, err := container.ClientUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateClient(
					ctx,
					clientUseCase,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("name"),
					!cmd.Bool("inactive"),
					cmd.String("policies"),
					cmd.String("format"),
				)
			},
		},
	}
}
