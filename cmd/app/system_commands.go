package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/qrseal/cmd/app/commands"
	"github.com/allisson/qrseal/internal/app"
	"github.com/allisson/qrseal/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Create the config_documents, clients and tokens tables",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "rollback",
					Usage: "Revert the latest migration instead of applying pending ones",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), container.SQLDriver(), cfg.DBConnectionString, cmd.Bool("rollback"))
			},
		},
	}
}
