// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/kv-gits/rpm/cmd/app/commands"
)

var version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "rpm",
		Usage:   "Local password vault with an HTTP API",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Initialize a new vault with a master password",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunInit(ctx, commands.DefaultIO())
				},
			},
			{
				Name:  "server",
				Usage: "Start the HTTP API server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "rotate-master-password",
				Usage: "Re-encrypt the whole vault under a new master password",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunRotateMasterPassword(ctx, commands.DefaultIO())
				},
			},
			{
				Name:  "status",
				Usage: "Report vault path, initialization state and entry count",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunStatus(ctx, commands.DefaultIO())
				},
			},
			{
				Name:  "copy",
				Usage: "Copy an entry's password to the clipboard with a clearance timeout",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Aliases:  []string{"i"},
						Required: true,
						Usage:    "Entry ID (UUID)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCopy(ctx, cmd.String("id"), commands.DefaultIO())
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
