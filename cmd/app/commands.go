package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/pseudonymizer/cmd/app/commands"
	"github.com/allisson/pseudonymizer/internal/app"
	"github.com/allisson/pseudonymizer/internal/config"
)

var keyStoreFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "key-store-url",
		Usage: "Blob bucket URL holding the secret key (overrides KEY_STORE_URL)",
	},
	&cli.StringFlag{
		Name:  "kms-key-uri",
		Usage: "KMS key URI wrapping a newly created key (overrides KMS_KEY_URI)",
	},
}

// loadConfig reads the environment and applies the key store flags on top.
func loadConfig(cmd *cli.Command) *config.Config {
	cfg := config.Load()
	if url := cmd.String("key-store-url"); url != "" {
		cfg.KeyStoreURL = url
	}
	if uri := cmd.String("kms-key-uri"); uri != "" {
		cfg.KMSKeyURI = uri
	}
	return cfg
}

func getCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the document API and metrics servers",
			Flags: keyStoreFlags,
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, loadConfig(cmd), version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Create or upgrade the mapping table",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "migrations-dir",
					Value: "migrations",
					Usage: "Directory holding the postgresql and mysql migration sets",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(
					container.Logger(),
					cfg.DBDriver,
					cfg.DBConnectionString,
					cmd.String("migrations-dir"),
				)
			},
		},
		{
			Name:  "init-key",
			Usage: "Create the secret key if absent, or verify the stored one, and print its fingerprint",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			}, keyStoreFlags...),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := loadConfig(cmd)
				if err := cfg.Validate(false); err != nil {
					return fmt.Errorf("invalid configuration: %w", err)
				}
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				keyManager, err := container.KeyManager()
				if err != nil {
					return err
				}

				return commands.RunInitKey(ctx, keyManager, container.Logger(), cmd.Root().Writer, commands.KeyReport{
					KeyStore:   cfg.KeyStoreURL,
					Object:     cfg.KeyObjectName,
					KMSWrapped: cfg.KMSKeyURI != "",
				}, cmd.String("format"))
			},
		},
	}
}
