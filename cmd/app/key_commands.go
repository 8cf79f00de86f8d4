package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/assetvault/cmd/app/commands"
	"github.com/allisson/assetvault/internal/app"
	assetUsecase "github.com/allisson/assetvault/internal/asset/usecase"
	"github.com/allisson/assetvault/internal/config"
	cryptoService "github.com/allisson/assetvault/internal/crypto/service"
)

func batchSizeFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "batch-size",
		Aliases: []string{"b"},
		Value:   assetUsecase.DefaultMaintenanceBatchSize,
		Usage:   "Number of assets to process per batch",
	}
}

func dryRunFlag(usage string) cli.Flag {
	return &cli.BoolFlag{
		Name:    "dry-run",
		Aliases: []string{"n"},
		Value:   false,
		Usage:   usage,
	}
}

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-encryption-key",
			Usage: "Generate a new AES-256 key for ENCRYPTION_KEY",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kms-provider",
					Value: "",
					Usage: "KMS provider (localsecrets, gcpkms, awskms, azurekeyvault, hashivault)",
				},
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Value: "",
					Usage: "KMS key URI (e.g., base64key://, gcpkms://projects/.../cryptoKeys/...)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateEncryptionKey(
					ctx,
					cryptoService.NewKMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("kms-provider"),
					cmd.String("kms-key-uri"),
				)
			},
		},
		{
			Name:  "verify-encryption",
			Usage: "Report how many asset passwords decrypt with the current key",
			Flags: []cli.Flag{batchSizeFlag(), formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				encryptionUseCase, err := container.EncryptionUseCase()
				if err != nil {
					return err
				}

				return commands.RunVerifyEncryption(
					ctx,
					encryptionUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("batch-size")),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "repair-encryption",
			Usage: "Replace structurally invalid asset passwords with an empty password",
			Flags: []cli.Flag{
				batchSizeFlag(),
				dryRunFlag("Show how many passwords would be repaired without writing"),
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				encryptionUseCase, err := container.EncryptionUseCase()
				if err != nil {
					return err
				}

				return commands.RunRepairEncryption(
					ctx,
					encryptionUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("batch-size")),
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "rotate-encryption-key",
			Usage: "Re-encrypt asset passwords from a previous key with the current ENCRYPTION_KEY",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "old-key",
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "Previous ENCRYPTION_KEY value (same KMS settings as the current key)",
				},
				&cli.FloatFlag{
					Name:  "rate",
					Value: 0,
					Usage: "Maximum rewritten rows per second (0 = unlimited)",
				},
				batchSizeFlag(),
				dryRunFlag("Show how many passwords would be rotated without writing"),
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				encryptionUseCase, err := container.EncryptionUseCase()
				if err != nil {
					return err
				}

				oldCodec, err := container.PreviousSecretCodec(ctx, cmd.String("old-key"))
				if err != nil {
					return fmt.Errorf("failed to load old key: %w", err)
				}

				return commands.RunRotateEncryptionKey(
					ctx,
					encryptionUseCase,
					oldCodec,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.Float("rate"),
					int(cmd.Int("batch-size")),
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
	}
}
