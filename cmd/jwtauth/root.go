package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tech-arch1tect/jwtauth/app"
	"github.com/tech-arch1tect/jwtauth/config"
	"github.com/tech-arch1tect/jwtauth/database"
)

var envFile string

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "jwtauth",
		Short:         "JWT authentication service with one-time-code password reset",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if envFile == "" {
				return nil
			}
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("failed to load env file %s: %w", envFile, err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment variables from this file before reading config")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newCleanupCmd())

	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			application, err := app.NewApp().WithConfig(cfg).Build()
			if err != nil {
				return err
			}
			return application.Run()
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cfg.Database.AutoMigrate = false

			application, err := app.NewApp().WithConfig(cfg).WithoutHTTP().Build()
			if err != nil {
				return err
			}

			cmd.Println("Running migrations...")
			if err := database.Migrate(application.DB(), app.Models()...); err != nil {
				return err
			}
			cmd.Println("Migrations completed successfully")
			return nil
		},
	}
}

func newCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete expired reset codes, refresh tokens and revocations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			application, err := app.NewApp().WithConfig(cfg).WithoutHTTP().Build()
			if err != nil {
				return err
			}

			report, err := application.Cleanup(context.Background())
			if err != nil {
				return err
			}
			cmd.Printf("Removed %d reset codes, %d refresh tokens, %d revocations\n",
				report.ResetCodes, report.RefreshTokens, report.Revocations)
			return nil
		},
	}
}

func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if err := config.LoadConfig(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
