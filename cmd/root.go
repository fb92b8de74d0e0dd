package cmd

import (
	"fmt"
	"os"

	"hotel-pms/config"
	"hotel-pms/utils"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// bootstrap loads configuration and opens the database shared by every command.
func bootstrap() (*config.Config, zerolog.Logger, *gorm.DB, error) {
	if err := config.LoadEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, ".env not loaded; using process environment")
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}
	log := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)

	db, err := config.ConnectDatabase(cfg, log)
	if err != nil {
		return nil, log, nil, fmt.Errorf("connect database: %w", err)
	}
	return cfg, log, db, nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema and seed reference data",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		if err := config.Migrate(db); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		seed, _ := cmd.Flags().GetBool("seed")
		if seed {
			if err := config.SeedDatabase(db, log); err != nil {
				return fmt.Errorf("seed database: %w", err)
			}
		}
		log.Info().Msg("migrations applied")
		return nil
	},
}

func Execute() {
	rootCmd := &cobra.Command{
		Use:           "hotel-pms",
		Short:         "Hotel property-management backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	migrateCmd.Flags().Bool("seed", true, "Seed the default rate plan when none exists")
	rootCmd.AddCommand(serveCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
