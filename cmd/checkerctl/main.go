// Package main implements checkerctl, the operator CLI for the symptom checker.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"symptom-checker-server/internal/config"
	"symptom-checker-server/internal/logger"
	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/services"
)

var (
	// envFile is loaded before the configuration is read.
	envFile string
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "checkerctl",
	Short: "Operator commands for the symptom checker",
	Long: `checkerctl runs maintenance tasks against the symptom checker database:
schema migration, demo catalog seeding, expired session sweeps and operator
token issuance. It reads the same environment as the server.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load (ignored if missing)")
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(tokenCmd)
}

// environment loads the dotenv file and the configuration it feeds.
func environment() (*config.Config, *logger.Logger, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func openDB(cfg *config.Config, migrate bool) (*gorm.DB, error) {
	dbConfig := models.DatabaseConfig{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
	}
	if migrate {
		return models.InitDB(dbConfig)
	}
	return models.Open(dbConfig)
}

func container(cfg *config.Config, log *logger.Logger, migrate bool) (*services.Container, error) {
	db, err := openDB(cfg, migrate)
	if err != nil {
		return nil, err
	}
	return services.NewContainer(db, log, services.Options{
		SessionTTL:    cfg.Checker.SessionTTL,
		SweepInterval: cfg.Checker.SessionSweepInterval,
	}), nil
}
