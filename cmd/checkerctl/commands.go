package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/utils"
)

var (
	tokenSubject string
	tokenRole    string
	tokenTTL     time.Duration
)

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "operator identifier (required)")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(models.RoleEditor), "operator role: admin or editor")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (defaults to JWT_EXPIRATION_MINUTES)")
	_ = tokenCmd.MarkFlagRequired("subject")
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := environment()
		if err != nil {
			return err
		}
		defer log.Sync()

		if _, err := openDB(cfg, true); err != nil {
			return err
		}
		log.Info("Schema migrated", "driver", cfg.Database.Driver)
		fmt.Fprintln(cmd.OutOrStdout(), "migrated")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo catalog",
	Long: `Load the demo body regions, symptoms, conditions and treatments.

Records are upserted by slug, so the command can be re-run safely.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := environment()
		if err != nil {
			return err
		}
		defer log.Sync()

		svc, err := container(cfg, log, true)
		if err != nil {
			return err
		}
		summary, err := svc.Admin.SeedDemo(cmd.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete expired sessions once",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := environment()
		if err != nil {
			return err
		}
		defer log.Sync()

		svc, err := container(cfg, log, false)
		if err != nil {
			return err
		}
		removed, err := svc.Sweeper.RunOnce(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired sessions\n", removed)
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an operator token for the admin API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := environment()
		if err != nil {
			return err
		}
		defer log.Sync()

		if tokenTTL > 0 {
			cfg.JWTExpirationMinutes = int(tokenTTL / time.Minute)
		}
		token, err := utils.GenerateToken(tokenSubject, models.Role(tokenRole), cfg)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}
