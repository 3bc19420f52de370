package main

import (
	"fmt"

	"realestate-backend/internal/adapter/repository/mysql"

	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the tables this service owns",
		RunE: func(cmd *cobra.Command, args []string) error {
			withCollaborators, _ := cmd.Flags().GetBool("with-collaborators")

			cfg, log := loadConfig()
			if err := cfg.ValidateDB(); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			gdb, err := openDB(cfg, log)
			if err != nil {
				return err
			}
			defer closeDB(gdb, log)

			if err := mysql.Migrate(gdb, withCollaborators); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info("migration complete", "driver", cfg.DBDriver, "with_collaborators", withCollaborators)
			return nil
		},
	}
	cmd.Flags().Bool("with-collaborators", false, "also create the users and property tables (local development)")
	return cmd
}
