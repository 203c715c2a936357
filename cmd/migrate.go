package cmd

import (
	"fmt"

	"quality-admin/feature/dataquality/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateOrgs []int

// migrateCmd creates or updates the data quality tables.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the data quality tables",
	Long: `Auto-migrates the rule and label tables. With --org, the default status labels
are seeded for each given organization.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logg.Sync()

		if err := rt.db.AutoMigrate(repository.Models()...); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		rt.logg.Info("Migrated data quality tables")

		svc := rt.service()
		for _, org := range migrateOrgs {
			created, err := svc.EnsureLabels(cmd.Context(), org)
			if err != nil {
				return fmt.Errorf("failed to seed labels for organization %d: %w", org, err)
			}
			rt.logg.Info("Seeded default labels", zap.Int("org_id", org), zap.Int("created", created))
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().IntSliceVar(&migrateOrgs, "org", nil, "Seed default labels for these organization ids")
	RootCmd.AddCommand(migrateCmd)
}
