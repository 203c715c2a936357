package cmd

import (
	"context"
	"errors"
	"fmt"

	"quality-admin/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the database schema and the snapshot archive",
	Long:  `Checks that the rule tables match the models and that the snapshot bucket is usable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, true)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the data quality tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false)
	},
}

// archiveCmd represents the integrity archive command
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Check and fix the snapshot archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(schemaCmd, archiveCmd)

	archiveCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the missing bucket and prefix")
}

func runIntegrityChecks(ctx context.Context, runSchema, runArchive bool) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	logg := rt.logg
	defer logg.Sync()

	svc := integrity.NewService(rt.store, rt.cfg.Storage, rt.cfg.DataQuality.ArchivePrefix, rt.db, logg)
	failed := false

	if runSchema {
		logg.Info("Checking database schema...")
		report, err := svc.CheckSchema()
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
		if report.Matched {
			logg.Info("Schema matches the expected definition.", zap.String("driver", report.Driver))
		} else {
			failed = true
			logg.Warn("Schema mismatches found", zap.String("driver", report.Driver))
			for table, tbl := range report.Tables {
				if tbl.Status == "ok" {
					continue
				}
				if tbl.Missing {
					logg.Warn("Missing table, run migrate", zap.String("table", table))
				}
				if len(tbl.MissingColumns) > 0 {
					logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
				}
				if len(tbl.TypeMismatches) > 0 {
					logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tbl.TypeMismatches))
				}
			}
			for _, e := range report.Errors {
				logg.Error("Inspection Error", zap.String("error", e))
			}
		}
	}

	if runArchive {
		logg.Info("Checking snapshot archive...")
		report, err := svc.CheckArchive(ctx)
		if errors.Is(err, integrity.ErrStorageDisabled) {
			logg.Info("Object storage disabled, skipping archive check.")
		} else if err != nil {
			return fmt.Errorf("archive check failed: %w", err)
		} else {
			if !report.BucketExists || !report.PrefixExists {
				if fixFlag {
					logg.Info("Fixing snapshot archive...")
					if err := svc.FixArchive(ctx); err != nil {
						return fmt.Errorf("failed to fix archive: %w", err)
					}
					logg.Info("Snapshot archive fixed successfully.")
					if report, err = svc.CheckArchive(ctx); err != nil {
						return fmt.Errorf("archive check failed: %w", err)
					}
				} else {
					logg.Info("Run 'integrity archive --fix' to create the bucket and prefix.")
				}
			}

			if report.Status == "ok" {
				logg.Info("Snapshot archive is intact.",
					zap.Int("snapshots", report.Snapshots),
					zap.Int("organizations", report.Organizations))
			} else {
				failed = true
				logg.Warn("Snapshot archive problems detected",
					zap.Bool("bucket_exists", report.BucketExists),
					zap.Bool("prefix_exists", report.PrefixExists),
					zap.Strings("unexpected", report.Unexpected))
			}
		}
	}

	if failed {
		return fmt.Errorf("integrity checks found problems")
	}
	return nil
}
