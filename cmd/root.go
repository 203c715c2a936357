package cmd

import (
	"fmt"
	"os"

	"quality-admin/core/config"
	"quality-admin/core/database"
	"quality-admin/core/logger"
	"quality-admin/core/storage"
	"quality-admin/feature/dataquality"
	"quality-admin/feature/dataquality/archive"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "quality-admin",
	Short: "Data Quality Rules Admin",
	Long: `Quality Admin edits the data quality rules organizations apply to their
property and tax lot inventories, and archives every saved rule set.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with the development encoder gives ISO8601 timestamps on the CLI.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

// env is what every command builds from the configuration.
type env struct {
	cfg     *config.Config
	logg    *zap.Logger
	db      *gorm.DB
	store   storage.Client
	archive *archive.Archive
}

// bootstrap loads the configuration and opens the database and, when enabled, object storage.
func bootstrap() (*env, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.Connect(cfg.Database, logg)
	if err != nil {
		return nil, fmt.Errorf("database connection required: %w", err)
	}

	rt := &env{cfg: cfg, logg: logg, db: db}
	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		rt.store = client
		rt.archive = archive.New(client, cfg.Storage.Bucket, cfg.DataQuality.ArchivePrefix, cfg.DataQuality.ArchiveKeep, logg)
	}
	return rt, nil
}

func (rt *env) service() *dataquality.Service {
	return dataquality.NewService(rt.db, rt.archive, rt.cfg.DataQuality, rt.logg)
}
