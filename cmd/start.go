package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quality-admin/core/loader"
	"quality-admin/core/logger"
	"quality-admin/core/middleware/auth"
	"quality-admin/core/middleware/rayid"
	"quality-admin/core/storage"
	"quality-admin/feature/dataquality"
	"quality-admin/feature/integrity"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "quality-admin/docs/swagger"
)

// @title Data Quality Admin API
// @version 1.0
// @description API for editing the data quality rules of an organization.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the data quality admin server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		rt, err := bootstrap()
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		logg := rt.logg
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if rt.store != nil {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			created, err := storage.EnsureBucket(ctx, rt.store, rt.cfg.Storage.Bucket, rt.cfg.Storage.Region)
			cancel()
			if err != nil {
				// Saves still succeed without the archive.
				logg.Warn("Snapshot bucket unavailable", zap.Error(err))
			} else if created {
				logg.Info("Created snapshot bucket", zap.String("bucket", rt.cfg.Storage.Bucket))
			}
		} else {
			logg.Info("Object storage disabled, rule snapshots will not be archived")
		}

		app := fiber.New(rt.cfg.Server.FiberConfig())

		mgr := loader.NewManager(logg)
		mgr.Register(dataquality.NewFeature(rt.db, rt.archive, rt.cfg.DataQuality, logg))
		mgr.Register(integrity.NewFeature(rt.store, rt.cfg.Storage, rt.cfg.DataQuality.ArchivePrefix, rt.db, logg))

		// RayID must be first to trace everything.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			start := time.Now()
			err := c.Next()
			l.Info("Request handled",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("duration", time.Since(start)),
			)
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger is public.
		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey, Skip: []string{"/swagger"}}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("address", rt.cfg.Server.Address()))
			if err := app.Listen(rt.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
