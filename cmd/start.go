package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"warehouse-sync/core/loader"
	"warehouse-sync/core/logger"
	"warehouse-sync/core/middleware/auth"
	"warehouse-sync/core/middleware/rayid"
	"warehouse-sync/core/relay"

	"warehouse-sync/feature/integrity"
	"warehouse-sync/feature/inventory"
	"warehouse-sync/feature/snapshot"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "warehouse-sync/docs/swagger"
)

// @title Warehouse Sync API
// @version 1.0
// @description Multi-warehouse inventory reconciliation engine.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the warehouse sync server",
	Long:  `Restores the latest snapshot, starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 1. Configuration, logger, engine and optional sinks
		d, err := bootstrap(ctx, prometheus.DefaultRegisterer)
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		logg := d.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 2. Restore the last known state before serving traffic
		if err := d.restore(ctx); err != nil {
			logg.Fatal("Startup restore failed", zap.Error(err))
		}

		// 3. Redis relay (Optional)
		var rel *relay.Relay
		if d.cfg.Relay.Enabled {
			rc, err := relay.NewClient(ctx, d.cfg.Relay)
			if err != nil {
				logg.Warn("Optional event relay unavailable", zap.Error(err))
			} else {
				defer rc.Close()
				rel = relay.New(rc, d.cfg.Relay, logg)
				rel.Attach(d.engine.Bus())
				logg.Info("Relaying inventory events", zap.String("address", d.cfg.Relay.Address))
			}
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			// Handler values outlive the request; the engine stores IDs as map keys.
			Immutable: true,
		})

		// 5. Register Features
		mgr := loader.NewManager(logg)
		mgr.Register(inventory.NewFeature(d.engine, logg))
		mgr.Register(snapshot.NewFeature(d.snapshots))
		mgr.Register(integrity.NewFeature(d.store, d.cfg.Storage.Bucket, d.cfg.Storage.Region, d.db, d.engine, logg))

		// RayID must be first to trace everything
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Public endpoints
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

		app.Use(auth.New(d.cfg.Server.ApiKey))
		if !d.cfg.Server.AuthEnabled() {
			logg.Warn("API key not set, requests are not authenticated")
		}

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 6. Periodic snapshots
		snapCtx, stopSnapshots := context.WithCancel(context.Background())
		snapDone := make(chan struct{})
		go func() {
			defer close(snapDone)
			d.snapshots.Run(snapCtx, d.cfg.Sync.SnapshotInterval())
		}()

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("address", d.cfg.Server.Address()))
			if err := app.Listen(d.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		<-ctx.Done()
		logg.Info("Shutting down server...")

		timeout := d.cfg.Server.ShutdownTimeout()
		if err := app.ShutdownWithTimeout(timeout); err != nil {
			logg.Error("HTTP shutdown failed", zap.Error(err))
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := d.engine.Shutdown(shutdownCtx); err != nil {
			logg.Warn("Propagations still in flight at shutdown", zap.Error(err))
		}
		// The final snapshot is taken after propagation has drained.
		stopSnapshots()
		<-snapDone

		if rel != nil {
			if err := rel.Close(shutdownCtx); err != nil {
				logg.Warn("Event relay did not drain", zap.Error(err), zap.Int64("dropped", rel.Dropped()))
			}
		}
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
