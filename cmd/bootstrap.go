package cmd

import (
	"context"
	"fmt"

	"warehouse-sync/core/config"
	"warehouse-sync/core/database"
	"warehouse-sync/core/logger"
	"warehouse-sync/core/metrics"
	"warehouse-sync/core/reconcile"
	"warehouse-sync/core/storage"
	"warehouse-sync/feature/snapshot"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// deps bundles the components every command builds from configuration.
type deps struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *gorm.DB
	store     storage.Client
	engine    *reconcile.Engine
	archive   *snapshot.Archive
	snapshots *snapshot.Service
}

// bootstrap loads configuration and connects the optional sinks.
// Sinks that are disabled or unreachable stay nil; the engine always works in memory.
func bootstrap(ctx context.Context, reg prometheus.Registerer) (*deps, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	d := &deps{cfg: cfg, logger: logg}

	var repo *snapshot.Repository
	if cfg.Database.Enabled {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			repo = snapshot.NewRepository(db)
			if err := repo.Migrate(ctx); err != nil {
				return nil, fmt.Errorf("failed to migrate snapshot tables: %w", err)
			}
			d.db = db
			logg.Info("Connected to snapshot database", zap.String("driver", cfg.Database.Driver))
		}
	}

	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Warn("Optional storage client failed", zap.Error(err))
		} else if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			logg.Warn("Snapshot bucket unavailable", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
		} else {
			d.store = client
			d.archive = snapshot.NewArchive(client, cfg.Storage.Bucket, cfg.Storage.Retention, logg)
		}
	}

	opts := []reconcile.Option{}
	if reg != nil {
		opts = append(opts, reconcile.WithMetrics(metrics.NewSyncMetrics(reg)))
	}
	d.engine = reconcile.NewEngine(cfg.Sync, logg, opts...)
	d.snapshots = snapshot.NewService(d.engine, repo, d.archive, logg)

	return d, nil
}

// restore loads the newest snapshot into the engine, if any sink holds one.
func (d *deps) restore(ctx context.Context) error {
	if !d.snapshots.Enabled() {
		return nil
	}
	restored, err := d.snapshots.Restore(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore snapshot: %w", err)
	}
	if restored {
		d.logger.Info("Restored inventory from snapshot",
			zap.Int("warehouses", len(d.engine.ListWarehouses())),
		)
	}
	return nil
}
