package integrity

import (
	"context"
	"errors"

	"warehouse-sync/core/reconcile"
	"warehouse-sync/core/storage"
	"warehouse-sync/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrStorageDisabled is returned by storage checks when no bucket is configured.
var ErrStorageDisabled = errors.New("object storage is not configured")

// ErrDatabaseDisabled is returned by schema checks when no database is configured.
var ErrDatabaseDisabled = errors.New("database is not configured")

// Service handles integrity checks. The storage client and database may be nil.
type Service struct {
	client storage.Client
	bucket string
	region string
	db     *gorm.DB
	engine *reconcile.Engine
	logger *zap.Logger
}

// NewService creates a new integrity service.
func NewService(client storage.Client, bucket, region string, db *gorm.DB, engine *reconcile.Engine, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		bucket: bucket,
		region: region,
		db:     db,
		engine: engine,
		logger: logger,
	}
}

// CheckStorage inspects the snapshot archive bucket.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	if s.client == nil {
		return nil, ErrStorageDisabled
	}
	return checks.CheckStorage(ctx, s.client, s.bucket)
}

// FixStorage creates the bucket and the snapshots/ prefix.
func (s *Service) FixStorage(ctx context.Context) error {
	if s.client == nil {
		return ErrStorageDisabled
	}
	return checks.FixStorage(ctx, s.client, s.bucket, s.region, s.logger)
}

// CheckServer validates the snapshot tables.
func (s *Service) CheckServer() (*checks.ServerReport, error) {
	if s.db == nil {
		return nil, ErrDatabaseDisabled
	}
	return checks.CheckServerIntegrity(s.db)
}

// CheckEngine reports replication health.
func (s *Service) CheckEngine() checks.EngineReport {
	return checks.CheckEngine(s.engine.GetSyncStatus())
}

// RunAll runs every check. Failing or disabled checks are reported inline.
func (s *Service) RunAll(ctx context.Context) map[string]any {
	report := make(map[string]any)

	if res, err := s.CheckStorage(ctx); err != nil {
		report["storage"] = errorEntry(err)
	} else {
		report["storage"] = res
	}

	if res, err := s.CheckServer(); err != nil {
		report["server"] = errorEntry(err)
	} else {
		report["server"] = res
	}

	report["engine"] = s.CheckEngine()
	return report
}

func errorEntry(err error) map[string]any {
	status := "error"
	if errors.Is(err, ErrStorageDisabled) || errors.Is(err, ErrDatabaseDisabled) {
		status = "disabled"
	}
	return map[string]any{"status": status, "error": err.Error()}
}
