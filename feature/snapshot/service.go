package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"warehouse-sync/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrPersistenceDisabled is returned when neither a database nor a bucket is configured.
var ErrPersistenceDisabled = errors.New("snapshot persistence is disabled")

// Result describes one completed snapshot.
type Result struct {
	TakenAt       time.Time `json:"taken_at"`
	Warehouses    int       `json:"warehouses"`
	Records       int       `json:"records"`
	Conflicts     int       `json:"conflicts"`
	Persisted     bool      `json:"persisted"`
	ArchiveObject string    `json:"archive_object,omitempty"`
}

// Service captures engine snapshots into the database and the archive bucket.
// Either sink may be nil.
type Service struct {
	engine  *reconcile.Engine
	repo    *Repository
	archive *Archive
	logger  *zap.Logger
	sf      singleflight.Group
}

// NewService creates a snapshot service.
func NewService(engine *reconcile.Engine, repo *Repository, archive *Archive, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{engine: engine, repo: repo, archive: archive, logger: logger}
}

// Enabled reports whether at least one sink is configured.
func (s *Service) Enabled() bool {
	return s.repo != nil || s.archive != nil
}

// Take snapshots the engine and writes it to every configured sink.
// Concurrent calls share one snapshot.
func (s *Service) Take(ctx context.Context) (Result, error) {
	if !s.Enabled() {
		return Result{}, ErrPersistenceDisabled
	}
	v, err, shared := s.sf.Do("take", func() (any, error) {
		return s.take(ctx)
	})
	if err != nil {
		return Result{}, err
	}
	res := v.(Result)
	if shared {
		s.logger.Debug("Snapshot request coalesced", zap.Time("taken_at", res.TakenAt))
	}
	return res, nil
}

func (s *Service) take(ctx context.Context) (Result, error) {
	snap := s.engine.Snapshot()
	res := Result{
		TakenAt:    snap.TakenAt,
		Warehouses: len(snap.Warehouses),
		Conflicts:  len(snap.Conflicts),
	}
	for _, w := range snap.Warehouses {
		res.Records += len(w.Inventory)
	}

	if s.repo != nil {
		if _, err := s.repo.Save(ctx, snap); err != nil {
			return Result{}, err
		}
		res.Persisted = true
	}
	if s.archive != nil {
		name, err := s.archive.Put(ctx, snap)
		if err != nil {
			return Result{}, err
		}
		res.ArchiveObject = name
	}

	s.logger.Info("Snapshot taken",
		zap.Int("warehouses", res.Warehouses),
		zap.Int("records", res.Records),
		zap.Int("conflicts", res.Conflicts),
		zap.Bool("persisted", res.Persisted),
		zap.String("archive_object", res.ArchiveObject))
	return res, nil
}

// Latest returns metadata of the last snapshot saved to the database.
func (s *Service) Latest(ctx context.Context) (SnapshotRow, bool, error) {
	if s.repo == nil {
		return SnapshotRow{}, false, ErrPersistenceDisabled
	}
	return s.repo.Latest(ctx)
}

// ArchivePersisted copies the snapshot stored in the database to the bucket.
func (s *Service) ArchivePersisted(ctx context.Context) (string, error) {
	if s.repo == nil || s.archive == nil {
		return "", fmt.Errorf("archiving needs both database and storage: %w", ErrPersistenceDisabled)
	}
	snap, ok, err := s.repo.Load(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("no persisted snapshot to archive")
	}
	return s.archive.Put(ctx, snap)
}

// Restore loads the newest available snapshot into the engine.
// The database is preferred over the archive. It reports whether anything was restored.
func (s *Service) Restore(ctx context.Context) (bool, error) {
	if s.repo != nil {
		snap, ok, err := s.repo.Load(ctx)
		if err != nil {
			return false, err
		}
		if ok {
			return true, s.engine.Restore(snap)
		}
	}
	if s.archive != nil {
		snap, err := s.archive.Latest(ctx)
		if errors.Is(err, ErrNoArchive) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, s.engine.Restore(snap)
	}
	return false, nil
}

// Run takes a snapshot every interval until ctx is done, and once more on exit.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 || !s.Enabled() {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if _, err := s.Take(final); err != nil {
				s.logger.Error("Final snapshot failed", zap.Error(err))
			}
			cancel()
			return
		case <-ticker.C:
			if _, err := s.Take(ctx); err != nil {
				s.logger.Error("Periodic snapshot failed", zap.Error(err))
			}
		}
	}
}
