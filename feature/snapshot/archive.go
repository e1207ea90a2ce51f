package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"warehouse-sync/core/reconcile"
	"warehouse-sync/core/storage"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const (
	// Prefix is the bucket folder holding archived snapshots.
	Prefix = "snapshots/"
	// LatestObject always holds the most recent archive.
	LatestObject = Prefix + "latest.json"
)

// ErrNoArchive is returned when the bucket holds no snapshot yet.
var ErrNoArchive = errors.New("no archived snapshot")

// Archive uploads snapshots as JSON objects to the storage bucket.
type Archive struct {
	client    storage.Client
	bucket    string
	retention int
	logger    *zap.Logger
}

// NewArchive creates an archive; retention <= 0 keeps every object.
func NewArchive(client storage.Client, bucket string, retention int, logger *zap.Logger) *Archive {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archive{client: client, bucket: bucket, retention: retention, logger: logger}
}

// ObjectName returns the timestamped object name for s.
func ObjectName(s reconcile.Snapshot) string {
	return path.Join(Prefix, strconv.FormatInt(s.TakenAt.Unix(), 10)+".json")
}

// Put uploads s under its timestamped name and as latest.json, then prunes.
// It returns the timestamped object name.
func (a *Archive) Put(ctx context.Context, s reconcile.Snapshot) (string, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	name := ObjectName(s)
	for _, object := range []string{name, LatestObject} {
		opts := minio.PutObjectOptions{ContentType: "application/json"}
		if _, err := a.client.PutObject(ctx, a.bucket, object, bytes.NewReader(payload), int64(len(payload)), opts); err != nil {
			return "", fmt.Errorf("upload %s: %w", object, err)
		}
	}

	if err := a.prune(ctx); err != nil {
		// The archive itself succeeded.
		a.logger.Warn("Snapshot retention pruning failed", zap.Error(err))
	}
	return name, nil
}

// Latest downloads and decodes latest.json.
func (a *Archive) Latest(ctx context.Context) (reconcile.Snapshot, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, LatestObject, minio.GetObjectOptions{})
	if err != nil {
		return reconcile.Snapshot{}, fmt.Errorf("download %s: %w", LatestObject, err)
	}
	defer obj.Close()

	raw, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return reconcile.Snapshot{}, ErrNoArchive
		}
		return reconcile.Snapshot{}, fmt.Errorf("read %s: %w", LatestObject, err)
	}

	var s reconcile.Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return reconcile.Snapshot{}, fmt.Errorf("decode %s: %w", LatestObject, err)
	}
	return s, nil
}

// List returns the timestamped archive objects, oldest first.
func (a *Archive) List(ctx context.Context) ([]string, error) {
	var names []string
	opts := minio.ListObjectsOptions{Prefix: Prefix, Recursive: true}
	for obj := range a.client.ListObjects(ctx, a.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list %s: %w", Prefix, obj.Err)
		}
		if _, ok := archiveTimestamp(obj.Key); ok {
			names = append(names, obj.Key)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		ti, _ := archiveTimestamp(names[i])
		tj, _ := archiveTimestamp(names[j])
		return ti < tj
	})
	return names, nil
}

func (a *Archive) prune(ctx context.Context) error {
	if a.retention <= 0 {
		return nil
	}
	names, err := a.List(ctx)
	if err != nil {
		return err
	}
	if len(names) <= a.retention {
		return nil
	}
	stale := names[:len(names)-a.retention]

	objectsCh := make(chan minio.ObjectInfo, len(stale))
	for _, name := range stale {
		objectsCh <- minio.ObjectInfo{Key: name}
	}
	close(objectsCh)

	var errs []error
	for rErr := range a.client.RemoveObjects(ctx, a.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		errs = append(errs, fmt.Errorf("remove %s: %w", rErr.ObjectName, rErr.Err))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	a.logger.Debug("Pruned archived snapshots", zap.Int("removed", len(stale)))
	return nil
}

func archiveTimestamp(key string) (int64, bool) {
	base := strings.TrimSuffix(strings.TrimPrefix(key, Prefix), ".json")
	if base == key || strings.Contains(base, "/") {
		return 0, false
	}
	ts, err := strconv.ParseInt(base, 10, 64)
	return ts, err == nil
}
