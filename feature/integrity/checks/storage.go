package checks

import (
	"bytes"
	"context"
	"fmt"

	"warehouse-sync/core/storage"
	"warehouse-sync/feature/snapshot"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// StorageReport describes the state of the snapshot archive bucket.
type StorageReport struct {
	Bucket        string `json:"bucket"`
	Status        string `json:"status"` // "ok", "missing_prefix"
	PrefixPresent bool   `json:"prefix_present"`
	LatestPresent bool   `json:"latest_present"`
	Archives      int    `json:"archives"`
}

// CheckStorage verifies the bucket exists and inspects the snapshots/ prefix.
func CheckStorage(ctx context.Context, client storage.Client, bucket string) (*StorageReport, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}

	report := &StorageReport{Bucket: bucket, Status: "ok"}
	opts := minio.ListObjectsOptions{Prefix: snapshot.Prefix, Recursive: true}
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", snapshot.Prefix, obj.Err)
		}
		report.PrefixPresent = true
		switch {
		case obj.Key == snapshot.LatestObject:
			report.LatestPresent = true
		case obj.Key != snapshot.Prefix:
			report.Archives++
		}
	}
	if !report.PrefixPresent {
		report.Status = "missing_prefix"
	}
	return report, nil
}

// FixStorage creates the bucket if needed and a folder marker for the snapshots/ prefix.
func FixStorage(ctx context.Context, client storage.Client, bucket, region string, logger *zap.Logger) error {
	if err := storage.EnsureBucket(ctx, client, bucket, region); err != nil {
		logger.Error("Failed to ensure bucket", zap.String("bucket", bucket), zap.Error(err))
		return err
	}
	_, err := client.PutObject(ctx, bucket, snapshot.Prefix, bytes.NewReader([]byte{}), 0, minio.PutObjectOptions{})
	if err != nil {
		logger.Error("Failed to create folder", zap.String("folder", snapshot.Prefix), zap.Error(err))
		return err
	}
	logger.Info("Created snapshot folder", zap.String("bucket", bucket), zap.String("folder", snapshot.Prefix))
	return nil
}
