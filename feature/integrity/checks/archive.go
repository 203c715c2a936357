package checks

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"quality-admin/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ArchiveReport is the result of checking the snapshot archive.
type ArchiveReport struct {
	Bucket        string   `json:"bucket"`
	BucketExists  bool     `json:"bucket_exists"`
	Prefix        string   `json:"prefix"`
	PrefixExists  bool     `json:"prefix_exists"`
	Snapshots     int      `json:"snapshots"`
	Organizations int      `json:"organizations"`
	Unexpected    []string `json:"unexpected"`
	Status        string   `json:"status"` // "ok", "error"
}

// CheckArchive verifies the bucket exists and that every object under the prefix is a
// snapshot at <prefix>/<org>/<name>.json.
func CheckArchive(ctx context.Context, client storage.Client, bucket, prefix string) (*ArchiveReport, error) {
	prefix = strings.Trim(prefix, "/")
	report := &ArchiveReport{Bucket: bucket, Prefix: prefix, Unexpected: []string{}, Status: "ok"}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.BucketExists = exists
	if !exists {
		report.Status = "error"
		return report, nil
	}

	orgs := map[string]bool{}
	for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix + "/", Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list archive: %w", obj.Err)
		}
		report.PrefixExists = true

		rel := strings.TrimPrefix(obj.Key, prefix+"/")
		if rel == "" {
			// Folder marker.
			continue
		}
		parts := strings.Split(rel, "/")
		if len(parts) != 2 || !isNumeric(parts[0]) || !strings.HasSuffix(parts[1], ".json") {
			report.Unexpected = append(report.Unexpected, obj.Key)
			continue
		}
		orgs[parts[0]] = true
		report.Snapshots++
	}
	report.Organizations = len(orgs)

	if !report.PrefixExists || len(report.Unexpected) > 0 {
		report.Status = "error"
	}
	return report, nil
}

// FixArchive creates the bucket and the prefix marker when missing.
// Unexpected objects are reported only, never deleted.
func FixArchive(ctx context.Context, client storage.Client, bucket, region, prefix string, logger *zap.Logger) error {
	created, err := storage.EnsureBucket(ctx, client, bucket, region)
	if err != nil {
		return err
	}
	if created {
		logger.Info("Created archive bucket", zap.String("bucket", bucket))
	}

	marker := strings.Trim(prefix, "/") + "/"
	if _, err := client.PutObject(ctx, bucket, marker, bytes.NewReader([]byte{}), 0, minio.PutObjectOptions{}); err != nil {
		logger.Error("Failed to create archive prefix", zap.String("prefix", marker), zap.Error(err))
		return err
	}
	logger.Info("Created archive prefix", zap.String("prefix", marker))
	return nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
