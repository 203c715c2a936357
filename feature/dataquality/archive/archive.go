package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"quality-admin/core/storage"
	"quality-admin/feature/dataquality/models"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ErrNoSnapshots is returned when an organization has no archived rule set.
var ErrNoSnapshots = errors.New("no snapshots found")

// ErrForeignSnapshot is returned when a snapshot key belongs to another organization.
var ErrForeignSnapshot = errors.New("snapshot belongs to another organization")

// timeLayout is fixed width so keys sort lexically in write order.
const timeLayout = "20060102T150405.000000000Z"

// legacyTimeLayout names snapshots written with second precision.
const legacyTimeLayout = "20060102T150405Z"

// Snapshot describes one archived rule set.
type Snapshot struct {
	Key     string    `json:"key"`
	OrgID   int       `json:"organization_id"`
	Taken   time.Time `json:"taken"`
	Size    int64     `json:"size"`
	Rules   int       `json:"rules,omitempty"`
	Comment string    `json:"comment,omitempty"`
}

// document is the stored object body.
type document struct {
	OrgID   int             `json:"organization_id"`
	Taken   time.Time       `json:"taken"`
	Comment string          `json:"comment,omitempty"`
	Rules   *models.Payload `json:"rules"`
}

// Archive writes rule snapshots to object storage under <prefix>/<org>/<timestamp>-<id>.json.
type Archive struct {
	client storage.Client
	bucket string
	prefix string
	keep   int
	logger *zap.Logger
	now    func() time.Time

	mu   sync.Mutex
	last time.Time
}

// New creates an archive. keep bounds the snapshots per organization, zero keeps all.
func New(client storage.Client, bucket, prefix string, keep int, logger *zap.Logger) *Archive {
	return &Archive{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		keep:   keep,
		logger: logger,
		now:    time.Now,
	}
}

// Bucket returns the archive bucket.
func (a *Archive) Bucket() string { return a.bucket }

// Prefix returns the object prefix shared by all organizations.
func (a *Archive) Prefix() string { return a.prefix }

// stamp returns the snapshot time, strictly after the previous one written by this archive.
func (a *Archive) stamp() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	t := a.now().UTC()
	if !t.After(a.last) {
		t = a.last.Add(time.Nanosecond)
	}
	a.last = t
	return t
}

func (a *Archive) orgPrefix(orgID int) string {
	return path.Join(a.prefix, fmt.Sprint(orgID)) + "/"
}

// Put stores a snapshot of the payload and prunes old snapshots.
func (a *Archive) Put(ctx context.Context, orgID int, payload *models.Payload, comment string) (Snapshot, error) {
	taken := a.stamp()
	body, err := json.MarshalIndent(document{OrgID: orgID, Taken: taken, Comment: comment, Rules: payload}, "", "  ")
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := a.orgPrefix(orgID) + taken.Format(timeLayout) + "-" + uuid.NewString() + ".json"
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to write snapshot %s: %w", key, err)
	}

	a.logger.Info("Archived rule snapshot", zap.String("key", key), zap.Int("org_id", orgID), zap.Int("rules", payload.Len()))

	if a.keep > 0 {
		if _, err := a.Prune(ctx, orgID, a.keep); err != nil {
			a.logger.Warn("Failed to prune snapshots", zap.Int("org_id", orgID), zap.Error(err))
		}
	}

	return Snapshot{Key: key, OrgID: orgID, Taken: taken, Size: int64(len(body)), Rules: payload.Len(), Comment: comment}, nil
}

// List returns the snapshots of an organization, newest first.
func (a *Archive) List(ctx context.Context, orgID int) ([]Snapshot, error) {
	var snapshots []Snapshot
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: a.orgPrefix(orgID), Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		snapshots = append(snapshots, Snapshot{
			Key:   obj.Key,
			OrgID: orgID,
			Taken: takenFromKey(obj.Key, obj.LastModified),
			Size:  obj.Size,
		})
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		if !snapshots[i].Taken.Equal(snapshots[j].Taken) {
			return snapshots[i].Taken.After(snapshots[j].Taken)
		}
		return snapshots[i].Key > snapshots[j].Key
	})
	return snapshots, nil
}

// Get reads one snapshot.
func (a *Archive) Get(ctx context.Context, key string) (*models.Payload, Snapshot, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, Snapshot{}, fmt.Errorf("failed to open snapshot %s: %w", key, err)
	}
	defer obj.Close()

	body, err := io.ReadAll(obj)
	if err != nil {
		return nil, Snapshot{}, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}

	var doc document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, Snapshot{}, fmt.Errorf("failed to decode snapshot %s: %w", key, err)
	}
	if doc.Rules == nil {
		doc.Rules = models.NewPayload()
	}

	return doc.Rules, Snapshot{
		Key:     key,
		OrgID:   doc.OrgID,
		Taken:   doc.Taken,
		Size:    int64(len(body)),
		Rules:   doc.Rules.Len(),
		Comment: doc.Comment,
	}, nil
}

// Latest reads the newest snapshot of an organization.
func (a *Archive) Latest(ctx context.Context, orgID int) (*models.Payload, Snapshot, error) {
	snapshots, err := a.List(ctx, orgID)
	if err != nil {
		return nil, Snapshot{}, err
	}
	if len(snapshots) == 0 {
		return nil, Snapshot{}, fmt.Errorf("%w for organization %d", ErrNoSnapshots, orgID)
	}
	return a.Get(ctx, snapshots[0].Key)
}

// Delete removes one snapshot of an organization.
func (a *Archive) Delete(ctx context.Context, orgID int, key string) error {
	if !strings.HasPrefix(key, a.orgPrefix(orgID)) {
		return fmt.Errorf("%w: %s is not under organization %d", ErrForeignSnapshot, key, orgID)
	}
	if err := a.client.RemoveObject(ctx, a.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", key, err)
	}
	a.logger.Info("Deleted rule snapshot", zap.String("key", key), zap.Int("org_id", orgID))
	return nil
}

// Prune deletes all but the newest keep snapshots and returns how many were removed.
func (a *Archive) Prune(ctx context.Context, orgID int, keep int) (int, error) {
	snapshots, err := a.List(ctx, orgID)
	if err != nil {
		return 0, err
	}
	if keep < 0 || len(snapshots) <= keep {
		return 0, nil
	}

	stale := snapshots[keep:]
	objectsCh := make(chan minio.ObjectInfo, len(stale))
	for _, s := range stale {
		objectsCh <- minio.ObjectInfo{Key: s.Key}
	}
	close(objectsCh)

	var errs []error
	for rErr := range a.client.RemoveObjects(ctx, a.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		errs = append(errs, fmt.Errorf("%s: %w", rErr.ObjectName, rErr.Err))
	}
	if len(errs) > 0 {
		return len(stale) - len(errs), fmt.Errorf("failed to prune snapshots: %w", errors.Join(errs...))
	}

	a.logger.Debug("Pruned snapshots", zap.Int("org_id", orgID), zap.Int("removed", len(stale)))
	return len(stale), nil
}

func takenFromKey(key string, fallback time.Time) time.Time {
	base := path.Base(key)
	for _, layout := range []string{timeLayout, legacyTimeLayout} {
		if len(base) < len(layout) {
			continue
		}
		if t, err := time.Parse(layout, base[:len(layout)]); err == nil {
			return t
		}
	}
	return fallback
}
