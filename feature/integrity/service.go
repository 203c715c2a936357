package integrity

import (
	"context"
	"errors"

	"quality-admin/core/storage"
	"quality-admin/feature/dataquality/repository"
	"quality-admin/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrStorageDisabled is returned by archive checks when no storage client is configured.
	ErrStorageDisabled = errors.New("object storage is not configured")
	// ErrDatabaseDisabled is returned by schema checks when no database is configured.
	ErrDatabaseDisabled = errors.New("database is not configured")
)

// Service handles integrity checks.
type Service struct {
	client storage.Client
	bucket string
	region string
	prefix string
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new integrity service. client and db may be nil.
func NewService(client storage.Client, storageCfg storage.Config, prefix string, db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		bucket: storageCfg.Bucket,
		region: storageCfg.Region,
		prefix: prefix,
		db:     db,
		logger: logger,
	}
}

// CheckSchema compares the rule store tables with the repository models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	if s.db == nil {
		return nil, ErrDatabaseDisabled
	}
	return checks.CheckSchema(s.db, repository.Models())
}

// CheckArchive inspects the snapshot bucket and prefix.
func (s *Service) CheckArchive(ctx context.Context) (*checks.ArchiveReport, error) {
	if s.client == nil {
		return nil, ErrStorageDisabled
	}
	return checks.CheckArchive(ctx, s.client, s.bucket, s.prefix)
}

// FixArchive creates the snapshot bucket and prefix.
func (s *Service) FixArchive(ctx context.Context) error {
	if s.client == nil {
		return ErrStorageDisabled
	}
	return checks.FixArchive(ctx, s.client, s.bucket, s.region, s.prefix, s.logger)
}
