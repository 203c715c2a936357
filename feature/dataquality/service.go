package dataquality

import (
	"context"
	"errors"
	"fmt"

	"quality-admin/feature/dataquality/archive"
	"quality-admin/feature/dataquality/models"
	"quality-admin/feature/dataquality/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service backs the rule stores with the database and the snapshot archive, and owns the
// editing sessions.
type Service struct {
	rules    *repository.RuleRepository
	labels   *repository.LabelRepository
	columns  *repository.ColumnCatalog
	archive  *archive.Archive
	cfg      Config
	logger   *zap.Logger
	sessions *sessionRegistry
}

// NewService creates the data quality service. snapshots may be nil to disable archiving.
func NewService(db *gorm.DB, snapshots *archive.Archive, cfg Config, logger *zap.Logger) *Service {
	labels := repository.NewLabelRepository(db, logger)
	return &Service{
		rules:    repository.NewRuleRepository(db, labels, logger),
		labels:   labels,
		columns:  repository.NewColumnCatalog(db, logger),
		archive:  snapshots,
		cfg:      cfg,
		logger:   logger,
		sessions: newSessionRegistry(cfg.SessionTTL()),
	}
}

// FetchRules returns the stored rules of an organization.
func (s *Service) FetchRules(ctx context.Context, orgID int) (*models.Payload, error) {
	return s.rules.FetchRules(ctx, orgID)
}

// RestoreDefaultRules replaces the stored rules with the defaults.
func (s *Service) RestoreDefaultRules(ctx context.Context, orgID int) (*models.Payload, error) {
	p, err := s.rules.RestoreDefaultRules(ctx, orgID)
	if err != nil {
		return nil, err
	}
	s.snapshot(ctx, orgID, p, "restore defaults")
	return p, nil
}

// ResetAllRules deletes every stored rule.
func (s *Service) ResetAllRules(ctx context.Context, orgID int) (*models.Payload, error) {
	return s.rules.ResetAllRules(ctx, orgID)
}

// SaveRules stores the payload and archives a snapshot of it.
func (s *Service) SaveRules(ctx context.Context, orgID int, payload *models.Payload) error {
	if err := s.rules.SaveRules(ctx, orgID, payload); err != nil {
		return err
	}
	s.snapshot(ctx, orgID, payload, "save")
	return nil
}

// snapshot archives the payload. Archive failures never fail the save.
func (s *Service) snapshot(ctx context.Context, orgID int, payload *models.Payload, comment string) {
	if s.archive == nil || !s.cfg.ArchiveOnSave {
		return
	}
	if _, err := s.archive.Put(ctx, orgID, payload, comment); err != nil {
		s.logger.Warn("Failed to archive rule snapshot", zap.Int("org_id", orgID), zap.Error(err))
	}
}

// Columns returns the columns of one inventory type.
func (s *Service) Columns(inv models.InventoryType) ([]models.Column, error) {
	return s.columns.Columns(inv)
}

// AllColumns returns the columns of both inventory types.
func (s *Service) AllColumns() (map[models.InventoryType][]models.Column, error) {
	return s.columns.All()
}

// Labels returns the labels of an organization.
func (s *Service) Labels(ctx context.Context, orgID int) ([]models.Label, error) {
	return s.labels.List(ctx, orgID)
}

// LabelByName returns the label of the organization with exactly the given name.
func (s *Service) LabelByName(ctx context.Context, orgID int, name string) (models.Label, error) {
	return s.labels.FindByName(ctx, orgID, name)
}

// EnsureLabels seeds the default labels of an organization.
func (s *Service) EnsureLabels(ctx context.Context, orgID int) (int, error) {
	return s.labels.EnsureDefaults(ctx, orgID)
}

// Archive returns the snapshot archive, nil when disabled.
func (s *Service) Archive() *archive.Archive {
	return s.archive
}

// ErrArchiveDisabled is returned by snapshot operations when no archive is configured.
var ErrArchiveDisabled = errors.New("snapshot archive is disabled")

// DeleteSnapshot removes one archived snapshot of the organization.
func (s *Service) DeleteSnapshot(ctx context.Context, orgID int, key string) error {
	if s.archive == nil {
		return ErrArchiveDisabled
	}
	return s.archive.Delete(ctx, orgID, key)
}

// Rollback saves the newest archived snapshot, or the one at key, as the current rule set.
func (s *Service) Rollback(ctx context.Context, orgID int, key string) (archive.Snapshot, error) {
	if s.archive == nil {
		return archive.Snapshot{}, ErrArchiveDisabled
	}

	var (
		payload *models.Payload
		snap    archive.Snapshot
		err     error
	)
	if key == "" {
		payload, snap, err = s.archive.Latest(ctx, orgID)
	} else {
		payload, snap, err = s.archive.Get(ctx, key)
	}
	if err != nil {
		return archive.Snapshot{}, err
	}
	if snap.OrgID != 0 && snap.OrgID != orgID {
		return archive.Snapshot{}, fmt.Errorf("%w: %s belongs to organization %d", archive.ErrForeignSnapshot, snap.Key, snap.OrgID)
	}

	if err := s.rules.SaveRules(ctx, orgID, payload); err != nil {
		return archive.Snapshot{}, err
	}
	s.logger.Info("Rolled back rules", zap.Int("org_id", orgID), zap.String("snapshot", snap.Key))
	return snap, nil
}
