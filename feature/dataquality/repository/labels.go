package repository

import (
	"context"
	"errors"
	"fmt"

	"quality-admin/feature/dataquality/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrLabelNotFound is returned when no label matches.
var ErrLabelNotFound = errors.New("label not found")

// LabelRepository reads and seeds the status labels of an organization.
type LabelRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewLabelRepository creates a label repository.
func NewLabelRepository(db *gorm.DB, logger *zap.Logger) *LabelRepository {
	return &LabelRepository{db: db, logger: logger}
}

// List returns the labels of an organization ordered by name.
func (r *LabelRepository) List(ctx context.Context, orgID int) ([]models.Label, error) {
	var rows []StatusLabel
	if err := r.db.WithContext(ctx).
		Where("super_organization_id = ?", orgID).
		Order("name").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}

	labels := make([]models.Label, 0, len(rows))
	for _, row := range rows {
		labels = append(labels, row.toModel())
	}
	return labels, nil
}

// FindByName returns the label with exactly the given name.
func (r *LabelRepository) FindByName(ctx context.Context, orgID int, name string) (models.Label, error) {
	var row StatusLabel
	err := r.db.WithContext(ctx).
		Where("super_organization_id = ? AND name = ?", orgID, name).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Label{}, fmt.Errorf("%w: %q", ErrLabelNotFound, name)
	}
	if err != nil {
		return models.Label{}, fmt.Errorf("failed to find label: %w", err)
	}
	return row.toModel(), nil
}

// EnsureDefaults creates the default labels the organization is missing and reports how
// many were added.
func (r *LabelRepository) EnsureDefaults(ctx context.Context, orgID int) (int, error) {
	rows := make([]StatusLabel, 0, len(DefaultLabels))
	for _, name := range DefaultLabels {
		rows = append(rows, StatusLabel{Name: name, Color: defaultLabelColor(name), SuperOrganizationID: orgID})
	}

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to seed labels: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		r.logger.Info("Seeded default labels", zap.Int("org_id", orgID), zap.Int64("created", res.RowsAffected))
	}
	return int(res.RowsAffected), nil
}

// ownedIDs returns which of the given label ids belong to the organization.
func (r *LabelRepository) ownedIDs(tx *gorm.DB, orgID int, ids []int) (map[int]bool, error) {
	owned := make(map[int]bool, len(ids))
	if len(ids) == 0 {
		return owned, nil
	}
	var found []int
	if err := tx.Model(&StatusLabel{}).
		Where("super_organization_id = ? AND id IN ?", orgID, ids).
		Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("failed to check labels: %w", err)
	}
	for _, id := range found {
		owned[id] = true
	}
	return owned, nil
}

func defaultLabelColor(name string) string {
	switch name {
	case "Violation", "High EUI":
		return models.ColorRed
	case "Missing Data", "Questionable Report", "Update Bldg Info":
		return models.ColorOrange
	case "Compliant", "Low EUI":
		return models.ColorGreen
	case "Call", "Email":
		return models.ColorLightBlue
	case "Residential", "Non-Residential":
		return models.ColorBlue
	default:
		return models.ColorGray
	}
}
