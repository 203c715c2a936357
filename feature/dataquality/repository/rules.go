package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quality-admin/feature/dataquality/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrInvalidRule is returned when a payload cannot be stored.
var ErrInvalidRule = errors.New("invalid rule")

// RuleRepository stores the rule set of each organization.
// Saves replace the whole set inside a transaction.
type RuleRepository struct {
	db     *gorm.DB
	labels *LabelRepository
	logger *zap.Logger
}

// NewRuleRepository creates a rule repository.
func NewRuleRepository(db *gorm.DB, labels *LabelRepository, logger *zap.Logger) *RuleRepository {
	return &RuleRepository{db: db, labels: labels, logger: logger}
}

// FetchRules returns the stored rules in save order.
func (r *RuleRepository) FetchRules(ctx context.Context, orgID int) (*models.Payload, error) {
	return r.fetch(r.db.WithContext(ctx), orgID)
}

func (r *RuleRepository) fetch(tx *gorm.DB, orgID int) (*models.Payload, error) {
	var rows []DataQualityRule
	if err := tx.Where("organization_id = ?", orgID).
		Order("inventory_type, position, id").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch rules: %w", err)
	}

	p := models.NewPayload()
	for _, row := range rows {
		inv, err := models.ParseInventoryType(row.InventoryType)
		if err != nil {
			r.logger.Warn("Skipping stored rule", zap.Uint("id", row.ID), zap.Error(err))
			continue
		}
		p.Append(inv, row.toWire())
	}
	return p, nil
}

// SaveRules validates the payload and replaces the stored rules with it.
func (r *RuleRepository) SaveRules(ctx context.Context, orgID int, payload *models.Payload) error {
	if payload == nil {
		return fmt.Errorf("%w: empty payload", ErrInvalidRule)
	}
	if err := validatePayload(payload); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned, err := r.labels.ownedIDs(tx, orgID, labelIDs(payload))
		if err != nil {
			return err
		}
		for _, inv := range models.InventoryTypes {
			for i, w := range payload.Rules(inv) {
				if w.Label != nil && !owned[*w.Label] {
					return fmt.Errorf("%w: %s rule %d (%s): label %d does not exist", ErrInvalidRule, inv, i, w.Field, *w.Label)
				}
			}
		}
		return r.replace(tx, orgID, payload)
	})
}

// RestoreDefaultRules replaces the stored rules with the defaults and returns them.
func (r *RuleRepository) RestoreDefaultRules(ctx context.Context, orgID int) (*models.Payload, error) {
	var out *models.Payload
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.replace(tx, orgID, DefaultPayload()); err != nil {
			return err
		}
		var err error
		out, err = r.fetch(tx, orgID)
		return err
	})
	if err != nil {
		return nil, err
	}
	r.logger.Info("Restored default rules", zap.Int("org_id", orgID), zap.Int("rules", out.Len()))
	return out, nil
}

// ResetAllRules deletes every stored rule and returns the empty set.
func (r *RuleRepository) ResetAllRules(ctx context.Context, orgID int) (*models.Payload, error) {
	res := r.db.WithContext(ctx).Where("organization_id = ?", orgID).Delete(&DataQualityRule{})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to reset rules: %w", res.Error)
	}
	r.logger.Info("Reset all rules", zap.Int("org_id", orgID), zap.Int64("deleted", res.RowsAffected))
	return models.NewPayload(), nil
}

func (r *RuleRepository) replace(tx *gorm.DB, orgID int, payload *models.Payload) error {
	if err := tx.Where("organization_id = ?", orgID).Delete(&DataQualityRule{}).Error; err != nil {
		return fmt.Errorf("failed to clear rules: %w", err)
	}

	rows := make([]DataQualityRule, 0, payload.Len())
	for _, inv := range models.InventoryTypes {
		for i, w := range payload.Rules(inv) {
			rows = append(rows, ruleEntity(orgID, inv, i, w))
		}
	}
	if len(rows) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(&rows, 100).Error; err != nil {
		return fmt.Errorf("failed to store rules: %w", err)
	}
	return nil
}

func validatePayload(p *models.Payload) error {
	var problems []string
	for _, inv := range models.InventoryTypes {
		for i, w := range p.Rules(inv) {
			if strings.TrimSpace(w.Field) == "" {
				problems = append(problems, fmt.Sprintf("%s rule %d: field is required", inv, i))
			}
			if _, err := models.ParseDataType(string(w.DataType)); err != nil {
				problems = append(problems, fmt.Sprintf("%s rule %d (%s): %v", inv, i, w.Field, err))
			}
			if !w.Severity.IsValid() {
				problems = append(problems, fmt.Sprintf("%s rule %d (%s): unknown severity %q", inv, i, w.Field, w.Severity))
			}
			if w.Min != nil && w.Max != nil && *w.Min > *w.Max {
				problems = append(problems, fmt.Sprintf("%s rule %d (%s): min is greater than max", inv, i, w.Field))
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRule, strings.Join(problems, "; "))
	}
	return nil
}

func labelIDs(p *models.Payload) []int {
	seen := map[int]bool{}
	var ids []int
	for _, inv := range models.InventoryTypes {
		for _, w := range p.Rules(inv) {
			if w.Label != nil && !seen[*w.Label] {
				seen[*w.Label] = true
				ids = append(ids, *w.Label)
			}
		}
	}
	return ids
}
