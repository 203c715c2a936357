package repository

import (
	"time"

	"quality-admin/feature/dataquality/models"
)

// DataQualityRule is the stored row of one rule. Position keeps the save order.
// Columns carry no gorm defaults: Create would substitute them for false and 0.
type DataQualityRule struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement"`
	OrganizationID int       `gorm:"column:organization_id;type:int;not null;index:idx_dq_rules_org"`
	InventoryType  string    `gorm:"column:inventory_type;type:varchar(16);not null"`
	Position       int       `gorm:"column:position;type:int;not null"`
	Enabled        bool      `gorm:"column:enabled;type:tinyint(1);not null"`
	Field          string    `gorm:"column:field;type:varchar(255);not null"`
	DataType       *string   `gorm:"column:data_type;type:varchar(16)"`
	RuleType       int       `gorm:"column:rule_type;type:int;not null"`
	Required       bool      `gorm:"column:required;type:tinyint(1);not null"`
	NotNull        bool      `gorm:"column:not_null;type:tinyint(1);not null"`
	Min            *float64  `gorm:"column:min;type:double"`
	Max            *float64  `gorm:"column:max;type:double"`
	Severity       string    `gorm:"column:severity;type:varchar(16);not null"`
	Units          string    `gorm:"column:units;type:varchar(255);not null"`
	StatusLabelID  *int      `gorm:"column:status_label_id;type:int"`
	CreatedAt      time.Time `gorm:"column:created_at;type:datetime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;type:datetime"`
}

// TableName overrides the table name used by DataQualityRule.
func (DataQualityRule) TableName() string {
	return "data_quality_rules"
}

// StatusLabel is a label an organization can attach to records.
type StatusLabel struct {
	ID                  int       `gorm:"column:id;primaryKey;autoIncrement"`
	Name                string    `gorm:"column:name;type:varchar(255);not null;uniqueIndex:idx_status_label_org_name"`
	Color               string    `gorm:"column:color;type:varchar(30);not null;default:green"`
	SuperOrganizationID int       `gorm:"column:super_organization_id;type:int;not null;uniqueIndex:idx_status_label_org_name"`
	CreatedAt           time.Time `gorm:"column:created_at;type:datetime"`
}

// TableName overrides the table name used by StatusLabel.
func (StatusLabel) TableName() string {
	return "status_labels"
}

// Models lists the entities owned by the repository, for migrations and schema checks.
func Models() []any {
	return []any{&DataQualityRule{}, &StatusLabel{}}
}

func (e DataQualityRule) toWire() models.WireRule {
	var dt models.DataType
	if e.DataType != nil {
		dt = models.DataType(*e.DataType)
	}
	return models.WireRule{
		Enabled:  e.Enabled,
		Field:    e.Field,
		DataType: dt,
		RuleType: e.RuleType,
		Required: e.Required,
		NotNull:  e.NotNull,
		Min:      e.Min,
		Max:      e.Max,
		Severity: models.Severity(e.Severity),
		Units:    e.Units,
		Label:    e.StatusLabelID,
	}
}

func ruleEntity(orgID int, inv models.InventoryType, position int, w models.WireRule) DataQualityRule {
	var dt *string
	if w.DataType != models.DataTypeNull {
		s := string(w.DataType)
		dt = &s
	}
	return DataQualityRule{
		OrganizationID: orgID,
		InventoryType:  string(inv),
		Position:       position,
		Enabled:        w.Enabled,
		Field:          w.Field,
		DataType:       dt,
		RuleType:       w.RuleType,
		Required:       w.Required,
		NotNull:        w.NotNull,
		Min:            w.Min,
		Max:            w.Max,
		Severity:       string(w.Severity),
		Units:          w.Units,
		StatusLabelID:  w.Label,
	}
}

func (e StatusLabel) toModel() models.Label {
	return models.Label{ID: e.ID, Name: e.Name, Color: e.Color, OrgID: e.SuperOrganizationID}
}
