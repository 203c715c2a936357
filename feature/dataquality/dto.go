package dataquality

import (
	"fmt"

	"quality-admin/feature/dataquality/models"
	"quality-admin/feature/dataquality/store"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldErrors flattens validation errors into field -> rule messages.
func fieldErrors(err error) (map[string]string, bool) {
	out := map[string]string{}
	if err == nil {
		return out, true
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_"] = err.Error()
		return out, false
	}
	for _, fe := range errs {
		msg := fe.Tag()
		if fe.Param() != "" {
			msg = fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
		}
		out[fe.Namespace()] = msg
	}
	return out, false
}

// OpenSessionDTO opens an editing session.
type OpenSessionDTO struct {
	OrganizationID int `json:"organization_id" validate:"required,gt=0"`
}

func (d *OpenSessionDTO) Ok() (map[string]string, bool) {
	return fieldErrors(validate.Struct(d))
}

// SaveRulesDTO is the body of a direct save.
type SaveRulesDTO struct {
	Rules *models.Payload `json:"data_quality_rules" validate:"required"`
}

func (d *SaveRulesDTO) Ok() (map[string]string, bool) {
	return fieldErrors(validate.Struct(d))
}

// ChangeFieldDTO moves a rule to another field.
type ChangeFieldDTO struct {
	Field string `json:"field" validate:"required,max=255"`
}

func (d *ChangeFieldDTO) Ok() (map[string]string, bool) {
	return fieldErrors(validate.Struct(d))
}

// ChangeDataTypeDTO sets the data type of a field. A null data type clears it.
type ChangeDataTypeDTO struct {
	DataType models.DataType `json:"data_type"`
}

// optionalBound tells an explicit null apart from an absent key.
type optionalBound struct {
	Set   bool
	Value models.Bound
}

func (o *optionalBound) UnmarshalJSON(data []byte) error {
	o.Set = true
	return o.Value.UnmarshalJSON(data)
}

type optionalLabel struct {
	Set   bool
	Value models.LabelRef
}

func (o *optionalLabel) UnmarshalJSON(data []byte) error {
	o.Set = true
	return o.Value.UnmarshalJSON(data)
}

// UpdateRuleDTO edits per-rule attributes. Absent keys are left untouched.
type UpdateRuleDTO struct {
	Enabled  *bool         `json:"enabled"`
	RuleType *int          `json:"rule_type" validate:"omitempty,gte=0"`
	Min      optionalBound `json:"min" swaggertype:"number"`
	Max      optionalBound `json:"max" swaggertype:"number"`
	Severity *string       `json:"severity" validate:"omitempty,oneof=error warning"`
	Units    *string       `json:"units" validate:"omitempty,max=255"`
	Label    optionalLabel `json:"label" swaggertype:"integer"`
}

func (d *UpdateRuleDTO) Ok() (map[string]string, bool) {
	return fieldErrors(validate.Struct(d))
}

// Update converts the DTO into a store update.
func (d *UpdateRuleDTO) Update() store.RuleUpdate {
	u := store.RuleUpdate{
		Enabled:  d.Enabled,
		RuleType: d.RuleType,
		Units:    d.Units,
	}
	if d.Severity != nil {
		sev := models.Severity(*d.Severity)
		u.Severity = &sev
	}
	if d.Min.Set {
		u.Min = &d.Min.Value
	}
	if d.Max.Set {
		u.Max = &d.Max.Value
	}
	if d.Label.Set {
		u.Label = &d.Label.Value
	}
	return u
}

// SessionView is the state of an editing session.
type SessionView struct {
	ID        string                                     `json:"id"`
	OrgID     int                                        `json:"organization_id"`
	Busy      bool                                       `json:"busy"`
	Status    store.Status                               `json:"status"`
	LastError string                                     `json:"last_error,omitempty"`
	Rules     map[models.InventoryType][]store.FieldView `json:"rules"`
	Columns   map[models.InventoryType][]models.Column   `json:"columns,omitempty"`
	Labels    []models.Label                             `json:"labels,omitempty"`
}

func sessionView(s *Session, full bool) SessionView {
	v := SessionView{
		ID:        s.ID,
		OrgID:     s.OrgID,
		Busy:      s.Busy(),
		Status:    s.Store.Status(),
		LastError: s.LastError(),
		Rules:     s.Store.Snapshot(),
	}
	if full {
		v.Columns = map[models.InventoryType][]models.Column{}
		for _, inv := range models.InventoryTypes {
			v.Columns[inv] = s.Store.Columns(inv)
		}
		v.Labels = s.Store.Labels()
	}
	return v
}
