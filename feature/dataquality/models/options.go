package models

// Units lists the selectable rule units.
var Units = []string{"", "square feet", "kBtu/sq. ft./year"}

// Severities lists the selectable severities.
var Severities = []Severity{SeverityError, SeverityWarning}

// LabelColors lists the colors a label can have.
var LabelColors = []string{ColorRed, ColorOrange, ColorWhite, ColorBlue, ColorLightBlue, ColorGreen, ColorGray}

// DataTypeOption is one entry of the data type select.
type DataTypeOption struct {
	ID       DataType `json:"id"`
	Label    string   `json:"label"`
	HasRange bool     `json:"has_range"`
}

// Options holds the static choices the rule editor offers.
type Options struct {
	DataTypes   []DataTypeOption `json:"data_types"`
	Severities  []Severity       `json:"severities"`
	Units       []string         `json:"units"`
	LabelColors []string         `json:"label_colors"`
}

// RuleOptions returns the choices in display order.
func RuleOptions() Options {
	types := make([]DataTypeOption, 0, len(DataTypes))
	for _, dt := range DataTypes {
		types = append(types, DataTypeOption{ID: dt, Label: dt.Label(), HasRange: dt.HasRange()})
	}
	return Options{DataTypes: types, Severities: Severities, Units: Units, LabelColors: LabelColors}
}
