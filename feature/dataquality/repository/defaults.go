package repository

import "quality-admin/feature/dataquality/models"

// DefaultLabels are seeded for every organization.
var DefaultLabels = []string{
	"Residential",
	"Non-Residential",
	"Violation",
	"Compliant",
	"Missing Data",
	"Questionable Report",
	"Update Bldg Info",
	"Call",
	"Email",
	"High EUI",
	"Low EUI",
	"Exempted",
	"Extension",
	"Change of Ownership",
}

const (
	minDate = 18890101
	maxDate = 20201231
	sqft    = "square feet"
	euiUnit = "kBtu/sq. ft./year"
)

func f(v float64) *float64 { return &v }

func rangeRule(field string, dt models.DataType, min, max float64, units string) models.WireRule {
	return models.WireRule{
		Enabled:  true,
		Field:    field,
		DataType: dt,
		RuleType: 0,
		Min:      f(min),
		Max:      f(max),
		Severity: models.SeverityError,
		Units:    units,
	}
}

func presenceRule(field string) models.WireRule {
	return models.WireRule{
		Enabled:  true,
		Field:    field,
		DataType: models.DataTypeString,
		RuleType: 0,
		NotNull:  true,
		Severity: models.SeverityError,
	}
}

// DefaultPayload returns a fresh copy of the built-in rule set.
// Default rules carry rule_type 0 to tell them apart from administrator rules.
func DefaultPayload() *models.Payload {
	p := models.NewPayload()
	for _, r := range []models.WireRule{
		presenceRule("address_line_1"),
		presenceRule("pm_property_id"),
		presenceRule("custom_id_1"),
		rangeRule("conditioned_floor_area", models.DataTypeNumber, 0, 7000000, sqft),
		rangeRule("energy_score", models.DataTypeNumber, 0, 100, ""),
		rangeRule("generation_date", models.DataTypeDate, minDate, maxDate, ""),
		rangeRule("gross_floor_area", models.DataTypeNumber, 100, 7000000, sqft),
		rangeRule("occupied_floor_area", models.DataTypeNumber, 0, 7000000, sqft),
		rangeRule("recent_sale_date", models.DataTypeDate, minDate, maxDate, ""),
		rangeRule("release_date", models.DataTypeDate, minDate, maxDate, ""),
		rangeRule("site_eui", models.DataTypeNumber, 0, 1000, euiUnit),
		rangeRule("site_eui_weather_normalized", models.DataTypeNumber, 0, 1000, euiUnit),
		rangeRule("source_eui", models.DataTypeNumber, 0, 1000, euiUnit),
		rangeRule("source_eui_weather_normalized", models.DataTypeNumber, 10, 1000, euiUnit),
		rangeRule("year_built", models.DataTypeYear, 1700, 2019, ""),
		rangeRule("year_ending", models.DataTypeDate, minDate, maxDate, ""),
	} {
		p.Append(models.InventoryProperties, r)
	}
	for _, r := range []models.WireRule{
		presenceRule("jurisdiction_tax_lot_id"),
		presenceRule("address_line_1"),
	} {
		p.Append(models.InventoryTaxlots, r)
	}
	return p
}
