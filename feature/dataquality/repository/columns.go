package repository

import (
	"fmt"
	"sort"
	"strings"

	"quality-admin/core/database"
	"quality-admin/feature/dataquality/models"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// InventoryTables maps each inventory type to the table holding its record states.
var InventoryTables = map[models.InventoryType]string{
	models.InventoryProperties: "property_states",
	models.InventoryTaxlots:    "tax_lot_states",
}

// hiddenColumns are bookkeeping columns no rule can target.
var hiddenColumns = map[string]bool{
	"id":                    true,
	"organization_id":       true,
	"super_organization_id": true,
	"import_file_id":        true,
	"source_type":           true,
	"data_state":            true,
	"merge_state":           true,
	"confidence":            true,
	"extra_data":            true,
	"hash_object":           true,
	"created":               true,
	"updated":               true,
}

// acronyms keep their casing in display names.
var acronyms = map[string]string{
	"Eui": "EUI",
	"Id":  "ID",
	"Pm":  "PM",
}

// ColumnCatalog lists the columns rules can target.
type ColumnCatalog struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewColumnCatalog creates a catalog. A nil db serves the built-in catalog.
func NewColumnCatalog(db *gorm.DB, logger *zap.Logger) *ColumnCatalog {
	return &ColumnCatalog{db: db, logger: logger}
}

// Columns returns the columns of one inventory type. When the inventory table is absent the
// built-in catalog is used.
func (c *ColumnCatalog) Columns(inv models.InventoryType) ([]models.Column, error) {
	table, ok := InventoryTables[inv]
	if !ok {
		return nil, fmt.Errorf("unknown inventory type %q", inv)
	}

	if c.db == nil || !database.TableExists(c.db, table) {
		return c.builtin(inv, table), nil
	}

	infos, err := database.GetTableColumns(c.db, table)
	if err != nil {
		return nil, err
	}

	columns := make([]models.Column, 0, len(infos))
	for _, info := range infos {
		if hiddenColumns[info.Field] {
			continue
		}
		columns = append(columns, c.column(inv, table, info.Field, SQLDataType(info.Type)))
	}
	sortColumns(columns)
	return columns, nil
}

// All returns the columns of both inventory types.
func (c *ColumnCatalog) All() (map[models.InventoryType][]models.Column, error) {
	out := make(map[models.InventoryType][]models.Column, len(models.InventoryTypes))
	for _, inv := range models.InventoryTypes {
		cols, err := c.Columns(inv)
		if err != nil {
			return nil, err
		}
		out[inv] = cols
	}
	return out, nil
}

// DisplayName turns a column name into a title-cased label.
func (c *ColumnCatalog) DisplayName(name string) string {
	// A Caser keeps state, so each call gets its own.
	words := strings.Fields(cases.Title(language.English).String(strings.ReplaceAll(name, "_", " ")))
	for i, w := range words {
		if a, ok := acronyms[w]; ok {
			words[i] = a
		}
	}
	return strings.Join(words, " ")
}

func (c *ColumnCatalog) column(inv models.InventoryType, table, name string, dt models.DataType) models.Column {
	return models.Column{
		Name:        name,
		DisplayName: c.DisplayName(name),
		DataType:    dt,
		Table:       table,
		Inventory:   inv,
	}
}

func (c *ColumnCatalog) builtin(inv models.InventoryType, table string) []models.Column {
	c.logger.Debug("Inventory table not found, using built-in columns", zap.String("table", table))
	defs := builtinColumns[inv]
	columns := make([]models.Column, 0, len(defs))
	for _, d := range defs {
		columns = append(columns, c.column(inv, table, d.name, d.dataType))
	}
	sortColumns(columns)
	return columns
}

func sortColumns(columns []models.Column) {
	sort.SliceStable(columns, func(i, j int) bool {
		return columns[i].DisplayName < columns[j].DisplayName
	})
}

// SQLDataType maps an inspected SQL column type onto a rule data type.
func SQLDataType(sqlType string) models.DataType {
	t := strings.ToLower(sqlType)
	switch {
	case t == "year" || strings.HasPrefix(t, "year("):
		return models.DataTypeYear
	case strings.Contains(t, "date"), strings.Contains(t, "time"):
		return models.DataTypeDate
	case strings.Contains(t, "int"), strings.Contains(t, "double"), strings.Contains(t, "float"),
		strings.Contains(t, "real"), strings.Contains(t, "decimal"), strings.Contains(t, "numeric"):
		return models.DataTypeNumber
	case strings.Contains(t, "char"), strings.Contains(t, "text"), strings.Contains(t, "enum"):
		return models.DataTypeString
	default:
		return models.DataTypeNull
	}
}

type columnDef struct {
	name     string
	dataType models.DataType
}

var builtinColumns = map[models.InventoryType][]columnDef{
	models.InventoryProperties: {
		{"address_line_1", models.DataTypeString},
		{"address_line_2", models.DataTypeString},
		{"building_certification", models.DataTypeString},
		{"building_count", models.DataTypeNumber},
		{"city", models.DataTypeString},
		{"conditioned_floor_area", models.DataTypeNumber},
		{"custom_id_1", models.DataTypeString},
		{"energy_alerts", models.DataTypeString},
		{"energy_score", models.DataTypeNumber},
		{"generation_date", models.DataTypeDate},
		{"gross_floor_area", models.DataTypeNumber},
		{"jurisdiction_property_id", models.DataTypeString},
		{"lot_number", models.DataTypeString},
		{"occupied_floor_area", models.DataTypeNumber},
		{"owner", models.DataTypeString},
		{"owner_email", models.DataTypeString},
		{"pm_parent_property_id", models.DataTypeString},
		{"pm_property_id", models.DataTypeString},
		{"postal_code", models.DataTypeString},
		{"property_name", models.DataTypeString},
		{"property_notes", models.DataTypeString},
		{"recent_sale_date", models.DataTypeDate},
		{"release_date", models.DataTypeDate},
		{"site_eui", models.DataTypeNumber},
		{"site_eui_weather_normalized", models.DataTypeNumber},
		{"source_eui", models.DataTypeNumber},
		{"source_eui_weather_normalized", models.DataTypeNumber},
		{"space_alerts", models.DataTypeString},
		{"state", models.DataTypeString},
		{"use_description", models.DataTypeString},
		{"year_built", models.DataTypeYear},
		{"year_ending", models.DataTypeDate},
	},
	models.InventoryTaxlots: {
		{"address_line_1", models.DataTypeString},
		{"address_line_2", models.DataTypeString},
		{"block_number", models.DataTypeString},
		{"city", models.DataTypeString},
		{"district", models.DataTypeString},
		{"jurisdiction_tax_lot_id", models.DataTypeString},
		{"number_properties", models.DataTypeNumber},
		{"postal_code", models.DataTypeString},
		{"state", models.DataTypeString},
	},
}
