package checks

import (
	"fmt"
	"reflect"
	"strings"

	"quality-admin/core/database"

	"gorm.io/gorm"
)

// SchemaReport is the result of comparing the database with the gorm entities.
type SchemaReport struct {
	Driver  string                 `json:"driver"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

// TableReport is the result for one table.
type TableReport struct {
	Missing        bool     `json:"missing"`
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "error"
}

type tabler interface{ TableName() string }

// CheckSchema verifies every model table using the gorm tags as the source of truth.
// Only columns with an explicit "column:" tag are checked, and types only when a "type:" tag is set.
func CheckSchema(db *gorm.DB, entities []any) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Driver:  db.Dialector.Name(),
		Matched: true,
		Tables:  make(map[string]TableReport),
		Errors:  []string{},
	}

	for _, entity := range entities {
		t, ok := entity.(tabler)
		if !ok {
			return nil, fmt.Errorf("model %T does not implement TableName", entity)
		}
		tableName := t.TableName()

		actualCols, err := database.GetTableColumns(db, tableName)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", tableName, err))
			report.Matched = false
			continue
		}

		tbl := TableReport{MissingColumns: []string{}, TypeMismatches: []string{}, Status: "ok"}
		if len(actualCols) == 0 {
			tbl.Missing = true
			tbl.Status = "error"
			report.Matched = false
			report.Tables[tableName] = tbl
			continue
		}

		actualMap := make(map[string]database.ColumnInfo, len(actualCols))
		for _, col := range actualCols {
			actualMap[col.Field] = col
		}

		typ := reflect.TypeOf(entity)
		if typ.Kind() == reflect.Ptr {
			typ = typ.Elem()
		}
		for i := 0; i < typ.NumField(); i++ {
			gormTag := typ.Field(i).Tag.Get("gorm")
			colName := parseGormTag(gormTag, "column:")
			if colName == "" {
				continue
			}

			actCol, exists := actualMap[colName]
			if !exists {
				tbl.MissingColumns = append(tbl.MissingColumns, colName)
				tbl.Status = "error"
				report.Matched = false
				continue
			}

			expType := strings.ToLower(parseGormTag(gormTag, "type:"))
			// Soft check: int matches int(11).
			if expType != "" && !strings.Contains(actCol.Type, expType) {
				tbl.TypeMismatches = append(tbl.TypeMismatches, fmt.Sprintf("%s: expected %s, got %s", colName, expType, actCol.Type))
				tbl.Status = "error"
				report.Matched = false
			}
		}

		report.Tables[tableName] = tbl
	}

	return report, nil
}

func parseGormTag(tag, key string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, key) {
			return strings.TrimPrefix(p, key)
		}
	}
	return ""
}
