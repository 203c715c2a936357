package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"}, nil)
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE property_states (id INTEGER PRIMARY KEY, site_eui REAL, address_line_1 TEXT NOT NULL, year_ending DATE)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "property_states")
	require.NoError(t, err)
	assert.Len(t, columns, 4)

	colMap := make(map[string]ColumnInfo)
	for _, col := range columns {
		colMap[col.Field] = col
	}

	assert.Equal(t, "integer", colMap["id"].Type)
	assert.Equal(t, "real", colMap["site_eui"].Type)
	assert.Equal(t, "date", colMap["year_ending"].Type)
	assert.Equal(t, "NO", colMap["address_line_1"].Null)
	assert.Equal(t, "YES", colMap["site_eui"].Null)

	assert.True(t, TableExists(db, "property_states"))
	assert.False(t, TableExists(db, "tax_lot_states"))

	// PRAGMA table_info returns an empty result for a missing table.
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}
