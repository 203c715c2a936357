package models

import (
	"encoding/json"
	"fmt"
)

// DataType is the value kind a field is validated as. The zero value means "no type".
type DataType string

const (
	DataTypeNull   DataType = ""
	DataTypeNumber DataType = "number"
	DataTypeString DataType = "string"
	DataTypeDate   DataType = "date"
	DataTypeYear   DataType = "year"
)

// DataTypes lists the selectable data types in display order.
var DataTypes = []DataType{DataTypeNull, DataTypeNumber, DataTypeString, DataTypeDate, DataTypeYear}

// ParseDataType converts a raw string into a DataType.
func ParseDataType(s string) (DataType, error) {
	switch dt := DataType(s); dt {
	case DataTypeNull, DataTypeNumber, DataTypeString, DataTypeDate, DataTypeYear:
		return dt, nil
	default:
		return DataTypeNull, fmt.Errorf("unknown data type %q", s)
	}
}

// Label returns the display label of the data type.
func (d DataType) Label() string {
	switch d {
	case DataTypeNumber:
		return "Number"
	case DataTypeString:
		return "Text"
	case DataTypeDate:
		return "Date"
	case DataTypeYear:
		return "Year"
	default:
		return ""
	}
}

// HasRange reports whether min/max bounds are meaningful for the type.
func (d DataType) HasRange() bool {
	return d == DataTypeNumber || d == DataTypeDate
}

// BoundsCompatible reports whether bounds set under type "from" survive a change to type "to".
// Only the null <-> number transition keeps bounds.
func BoundsCompatible(from, to DataType) bool {
	if from == to {
		return true
	}
	numeric := func(d DataType) bool { return d == DataTypeNull || d == DataTypeNumber }
	return numeric(from) && numeric(to)
}

// MarshalJSON encodes the null type as JSON null.
func (d DataType) MarshalJSON() ([]byte, error) {
	if d == DataTypeNull {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

// UnmarshalJSON accepts a type name, an empty string or null.
func (d *DataType) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = DataTypeNull
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDataType(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
