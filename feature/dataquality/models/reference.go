package models

// Column is read-only inventory column metadata.
type Column struct {
	Name        string        `json:"name"`
	DisplayName string        `json:"display_name"`
	DataType    DataType      `json:"data_type"`
	Table       string        `json:"table"`
	Inventory   InventoryType `json:"inventory_type"`
	Related     bool          `json:"related"`
}

// FindColumn returns the column with the given name.
func FindColumn(columns []Column, name string) (Column, bool) {
	for _, c := range columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Label colors.
const (
	ColorRed       = "red"
	ColorOrange    = "orange"
	ColorWhite     = "white"
	ColorBlue      = "blue"
	ColorLightBlue = "light blue"
	ColorGreen     = "green"
	ColorGray      = "gray"
)

// Label is a named marker attached to records failing a rule.
type Label struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	OrgID int    `json:"organization_id"`
}

// FindLabelByName returns the label whose name matches exactly.
func FindLabelByName(labels []Label, name string) (Label, bool) {
	for _, l := range labels {
		if l.Name == name {
			return l, true
		}
	}
	return Label{}, false
}
