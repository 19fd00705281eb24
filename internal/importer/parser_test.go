package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveColumns(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    Columns
	}{
		{
			name:    "canonical headers",
			headers: []string{"Item Name", "UOM", "Description", "Unit Price"},
			want:    Columns{ItemName: 0, UnitOfMeasure: 1, Description: 2, UnitPrice: 3},
		},
		{
			name:    "case and whitespace are normalized",
			headers: []string{"  ITEM NAME ", " Unit Of Measure", "DESC", " PRICE "},
			want:    Columns{ItemName: 0, UnitOfMeasure: 1, Description: 2, UnitPrice: 3},
		},
		{
			name:    "first matching header wins",
			headers: []string{"Name", "Item Name", "Price", "Unit Price"},
			want:    Columns{ItemName: 0, UnitOfMeasure: 3, Description: -1, UnitPrice: 2},
		},
		{
			name:    "unit price before uom is picked as uom",
			headers: []string{"Item Name", "Unit Price", "UOM"},
			want:    Columns{ItemName: 0, UnitOfMeasure: 1, Description: -1, UnitPrice: 1},
		},
		{
			name:    "item and name split across words",
			headers: []string{"item_code_name", "cost price"},
			want:    Columns{ItemName: 0, UnitOfMeasure: -1, Description: -1, UnitPrice: 1},
		},
		{
			name:    "nothing matches",
			headers: []string{"sku", "qty"},
			want:    Columns{ItemName: -1, UnitOfMeasure: -1, Description: -1, UnitPrice: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveColumns(tt.headers))
		})
	}
}

func TestParseCanonicalRow(t *testing.T) {
	result, err := Parse("Item Name,UOM,Description,Unit Price\nWidget,Box,A widget,12.50")
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, 0, result.Errors)
	assert.Equal(t, Row{ItemName: "Widget", UnitOfMeasure: "Box", Description: "A widget", UnitPrice: 12.5}, result.Rows[0])
}

func TestParseMissingRequiredColumns(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no name column", "SKU,UOM,Unit Price\nA1,Box,3"},
		{"no price column", "Item Name,UOM,Cost\nWidget,Box,3"},
		{"empty payload", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Parse(tt.raw)
			assert.ErrorIs(t, err, ErrMissingColumns)
			assert.Empty(t, result.Rows)
		})
	}
}

func TestParseSkipsInvalidRows(t *testing.T) {
	raw := "Item Name,UOM,Description,Unit Price\r\n" +
		"Widget,Box,A widget,12.50\r\n" +
		"Gadget,Pc,Broken,abc\r\n" +
		",Pc,No name,4\r\n" +
		"\r\n" +
		"   \n" +
		"Bolt,Kg,Steel,0.75\n"

	result, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Errors)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "Widget", result.Rows[0].ItemName)
	assert.Equal(t, "Bolt", result.Rows[1].ItemName)
	assert.Equal(t, 0.75, result.Rows[1].UnitPrice)
}

func TestParseDefaultsOptionalColumns(t *testing.T) {
	result, err := Parse("Name,Price\nTape,3")
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, DefaultUnitOfMeasure, result.Rows[0].UnitOfMeasure)
	assert.Equal(t, "", result.Rows[0].Description)
}

func TestParseShortRowCountsAsError(t *testing.T) {
	result, err := Parse("Item Name,UOM,Unit Price\nWidget,Box,1\nLonely")
	require.NoError(t, err)
	assert.Len(t, result.Rows, 1)
	assert.Equal(t, 1, result.Errors)
}

func TestParseNoValidItems(t *testing.T) {
	result, err := Parse("Item Name,Unit Price\nWidget,free\n,3")
	assert.ErrorIs(t, err, ErrNoValidItems)
	assert.Empty(t, result.Rows)
	assert.Equal(t, 2, result.Errors)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"12.50", 12.5, true},
		{"  7", 7, true},
		{"12.50 PHP", 12.5, true},
		{".5", 0.5, true},
		{"-3", -3, true},
		{"1e3", 1000, true},
		{"abc", 0, false},
		{"", 0, false},
		{"PHP 12", 0, false},
		{"1e999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePrice(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
