package importer

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"requisition-api-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type memoryStore struct {
	items  []models.Item
	failOn map[string]bool
}

func (s *memoryStore) Create(_ context.Context, item *models.Item) error {
	if s.failOn[item.ItemName] {
		return errors.New("write rejected")
	}
	s.items = append(s.items, *item)
	return nil
}

func TestImportPersistsEachRow(t *testing.T) {
	store := &memoryStore{}
	now := time.UnixMilli(1767225600000)
	im := New(store,
		WithClock(func() time.Time { return now }),
		WithTokenSource(func() string { return "ABCDEFGHI" }))

	report, err := im.Import(context.Background(), "Item Name,UOM,Description,Unit Price\nWidget,Box,A widget,12.50\nBolt,Kg,,2")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 0, report.Failed)
	require.Len(t, store.items, 2)
	assert.Equal(t, "ITM-1767225600000-ABCDEFGHI", store.items[0].ItemID)
	assert.Equal(t, "Widget", store.items[0].ItemName)
	assert.Equal(t, "Box", store.items[0].UnitOfMeasure)
	assert.Equal(t, "A widget", store.items[0].Description)
	assert.Equal(t, 12.5, store.items[0].UnitPrice)
	assert.Equal(t, now, store.items[0].CreatedAt)
	assert.Equal(t, "Successfully imported 2 items", report.Message())
}

func TestImportCountsParseAndWriteFailures(t *testing.T) {
	store := &memoryStore{failOn: map[string]bool{"Gadget": true}}
	im := New(store)

	raw := "Item Name,Unit Price\nWidget,1\nGadget,2\nBroken,n/a\nBolt,3"
	report, err := im.Import(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 2, report.Failed)
	assert.Len(t, store.items, 2)
	assert.Equal(t, "Successfully imported 2 items (2 errors)", report.Message())
}

func TestImportAbortsWithoutWriting(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"missing columns", "SKU,Cost\nA,1", ErrMissingColumns},
		{"no valid rows", "Item Name,Unit Price\nWidget,x", ErrNoValidItems},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memoryStore{}
			_, err := New(store).Import(context.Background(), tt.raw)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, store.items)
		})
	}
}

func TestBulkItemIDShape(t *testing.T) {
	id := BulkItemID(time.Now(), RandomToken(9))
	assert.Regexp(t, regexp.MustCompile(`^ITM-\d+-[0-9A-Z]{9}$`), id)
}

func TestPayloadText(t *testing.T) {
	text, err := PayloadText("items.CSV", []byte("Item Name,Unit Price\nWidget,1"))
	require.NoError(t, err)
	assert.Equal(t, "Item Name,Unit Price\nWidget,1", text)

	_, err = PayloadText("items.pdf", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestPayloadTextFromWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Item Name", "UOM", "Description", "Unit Price"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Widget", "Box", "A widget", "12.50"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	text, err := PayloadText("catalog.xlsx", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Item Name,UOM,Description,Unit Price\nWidget,Box,A widget,12.50", text)

	result, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, 12.5, result.Rows[0].UnitPrice)
}

func TestTextFromXLSXRejectsGarbage(t *testing.T) {
	_, err := TextFromXLSX([]byte("not a zip"))
	assert.Error(t, err)
}
