package requisition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSheetWriterKeepsFirstError(t *testing.T) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// sheet exportSheet chưa tồn tại trong file mới
	w := &sheetWriter{f: f}
	w.value("A1", "REQUISITION FORM")
	require.Error(t, w.err)
	first := w.err

	w.merge("A1", "H1")
	w.width("A", "A", 18)
	assert.Equal(t, first, w.err)
}

func TestSheetWriterNoError(t *testing.T) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	require.NoError(t, f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), exportSheet))

	w := &sheetWriter{f: f}
	w.merge("A1", "H1")
	w.value("A1", "REQUISITION FORM")
	w.width("A", "A", 18)
	require.NoError(t, w.err)

	got, err := f.GetCellValue(exportSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "REQUISITION FORM", got)
}
