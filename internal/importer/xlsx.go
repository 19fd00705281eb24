package importer

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFile = errors.New("please upload an Excel (.xlsx, .xls) or CSV file")

// PayloadText chuyển file upload thành text cho Parse.
// .xlsx được đọc bằng excelize (sheet đang active), mỗi hàng nối bằng dấu phẩy.
// .csv và .xls được đọc nguyên văn như text.
func PayloadText(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return TextFromXLSX(data)
	case ".csv", ".xls":
		return string(data), nil
	default:
		return "", ErrUnsupportedFile
	}
}

func TextFromXLSX(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return "", fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = strings.Join(row, ",")
	}
	return strings.Join(lines, "\n"), nil
}
