package requisition

import (
	"bytes"
	"fmt"

	"requisition-api-server/internal/models"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Requisition"

var lineHeader = []interface{}{"No.", "Item ID", "Item Name", "Description", "Quantity", "UOM", "Unit Price", "Total Price"}

// Export dựng workbook .xlsx cho phiếu đề nghị: khối thông tin, bảng dòng hàng,
// tổng tiền và các ô ký duyệt.
func Export(req *models.Requisition) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), exportSheet); err != nil {
		return nil, err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f}
	w.merge("A1", "H1")
	w.value("A1", "REQUISITION FORM")
	w.style("A1", "H1", titleStyle)

	info := [][]interface{}{
		{"Requisition No.", req.RequisitionNumber},
		{"Request Date", req.RequestDate},
		{"Need Date", req.NeedDate},
		{"Department", req.Department},
		{"Unit/Section", req.UnitSection},
		{"Status", req.Status},
	}
	row := 3
	for _, pair := range info {
		if err := setRow(f, row, pair); err != nil {
			return nil, err
		}
		row++
	}

	row++
	if err := setRow(f, row, lineHeader); err != nil {
		return nil, err
	}
	w.style(cell(1, row), cell(len(lineHeader), row), headerStyle)
	row++

	firstLine := row
	for i, line := range req.Items {
		values := []interface{}{i + 1, line.ItemID, line.ItemName, line.Description,
			line.Quantity, line.UnitOfMeasure, line.UnitPrice, line.TotalPrice}
		if err := setRow(f, row, values); err != nil {
			return nil, err
		}
		row++
	}
	if row > firstLine {
		w.style(cell(7, firstLine), cell(8, row-1), moneyStyle)
	}

	w.value(cell(7, row), "Grand Total")
	w.value(cell(8, row), GrandTotal(req.Items))
	w.style(cell(8, row), cell(8, row), moneyStyle)
	row += 2

	if err := setRow(f, row, []interface{}{"Remarks", req.Remarks}); err != nil {
		return nil, err
	}
	row += 2

	signatories := [][]interface{}{
		{"Prepared by", req.PreparedBy},
		{"Noted by", req.NotedBy},
		{"Approved by", req.ApprovedBy},
		{"Approved by (COO)", req.ApprovedByCOO},
	}
	for _, pair := range signatories {
		if err := setRow(f, row, pair); err != nil {
			return nil, err
		}
		row++
	}

	w.width("A", "A", 18)
	w.width("B", "D", 24)
	w.width("E", "H", 14)
	if w.err != nil {
		return nil, fmt.Errorf("failed to format sheet: %w", w.err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

// sheetWriter giữ lỗi đầu tiên; các lệnh sau lỗi đó bị bỏ qua.
type sheetWriter struct {
	f   *excelize.File
	err error
}

func (w *sheetWriter) merge(from, to string) {
	if w.err == nil {
		w.err = w.f.MergeCell(exportSheet, from, to)
	}
}

func (w *sheetWriter) value(at string, v interface{}) {
	if w.err == nil {
		w.err = w.f.SetCellValue(exportSheet, at, v)
	}
}

func (w *sheetWriter) style(from, to string, styleID int) {
	if w.err == nil {
		w.err = w.f.SetCellStyle(exportSheet, from, to, styleID)
	}
}

func (w *sheetWriter) width(from, to string, width float64) {
	if w.err == nil {
		w.err = w.f.SetColWidth(exportSheet, from, to, width)
	}
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	return f.SetSheetRow(exportSheet, cell(1, row), &values)
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
