// internal/importer/parser.go
package importer

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrMissingColumns = errors.New("file must contain 'Item Name' and 'Unit Price' columns " +
		"(expected columns: Item Name, Unit Price, UOM (optional), Description (optional))")
	ErrNoValidItems = errors.New("no valid items found in the file")
)

const (
	DefaultUnitOfMeasure = "Unit"
	notFound             = -1
)

// Columns giữ chỉ số cột đã nhận diện trong dòng tiêu đề; -1 nghĩa là không có.
type Columns struct {
	ItemName      int
	UnitOfMeasure int
	Description   int
	UnitPrice     int
}

// Row là một dòng dữ liệu hợp lệ, chưa có mã hàng.
type Row struct {
	ItemName      string
	UnitOfMeasure string
	Description   string
	UnitPrice     float64
}

// ParseResult: các dòng hợp lệ và số dòng bị bỏ qua.
type ParseResult struct {
	Rows   []Row
	Errors int
}

// ResolveColumns nhận diện cột theo chuỗi con trên tiêu đề đã chuẩn hoá (lower-case, trim).
// Mỗi cột lấy tiêu đề ĐẦU TIÊN (theo thứ tự quét) khớp với bất kỳ mẫu nào của cột đó.
// Lưu ý "unit price" cũng chứa "unit", nên nếu đứng trước cột UOM nó sẽ được chọn làm UOM.
func ResolveColumns(headers []string) Columns {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	return Columns{
		ItemName: findHeader(normalized, func(h string) bool {
			return strings.Contains(h, "item name") ||
				(strings.Contains(h, "item") && strings.Contains(h, "name")) ||
				strings.Contains(h, "name")
		}),
		UnitOfMeasure: findHeader(normalized, func(h string) bool {
			return strings.Contains(h, "uom") ||
				strings.Contains(h, "unit of measure") ||
				strings.Contains(h, "unit")
		}),
		Description: findHeader(normalized, func(h string) bool {
			return strings.Contains(h, "description") || strings.Contains(h, "desc")
		}),
		UnitPrice: findHeader(normalized, func(h string) bool {
			return strings.Contains(h, "unit price") || strings.Contains(h, "price")
		}),
	}
}

func findHeader(headers []string, match func(string) bool) int {
	for i, h := range headers {
		if match(h) {
			return i
		}
	}
	return notFound
}

// Parse đọc payload dạng text phân tách bằng dấu phẩy, dòng đầu là tiêu đề.
// Không hỗ trợ trường có ngoặc kép hay dấu phẩy thoát.
func Parse(raw string) (ParseResult, error) {
	lines := strings.Split(raw, "\n")
	cols := ResolveColumns(strings.Split(lines[0], ","))
	if cols.ItemName == notFound || cols.UnitPrice == notFound {
		return ParseResult{}, ErrMissingColumns
	}

	var result ParseResult
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}

		values := strings.Split(line, ",")
		for i := range values {
			values[i] = strings.TrimSpace(values[i])
		}

		name := field(values, cols.ItemName)
		price, ok := ParsePrice(field(values, cols.UnitPrice))
		if name == "" || !ok {
			result.Errors++
			continue
		}

		row := Row{
			ItemName:      name,
			UnitOfMeasure: DefaultUnitOfMeasure,
			UnitPrice:     price,
		}
		if cols.UnitOfMeasure != notFound {
			row.UnitOfMeasure = field(values, cols.UnitOfMeasure)
		}
		if cols.Description != notFound {
			row.Description = field(values, cols.Description)
		}
		result.Rows = append(result.Rows, row)
	}

	if len(result.Rows) == 0 {
		return result, ErrNoValidItems
	}
	return result, nil
}

func field(values []string, idx int) string {
	if idx < 0 || idx >= len(values) {
		return ""
	}
	return values[idx]
}

var leadingFloat = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// ParsePrice đọc số thực ở đầu chuỗi ("12.50 PHP" -> 12.5). Chuỗi không bắt đầu bằng số,
// hoặc giá trị vô hạn, bị coi là không hợp lệ.
func ParsePrice(s string) (float64, bool) {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
