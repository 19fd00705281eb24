// internal/requisition/draft.go
package requisition

import (
	"errors"
	"fmt"
	"math"

	"requisition-api-server/internal/models"
)

var (
	ErrEmpty           = errors.New("please add at least one item to the requisition")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrUnknownItem     = errors.New("item not found in catalog")
)

// Draft là danh sách dòng hàng đang soạn. Thêm cùng một itemId hai lần sẽ cộng dồn số lượng.
type Draft struct {
	lines []models.RequisitionItem
}

// NewDraft bắt đầu từ các dòng có sẵn (ví dụ khi sửa và gửi lại một phiếu cũ).
func NewDraft(lines []models.RequisitionItem) *Draft {
	d := &Draft{lines: make([]models.RequisitionItem, len(lines))}
	copy(d.lines, lines)
	return d
}

// Add thêm item với số lượng cho trước. Dòng trùng itemId được gộp và tính lại thành tiền
// theo đơn giá hiện tại của item.
func (d *Draft) Add(item models.Item, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	for i := range d.lines {
		if d.lines[i].ItemID == item.ItemID {
			// tổng số lượng sau khi gộp vẫn phải là số nguyên dương
			if quantity > math.MaxInt-d.lines[i].Quantity {
				return ErrInvalidQuantity
			}
			d.lines[i].Quantity += quantity
			d.lines[i].UnitPrice = item.UnitPrice
			d.lines[i].TotalPrice = float64(d.lines[i].Quantity) * item.UnitPrice
			return nil
		}
	}

	d.lines = append(d.lines, models.RequisitionItem{
		ItemID:        item.ItemID,
		ItemName:      item.ItemName,
		Quantity:      quantity,
		UnitOfMeasure: item.UnitOfMeasure,
		Description:   item.Description,
		UnitPrice:     item.UnitPrice,
		TotalPrice:    float64(quantity) * item.UnitPrice,
	})
	return nil
}

// Remove bỏ dòng ở vị trí index; index ngoài phạm vi thì bỏ qua.
func (d *Draft) Remove(index int) {
	if index < 0 || index >= len(d.lines) {
		return
	}
	d.lines = append(d.lines[:index], d.lines[index+1:]...)
}

func (d *Draft) Lines() []models.RequisitionItem {
	out := make([]models.RequisitionItem, len(d.lines))
	copy(out, d.lines)
	return out
}

func (d *Draft) Total() float64 {
	return GrandTotal(d.lines)
}

// GrandTotal = tổng totalPrice của mọi dòng; danh sách rỗng cho 0.
func GrandTotal(lines []models.RequisitionItem) float64 {
	total := 0.0
	for _, line := range lines {
		total += line.TotalPrice
	}
	return total
}

// LineRequest là một dòng client gửi lên: ID (document id trong catalog) hoặc ItemID (mã dễ đọc).
type LineRequest struct {
	ID       string `json:"id"`
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// Compose tra từng dòng trong catalog rồi gộp vào draft. Draft rỗng ở cuối là lỗi.
func Compose(draft *Draft, catalog []models.Item, reqs []LineRequest) error {
	for _, req := range reqs {
		item, ok := lookup(catalog, req)
		if !ok {
			key := req.ItemID
			if req.ID != "" {
				key = req.ID
			}
			return fmt.Errorf("%w: %s", ErrUnknownItem, key)
		}
		if err := draft.Add(item, req.Quantity); err != nil {
			return fmt.Errorf("%s: %w", item.ItemID, err)
		}
	}
	if len(draft.lines) == 0 {
		return ErrEmpty
	}
	return nil
}

func lookup(catalog []models.Item, req LineRequest) (models.Item, bool) {
	for _, item := range catalog {
		if req.ID != "" {
			if item.ID.Hex() == req.ID {
				return item, true
			}
			continue
		}
		if req.ItemID != "" && item.ItemID == req.ItemID {
			return item, true
		}
	}
	return models.Item{}, false
}
