// internal/importer/importer.go
package importer

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"requisition-api-server/internal/metrics"
	"requisition-api-server/internal/models"

	"go.uber.org/zap"
)

// Store là nơi lưu từng item đã parse.
type Store interface {
	Create(ctx context.Context, item *models.Item) error
}

// Report tổng kết một lần import.
type Report struct {
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Items     []models.Item `json:"items"`
}

func (r Report) Message() string {
	msg := fmt.Sprintf("Successfully imported %d items", r.Succeeded)
	if r.Failed > 0 {
		msg += fmt.Sprintf(" (%d errors)", r.Failed)
	}
	return msg
}

type Importer struct {
	store Store
	now   func() time.Time
	token func() string
	log   *zap.Logger
}

type Option func(*Importer)

func WithClock(now func() time.Time) Option {
	return func(im *Importer) { im.now = now }
}

// WithTokenSource thay bộ sinh chuỗi ngẫu nhiên 9 ký tự (dùng trong test).
func WithTokenSource(token func() string) Option {
	return func(im *Importer) { im.token = token }
}

func WithLogger(log *zap.Logger) Option {
	return func(im *Importer) { im.log = log }
}

func New(store Store, opts ...Option) *Importer {
	im := &Importer{
		store: store,
		now:   time.Now,
		token: func() string { return RandomToken(9) },
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Import parse payload rồi ghi lần lượt từng dòng. Lỗi cấu hình cột hoặc không có dòng
// hợp lệ thì dừng ngay, không ghi gì. Lỗi ghi một dòng chỉ được đếm, không dừng các dòng sau.
//
// Mã hàng ở đây là "ITM-<unix ms>-<token>", KHÔNG đi qua sequence.Generator.
func (im *Importer) Import(ctx context.Context, raw string) (Report, error) {
	parsed, err := Parse(raw)
	if err != nil {
		return Report{Failed: parsed.Errors}, err
	}

	report := Report{Failed: parsed.Errors, Items: make([]models.Item, 0, len(parsed.Rows))}
	for _, row := range parsed.Rows {
		now := im.now()
		item := &models.Item{
			ItemID:        BulkItemID(now, im.token()),
			ItemName:      row.ItemName,
			UnitOfMeasure: row.UnitOfMeasure,
			Description:   row.Description,
			UnitPrice:     row.UnitPrice,
			CreatedAt:     now,
		}

		if err := im.store.Create(ctx, item); err != nil {
			report.Failed++
			im.log.Warn("Failed to add imported item",
				zap.String("itemName", row.ItemName), zap.Error(err))
			continue
		}
		report.Succeeded++
		report.Items = append(report.Items, *item)
	}

	metrics.ImportRows.WithLabelValues("succeeded").Add(float64(report.Succeeded))
	metrics.ImportRows.WithLabelValues("failed").Add(float64(report.Failed))
	im.log.Info("Bulk import finished",
		zap.Int("succeeded", report.Succeeded), zap.Int("failed", report.Failed))

	return report, nil
}

// BulkItemID: "ITM-" + unix milliseconds + "-" + token.
func BulkItemID(t time.Time, token string) string {
	return "ITM-" + strconv.FormatInt(t.UnixMilli(), 10) + "-" + token
}

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// RandomToken sinh chuỗi base36 viết hoa độ dài n.
func RandomToken(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36[rand.Intn(len(base36))]
	}
	return string(b)
}
