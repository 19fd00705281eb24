// internal/sequence/generator.go
package sequence

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"requisition-api-server/internal/metrics"

	"go.uber.org/zap"
)

const (
	ItemSeed        = "ITEM-001"
	RequisitionSeed = "FL.RF.01"
)

// LatestFunc trả về mã của bản ghi được tạo gần nhất (sắp theo createdAt giảm dần, limit 1).
// found = false khi collection rỗng.
type LatestFunc func(ctx context.Context) (code string, found bool, err error)

// Generator sinh mã tuần tự dễ đọc bằng cách đọc bản ghi mới nhất rồi tăng hậu tố số.
//
// Không có khoá hay kiểm tra trùng: hai phiên tạo đồng thời có thể đọc cùng một bản ghi
// và nhận cùng một mã. Muốn an toàn cần một counter tăng nguyên tử (findOneAndUpdate với $inc).
type Generator struct {
	latestItem        LatestFunc
	latestRequisition LatestFunc
	now               func() time.Time
	log               *zap.Logger
}

type Option func(*Generator)

func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func WithLogger(log *zap.Logger) Option {
	return func(g *Generator) { g.log = log }
}

func NewGenerator(latestItem, latestRequisition LatestFunc, opts ...Option) *Generator {
	g := &Generator{
		latestItem:        latestItem,
		latestRequisition: latestRequisition,
		now:               time.Now,
		log:               zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NextItemID trả về mã hàng tiếp theo, ví dụ "ITEM-008". Không bao giờ trả lỗi:
// nếu đọc DB thất bại thì dùng 3 chữ số cuối của thời gian hiện tại (ms).
func (g *Generator) NextItemID(ctx context.Context) string {
	code, found, err := g.latestItem(ctx)
	if err != nil {
		fallback := ItemFallback(g.now())
		metrics.SequenceFallbacks.WithLabelValues("item").Inc()
		g.log.Warn("Failed to read latest item, using fallback id",
			zap.String("fallback", fallback), zap.Error(err))
		return fallback
	}
	if !found {
		return ItemSeed
	}
	return ItemIDAfter(code)
}

// NextRequisitionNumber trả về số phiếu tiếp theo, ví dụ "FL.RF.04".
// Lỗi đọc DB sẽ quay về RequisitionSeed.
func (g *Generator) NextRequisitionNumber(ctx context.Context) string {
	code, found, err := g.latestRequisition(ctx)
	if err != nil {
		metrics.SequenceFallbacks.WithLabelValues("requisition").Inc()
		g.log.Warn("Failed to read latest requisition, restarting sequence",
			zap.String("fallback", RequisitionSeed), zap.Error(err))
		return RequisitionSeed
	}
	if !found {
		return RequisitionSeed
	}
	return RequisitionNumberAfter(code)
}

// ItemIDAfter tính mã kế tiếp từ mã trước: "ITEM-007" -> "ITEM-008".
// Lấy đoạn thứ hai khi tách theo "-"; đoạn không phải số hoặc thiếu được coi là 0.
func ItemIDAfter(prev string) string {
	return fmt.Sprintf("ITEM-%03d", segmentNumber(prev, "-", 1)+1)
}

// RequisitionNumberAfter: "FL.RF.03" -> "FL.RF.04". Lấy đoạn thứ ba khi tách theo ".".
func RequisitionNumberAfter(prev string) string {
	return fmt.Sprintf("FL.RF.%02d", segmentNumber(prev, ".", 2)+1)
}

// ItemFallback dựng mã dự phòng từ 3 chữ số cuối của Unix milliseconds.
func ItemFallback(t time.Time) string {
	ms := strconv.FormatInt(t.UnixMilli(), 10)
	if len(ms) > 3 {
		ms = ms[len(ms)-3:]
	}
	return "ITEM-" + ms
}

// segmentNumber đọc các chữ số đứng đầu của đoạn thứ idx. "012abc" -> 12, "abc" -> 0.
func segmentNumber(code, sep string, idx int) int {
	parts := strings.Split(code, sep)
	if idx >= len(parts) {
		return 0
	}
	s := strings.TrimLeft(parts[idx], " \t\r\n")
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
