// internal/api/handlers/requisition_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"requisition-api-server/internal/logger"
	"requisition-api-server/internal/models"
	"requisition-api-server/internal/requisition"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RequisitionHandler struct {
	Requisitions RequisitionRepository
	Catalog      *CatalogReader
	IDs          IDGenerator
	Notifier     Notifier
	// Now mặc định là time.Now.
	Now func() time.Time
}

type CreateRequisitionRequest struct {
	models.RequisitionHeader
	Items []requisition.LineRequest `json:"items"`
}

// ResubmitRequest: trường nil giữ nguyên giá trị của phiếu gốc; Items nil giữ nguyên các dòng.
type ResubmitRequest struct {
	RequestDate   *string                   `json:"requestDate"`
	NeedDate      *string                   `json:"needDate"`
	Department    *string                   `json:"department"`
	UnitSection   *string                   `json:"unitSection"`
	Remarks       *string                   `json:"remarks"`
	PreparedBy    *string                   `json:"preparedBy"`
	NotedBy       *string                   `json:"notedBy"`
	ApprovedBy    *string                   `json:"approvedBy"`
	ApprovedByCOO *string                   `json:"approvedByCOO"`
	Items         []requisition.LineRequest `json:"items"`
}

func (r ResubmitRequest) apply(h *models.RequisitionHeader) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&h.RequestDate, r.RequestDate)
	set(&h.NeedDate, r.NeedDate)
	set(&h.Department, r.Department)
	set(&h.UnitSection, r.UnitSection)
	set(&h.Remarks, r.Remarks)
	set(&h.PreparedBy, r.PreparedBy)
	set(&h.NotedBy, r.NotedBy)
	set(&h.ApprovedBy, r.ApprovedBy)
	set(&h.ApprovedByCOO, r.ApprovedByCOO)
}

// RequisitionResponse kèm tổng tiền đã tính.
type RequisitionResponse struct {
	*models.Requisition
	GrandTotal float64 `json:"grandTotal"`
}

func withTotal(req *models.Requisition) RequisitionResponse {
	return RequisitionResponse{Requisition: req, GrandTotal: requisition.GrandTotal(req.Items)}
}

func (h *RequisitionHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *RequisitionHandler) CreateRequisition(c *gin.Context) {
	var req CreateRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.submit(c, req.RequisitionHeader, func(d *requisition.Draft) error {
		return h.compose(c, d, req.Items)
	})
}

// ResubmitRequisition là thao tác "sửa": tạo phiếu MỚI với số MỚI, phiếu gốc giữ nguyên.
func (h *RequisitionHandler) ResubmitRequisition(c *gin.Context) {
	var req ResubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	source, err := h.Requisitions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, err, "Requisition not found", "Failed to retrieve requisition")
		return
	}

	header := source.RequisitionHeader
	req.apply(&header)

	h.submit(c, header, func(d *requisition.Draft) error {
		if req.Items == nil {
			*d = *requisition.NewDraft(source.Items)
			if len(d.Lines()) == 0 {
				return requisition.ErrEmpty
			}
			return nil
		}
		return h.compose(c, d, req.Items)
	})
}

func (h *RequisitionHandler) compose(c *gin.Context, d *requisition.Draft, lines []requisition.LineRequest) error {
	catalog, err := h.Catalog.Load(c.Request.Context())
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	return requisition.Compose(d, catalog, lines)
}

// submit dựng các dòng hàng bằng fill rồi ghi phiếu mới.
func (h *RequisitionHandler) submit(c *gin.Context, header models.RequisitionHeader, fill func(*requisition.Draft) error) {
	draft := requisition.NewDraft(nil)
	if err := fill(draft); err != nil {
		if errors.Is(err, requisition.ErrEmpty) || errors.Is(err, requisition.ErrUnknownItem) ||
			errors.Is(err, requisition.ErrInvalidQuantity) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.FromGin(c).Error("Failed to build requisition lines", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit requisition"})
		return
	}

	ctx := c.Request.Context()
	now := h.now()
	if header.RequestDate == "" {
		header.RequestDate = now.Format("2006-01-02")
	}

	doc := &models.Requisition{
		RequisitionNumber: h.IDs.NextRequisitionNumber(ctx),
		RequisitionHeader: header,
		Items:             draft.Lines(),
		Status:            models.StatusPending,
		CreatedAt:         now,
	}
	if err := h.Requisitions.Create(ctx, doc); err != nil {
		storeError(c, err, "", "Failed to submit requisition")
		return
	}

	notify(h.Notifier, models.EventRequisitionCreated, gin.H{"id": doc.ID.Hex(), "requisitionNumber": doc.RequisitionNumber})
	c.JSON(http.StatusCreated, withTotal(doc))
}

// ListRequisitions: ?archived=true chỉ lấy phiếu đã lưu trữ, mặc định lấy phiếu đang hoạt động.
func (h *RequisitionHandler) ListRequisitions(c *gin.Context) {
	archived := false
	if v := c.Query("archived"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "archived must be true or false"})
			return
		}
		archived = parsed
	}

	reqs, err := h.Requisitions.List(c.Request.Context(), archived)
	if err != nil {
		storeError(c, err, "", "Failed to retrieve requisitions")
		return
	}

	out := make([]RequisitionResponse, 0, len(reqs))
	for i := range reqs {
		out = append(out, withTotal(&reqs[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *RequisitionHandler) NextRequisitionNumber(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"requisitionNumber": h.IDs.NextRequisitionNumber(c.Request.Context())})
}

func (h *RequisitionHandler) GetRequisition(c *gin.Context) {
	req, err := h.Requisitions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, err, "Requisition not found", "Failed to retrieve requisition")
		return
	}
	c.JSON(http.StatusOK, withTotal(req))
}

// ToggleArchive chuyển pending <-> archived.
func (h *RequisitionHandler) ToggleArchive(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	req, err := h.Requisitions.Get(ctx, id)
	if err != nil {
		storeError(c, err, "Requisition not found", "Failed to retrieve requisition")
		return
	}

	status := models.StatusArchived
	if req.Status == models.StatusArchived {
		status = models.StatusPending
	}
	if err := h.Requisitions.SetStatus(ctx, id, status); err != nil {
		storeError(c, err, "Requisition not found", "Failed to update requisition")
		return
	}

	notify(h.Notifier, models.EventRequisitionStatus, gin.H{"id": id, "status": status})
	c.JSON(http.StatusOK, gin.H{"id": id, "status": status})
}

func (h *RequisitionHandler) DeleteRequisition(c *gin.Context) {
	id := c.Param("id")
	if err := h.Requisitions.Delete(c.Request.Context(), id); err != nil {
		storeError(c, err, "Requisition not found", "Failed to delete requisition")
		return
	}

	notify(h.Notifier, models.EventRequisitionDeleted, gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"message": "Requisition deleted successfully"})
}

// ExportRequisition trả về file .xlsx của phiếu.
func (h *RequisitionHandler) ExportRequisition(c *gin.Context) {
	req, err := h.Requisitions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, err, "Requisition not found", "Failed to retrieve requisition")
		return
	}

	buf, err := requisition.Export(req)
	if err != nil {
		logger.FromGin(c).Error("Failed to export requisition", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export requisition"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, req.RequisitionNumber))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
