// internal/api/handlers/item_handler.go
package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"requisition-api-server/internal/importer"
	"requisition-api-server/internal/logger"
	"requisition-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Giới hạn kích thước file import.
const maxImportBytes = 10 << 20

type ItemHandler struct {
	Items    ItemRepository
	Catalog  *CatalogReader
	IDs      IDGenerator
	Importer BulkImporter
	Archiver ImportArchiver
	Notifier Notifier
}

type ItemRequest struct {
	ItemName      string   `json:"itemName" binding:"required"`
	UnitOfMeasure string   `json:"unitOfMeasure"`
	Description   string   `json:"description"`
	UnitPrice     *float64 `json:"unitPrice" binding:"required"`
}

func (r ItemRequest) validate() error {
	if strings.TrimSpace(r.ItemName) == "" {
		return errors.New("itemName is required")
	}
	if *r.UnitPrice < 0 {
		return errors.New("unitPrice must not be negative")
	}
	return nil
}

// ListItems trả về toàn bộ item, mới nhất trước.
func (h *ItemHandler) ListItems(c *gin.Context) {
	items, err := h.Items.List(c.Request.Context())
	if err != nil {
		storeError(c, err, "", "Failed to retrieve items")
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetCatalog trả về danh mục theo tên, phục vụ từ cache.
func (h *ItemHandler) GetCatalog(c *gin.Context) {
	items, err := h.Catalog.Load(c.Request.Context())
	if err != nil {
		storeError(c, err, "", "Failed to retrieve items")
		return
	}
	c.JSON(http.StatusOK, items)
}

// NextItemID cho form tạo mới xem trước mã sẽ được cấp. Không giữ chỗ.
func (h *ItemHandler) NextItemID(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"itemId": h.IDs.NextItemID(c.Request.Context())})
}

func (h *ItemHandler) GetItem(c *gin.Context) {
	item, err := h.Items.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, err, "Item not found", "Failed to retrieve item")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	item := &models.Item{
		ItemID:        h.IDs.NextItemID(ctx),
		ItemName:      strings.TrimSpace(req.ItemName),
		UnitOfMeasure: strings.TrimSpace(req.UnitOfMeasure),
		Description:   strings.TrimSpace(req.Description),
		UnitPrice:     *req.UnitPrice,
		CreatedAt:     time.Now(),
	}
	if err := h.Items.Create(ctx, item); err != nil {
		storeError(c, err, "", "Failed to add item")
		return
	}

	h.Catalog.Invalidate()
	notify(h.Notifier, models.EventItemCreated, item)
	c.JSON(http.StatusCreated, item)
}

func (h *ItemHandler) UpdateItem(c *gin.Context) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.Items.Update(c.Request.Context(), c.Param("id"), models.ItemUpdate{
		ItemName:      strings.TrimSpace(req.ItemName),
		UnitOfMeasure: strings.TrimSpace(req.UnitOfMeasure),
		Description:   strings.TrimSpace(req.Description),
		UnitPrice:     *req.UnitPrice,
	})
	if err != nil {
		storeError(c, err, "Item not found", "Failed to update item")
		return
	}

	h.Catalog.Invalidate()
	notify(h.Notifier, models.EventItemUpdated, item)
	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id := c.Param("id")
	if err := h.Items.Delete(c.Request.Context(), id); err != nil {
		storeError(c, err, "Item not found", "Failed to delete item")
		return
	}

	h.Catalog.Invalidate()
	notify(h.Notifier, models.EventItemDeleted, gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

// ImportItems nhận file multipart (field "file") hoặc body text/csv thô.
func (h *ItemHandler) ImportItems(c *gin.Context) {
	log := logger.FromGin(c)
	ctx := c.Request.Context()

	filename, contentType, data, err := readImportPayload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raw, err := importer.PayloadText(filename, data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Lưu bản gốc là best-effort: lỗi chỉ ghi log, không chặn import.
	if h.Archiver != nil {
		if url, err := h.Archiver.ArchiveImport(ctx, filename, contentType, bytes.NewReader(data)); err != nil {
			log.Warn("Failed to archive import payload", zap.String("file", filename), zap.Error(err))
		} else {
			log.Info("Import payload archived", zap.String("url", url))
		}
	}

	report, err := h.Importer.Import(ctx, raw)
	if err != nil {
		if errors.Is(err, importer.ErrMissingColumns) || errors.Is(err, importer.ErrNoValidItems) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "failed": report.Failed})
			return
		}
		log.Error("Failed to import items", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import items"})
		return
	}

	if report.Succeeded > 0 {
		h.Catalog.Invalidate()
		notify(h.Notifier, models.EventItemsImported, gin.H{"succeeded": report.Succeeded, "failed": report.Failed})
	}

	c.JSON(http.StatusOK, gin.H{
		"succeeded": report.Succeeded,
		"failed":    report.Failed,
		"message":   report.Message(),
	})
}

func readImportPayload(c *gin.Context) (filename, contentType string, data []byte, err error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return "", "", nil, errors.New("file is required")
		}
		f, err := fileHeader.Open()
		if err != nil {
			return "", "", nil, err
		}
		defer f.Close()

		data, err = io.ReadAll(f)
		if err != nil {
			return "", "", nil, err
		}
		return fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data, nil
	}

	data, err = io.ReadAll(c.Request.Body)
	if err != nil {
		return "", "", nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return "", "", nil, errors.New("file is required")
	}
	return "payload.csv", "text/csv", data, nil
}
