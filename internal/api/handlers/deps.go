// internal/api/handlers/deps.go
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"requisition-api-server/internal/database"
	"requisition-api-server/internal/importer"
	"requisition-api-server/internal/logger"
	"requisition-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Các interface dưới đây được thoả mãn bởi các store trong internal/database,
// handler chỉ phụ thuộc vào interface để test được bằng store giả.

type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	List(ctx context.Context) ([]models.Item, error)
	Catalog(ctx context.Context) ([]models.Item, error)
	Get(ctx context.Context, id string) (*models.Item, error)
	Update(ctx context.Context, id string, upd models.ItemUpdate) (*models.Item, error)
	Delete(ctx context.Context, id string) error
}

type RequisitionRepository interface {
	Create(ctx context.Context, req *models.Requisition) error
	List(ctx context.Context, archived bool) ([]models.Requisition, error)
	Get(ctx context.Context, id string) (*models.Requisition, error)
	SetStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

// IDGenerator được thoả mãn bởi *sequence.Generator.
type IDGenerator interface {
	NextItemID(ctx context.Context) string
	NextRequisitionNumber(ctx context.Context) string
}

type BulkImporter interface {
	Import(ctx context.Context, raw string) (importer.Report, error)
}

// ImportArchiver lưu payload import gốc (S3). Có thể nil.
type ImportArchiver interface {
	ArchiveImport(ctx context.Context, filename, contentType string, data io.Reader) (string, error)
}

// Notifier được thoả mãn bởi *socket.Hub. Có thể nil.
type Notifier interface {
	Broadcast(event models.Event)
}

func notify(n Notifier, event string, data interface{}) {
	if n != nil {
		n.Broadcast(models.Event{Event: event, Data: data})
	}
}

// storeError: ErrNotFound -> 404, còn lại -> 500 với thông báo chung, chi tiết chỉ ghi log.
func storeError(c *gin.Context, err error, notFound, failed string) {
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
		return
	}
	logger.FromGin(c).Error(failed, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": failed})
}
