// internal/models/common.go
package models

// Các collection trên MongoDB.
const (
	CollectionItems        = "items"
	CollectionRequisitions = "requisitions"
	CollectionUsers        = "users"
)

// Event là thông điệp đẩy qua WebSocket khi dữ liệu thay đổi.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

const (
	EventItemCreated        = "item.created"
	EventItemUpdated        = "item.updated"
	EventItemDeleted        = "item.deleted"
	EventItemsImported      = "items.imported"
	EventRequisitionCreated = "requisition.created"
	EventRequisitionStatus  = "requisition.status"
	EventRequisitionDeleted = "requisition.deleted"
)
