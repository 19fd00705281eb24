// internal/models/item.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Item struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ItemID        string             `bson:"itemId" json:"itemId"` // Mã dễ đọc, ví dụ "ITEM-007" hoặc "ITM-<ts>-<rand>" khi import
	ItemName      string             `bson:"itemName" json:"itemName"`
	UnitOfMeasure string             `bson:"unitOfMeasure" json:"unitOfMeasure"`
	Description   string             `bson:"description" json:"description"`
	UnitPrice     float64            `bson:"unitPrice" json:"unitPrice"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// ItemUpdate chứa các trường được phép sửa. ItemID không bao giờ đổi sau khi tạo.
type ItemUpdate struct {
	ItemName      string  `bson:"itemName"`
	UnitOfMeasure string  `bson:"unitOfMeasure"`
	Description   string  `bson:"description"`
	UnitPrice     float64 `bson:"unitPrice"`
}
