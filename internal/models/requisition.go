// internal/models/requisition.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPending  = "pending"
	StatusArchived = "archived"
)

// RequisitionItem là một dòng hàng nhúng trong phiếu đề nghị, không phải document riêng.
type RequisitionItem struct {
	ItemID        string  `bson:"itemId" json:"itemId"`
	ItemName      string  `bson:"itemName" json:"itemName"`
	Quantity      int     `bson:"quantity" json:"quantity"`
	UnitOfMeasure string  `bson:"unitOfMeasure" json:"unitOfMeasure"`
	Description   string  `bson:"description" json:"description"`
	UnitPrice     float64 `bson:"unitPrice" json:"unitPrice"`
	TotalPrice    float64 `bson:"totalPrice" json:"totalPrice"`
}

// RequisitionHeader gom các trường do người dùng nhập trên form.
type RequisitionHeader struct {
	RequestDate   string `bson:"requestDate" json:"requestDate"` // YYYY-MM-DD
	NeedDate      string `bson:"needDate" json:"needDate"`
	Department    string `bson:"department" json:"department"`
	UnitSection   string `bson:"unitSection" json:"unitSection"`
	Remarks       string `bson:"remarks" json:"remarks"`
	PreparedBy    string `bson:"preparedBy" json:"preparedBy"`
	NotedBy       string `bson:"notedBy" json:"notedBy"`
	ApprovedBy    string `bson:"approvedBy" json:"approvedBy"`
	ApprovedByCOO string `bson:"approvedByCOO" json:"approvedByCOO"`
}

type Requisition struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequisitionNumber string             `bson:"requisitionNumber" json:"requisitionNumber"` // "FL.RF.03"
	RequisitionHeader `bson:",inline"`
	Items             []RequisitionItem `bson:"items" json:"items"`
	Status            string            `bson:"status" json:"status"` // pending | archived
	CreatedAt         time.Time         `bson:"createdAt" json:"createdAt"`
}
