// internal/database/requisition_store.go
package database

import (
	"context"
	"errors"
	"time"

	"requisition-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RequisitionStore struct {
	coll *mongo.Collection
}

func NewRequisitionStore(db *mongo.Database) *RequisitionStore {
	return &RequisitionStore{coll: db.Collection(models.CollectionRequisitions)}
}

func (s *RequisitionStore) Create(ctx context.Context, req *models.Requisition) error {
	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	if req.Status == "" {
		req.Status = models.StatusPending
	}
	_, err := s.coll.InsertOne(ctx, req)
	return err
}

// List trả về phiếu mới nhất trước. archived = true chỉ lấy phiếu đã lưu trữ,
// ngược lại lấy mọi phiếu chưa lưu trữ.
func (s *RequisitionStore) List(ctx context.Context, archived bool) ([]models.Requisition, error) {
	filter := bson.M{"status": bson.M{"$ne": models.StatusArchived}}
	if archived {
		filter = bson.M{"status": models.StatusArchived}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reqs := []models.Requisition{}
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (s *RequisitionStore) Get(ctx context.Context, id string) (*models.Requisition, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var req models.Requisition
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&req); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (s *RequisitionStore) SetStatus(ctx context.Context, id, status string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RequisitionStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RequisitionStore) LatestNumber(ctx context.Context) (string, bool, error) {
	return latestString(ctx, s.coll, "requisitionNumber")
}
