// internal/database/item_store.go
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

type ItemStore struct {
	coll *mongo.Collection
}

func NewItemStore(db *mongo.Database) *ItemStore {
	return &ItemStore{coll: db.Collection(models.CollectionItems)}
}

// Create gán _id và createdAt (nếu chưa có) rồi insert.
func (s *ItemStore) Create(ctx context.Context, item *models.Item) error {
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	_, err := s.coll.InsertOne(ctx, item)
	return err
}

// List trả về toàn bộ item, mới nhất trước.
func (s *ItemStore) List(ctx context.Context) ([]models.Item, error) {
	return s.find(ctx, bson.D{{Key: "createdAt", Value: -1}})
}

// Catalog trả về toàn bộ item theo tên A-Z, dùng cho danh sách chọn hàng.
func (s *ItemStore) Catalog(ctx context.Context) ([]models.Item, error) {
	return s.find(ctx, bson.D{{Key: "itemName", Value: 1}})
}

func (s *ItemStore) find(ctx context.Context, sort bson.D) ([]models.Item, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []models.Item{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *ItemStore) Get(ctx context.Context, id string) (*models.Item, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var item models.Item
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Update sửa các trường cho phép và trả về document sau khi sửa. itemId giữ nguyên.
func (s *ItemStore) Update(ctx context.Context, id string, upd models.ItemUpdate) (*models.Item, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item models.Item
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": upd}, opts).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *ItemStore) Delete(ctx context.Context, id string) error {
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

func (s *ItemStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}

// LatestItemID là nguồn dữ liệu cho sequence.Generator.
func (s *ItemStore) LatestItemID(ctx context.Context) (string, bool, error) {
	return latestString(ctx, s.coll, "itemId")
}
