package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"securesphere/internal/model"
)

// StatusRepo persists the derived per-product workflow status. Writes always
// replace the whole document for the (product, user) key.
type StatusRepo interface {
	Upsert(ctx context.Context, status *model.ProductStatus) error
	Get(ctx context.Context, productID, userID string) (*model.ProductStatus, error)
	ListByStatus(ctx context.Context, statuses ...model.AssessmentStatus) ([]*model.ProductStatus, error)
	Delete(ctx context.Context, productID, userID string) error
}

type statusRepo struct {
	collection *mongo.Collection
}

// NewStatusRepo creates a status repository over the given database.
func NewStatusRepo(db *mongo.Database) StatusRepo {
	return &statusRepo{collection: db.Collection("product_statuses")}
}

func (r *statusRepo) Upsert(ctx context.Context, status *model.ProductStatus) error {
	status.LastUpdated = time.Now().UTC()
	status.ID = status.ProductID + ":" + status.UserID
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": status.ID}, status, opts)
	return err
}

func (r *statusRepo) Get(ctx context.Context, productID, userID string) (*model.ProductStatus, error) {
	var status model.ProductStatus
	err := r.collection.FindOne(ctx, bson.M{"productId": productID, "userId": userID}).Decode(&status)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *statusRepo) ListByStatus(ctx context.Context, statuses ...model.AssessmentStatus) ([]*model.ProductStatus, error) {
	opts := options.Find().SetSort(bson.D{{Key: "lastUpdated", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"status": bson.M{"$in": statuses}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []*model.ProductStatus
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *statusRepo) Delete(ctx context.Context, productID, userID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": productID + ":" + userID})
	return err
}
