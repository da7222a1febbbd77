package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"securesphere/internal/model"
)

// ScoreRepo persists the per-section score snapshots. A recomputation fully
// replaces the snapshot for its (product, user, section) key.
type ScoreRepo interface {
	Replace(ctx context.Context, snapshot *model.ScoreSnapshot) error
	ListByProductUser(ctx context.Context, productID, userID string) ([]*model.ScoreSnapshot, error)
	DeleteByProductUser(ctx context.Context, productID, userID string) error
}

type scoreRepo struct {
	collection *mongo.Collection
}

// NewScoreRepo creates a score snapshot repository over the given database.
func NewScoreRepo(db *mongo.Database) ScoreRepo {
	return &scoreRepo{collection: db.Collection("score_snapshots")}
}

func (r *scoreRepo) Replace(ctx context.Context, snapshot *model.ScoreSnapshot) error {
	snapshot.CalculatedAt = time.Now().UTC()
	snapshot.ID = snapshot.ProductID + ":" + snapshot.UserID + ":" + snapshot.Section
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": snapshot.ID}, snapshot, opts)
	return err
}

func (r *scoreRepo) ListByProductUser(ctx context.Context, productID, userID string) ([]*model.ScoreSnapshot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "section", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"productId": productID, "userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var snapshots []*model.ScoreSnapshot
	if err = cursor.All(ctx, &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (r *scoreRepo) DeleteByProductUser(ctx context.Context, productID, userID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"productId": productID, "userId": userID})
	return err
}
