package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"securesphere/internal/model"
)

// ResponseRepo handles MongoDB operations for questionnaire responses.
type ResponseRepo interface {
	Create(ctx context.Context, resp *model.Response) error
	GetByID(ctx context.Context, id string) (*model.Response, error)
	ListByProductUser(ctx context.Context, productID, userID string) ([]*model.Response, error)
	ListBySection(ctx context.Context, productID, userID, section string) ([]*model.Response, error)
	DeleteByIDs(ctx context.Context, ids []string) error
	DeleteByProduct(ctx context.Context, productID string) error
	Update(ctx context.Context, resp *model.Response) error
	CountByProductUser(ctx context.Context, productID, userID string) (int64, error)
	CountReviewed(ctx context.Context, productID, userID string) (int64, error)
	CountNeedsClientResponse(ctx context.Context, productID, userID string) (int64, error)
}

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a response repository over the given database.
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{collection: db.Collection("responses")}
}

func (r *responseRepo) Create(ctx context.Context, resp *model.Response) error {
	now := time.Now().UTC()
	if resp.CreatedAt.IsZero() {
		resp.CreatedAt = now
	}
	resp.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, resp)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		resp.ID = oid.Hex()
	}
	return nil
}

func (r *responseRepo) GetByID(ctx context.Context, id string) (*model.Response, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var resp model.Response
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&resp)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *responseRepo) ListByProductUser(ctx context.Context, productID, userID string) ([]*model.Response, error) {
	return r.list(ctx, bson.M{"productId": productID, "userId": userID})
}

func (r *responseRepo) ListBySection(ctx context.Context, productID, userID, section string) ([]*model.Response, error) {
	return r.list(ctx, bson.M{"productId": productID, "userId": userID, "section": section})
}

func (r *responseRepo) list(ctx context.Context, filter bson.M) ([]*model.Response, error) {
	opts := options.Find().SetSort(bson.D{{Key: "section", Value: 1}, {Key: "questionIndex", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var responses []*model.Response
	if err = cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *responseRepo) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return err
		}
		oids = append(oids, oid)
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": oids}})
	return err
}

func (r *responseRepo) DeleteByProduct(ctx context.Context, productID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"productId": productID})
	return err
}

func (r *responseRepo) Update(ctx context.Context, resp *model.Response) error {
	oid, err := primitive.ObjectIDFromHex(resp.ID)
	if err != nil {
		return err
	}
	resp.UpdatedAt = time.Now().UTC()
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": resp})
	return err
}

func (r *responseRepo) CountByProductUser(ctx context.Context, productID, userID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"productId": productID, "userId": userID})
}

func (r *responseRepo) CountReviewed(ctx context.Context, productID, userID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"productId": productID, "userId": userID, "isReviewed": true})
}

func (r *responseRepo) CountNeedsClientResponse(ctx context.Context, productID, userID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"productId": productID, "userId": userID, "needsClientResponse": true})
}
