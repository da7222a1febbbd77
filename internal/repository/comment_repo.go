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

// CommentRepo handles MongoDB operations for review comments.
type CommentRepo interface {
	Create(ctx context.Context, c *model.ReviewComment) error
	GetByID(ctx context.Context, id string) (*model.ReviewComment, error)
	ListByResponseIDs(ctx context.Context, responseIDs []string) ([]*model.ReviewComment, error)
	ListThread(ctx context.Context, rootID string) ([]*model.ReviewComment, error)
	ListByClient(ctx context.Context, clientID string) ([]*model.ReviewComment, error)
	ListByLeadStatus(ctx context.Context, leadID string, status model.CommentStatus) ([]*model.ReviewComment, error)
	FindReply(ctx context.Context, parentID, authorField, authorID string, status model.CommentStatus) (*model.ReviewComment, error)
	CountUnreadForClient(ctx context.Context, clientID string) (int64, error)
	CountUnreadForLead(ctx context.Context, leadID string) (int64, error)
	MarkRead(ctx context.Context, ids []string) (int64, error)
	DeleteByProduct(ctx context.Context, productID string) error
}

type commentRepo struct {
	collection *mongo.Collection
}

// NewCommentRepo creates a comment repository over the given database.
func NewCommentRepo(db *mongo.Database) CommentRepo {
	return &commentRepo{collection: db.Collection("review_comments")}
}

func (r *commentRepo) Create(ctx context.Context, c *model.ReviewComment) error {
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, c)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid.Hex()
	}
	return nil
}

func (r *commentRepo) GetByID(ctx context.Context, id string) (*model.ReviewComment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var c model.ReviewComment
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepo) ListByResponseIDs(ctx context.Context, responseIDs []string) ([]*model.ReviewComment, error) {
	if len(responseIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx, bson.M{"responseId": bson.M{"$in": responseIDs}})
}

// ListThread returns the root comment plus its direct replies, oldest first.
func (r *commentRepo) ListThread(ctx context.Context, rootID string) ([]*model.ReviewComment, error) {
	oid, err := primitive.ObjectIDFromHex(rootID)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, bson.M{"$or": bson.A{
		bson.M{"_id": oid},
		bson.M{"parentCommentId": rootID},
	}})
}

func (r *commentRepo) ListByClient(ctx context.Context, clientID string) ([]*model.ReviewComment, error) {
	return r.list(ctx, bson.M{"clientId": clientID})
}

func (r *commentRepo) ListByLeadStatus(ctx context.Context, leadID string, status model.CommentStatus) ([]*model.ReviewComment, error) {
	return r.list(ctx, bson.M{"leadId": leadID, "status": status})
}

// FindReply looks up an existing reply of the given status under a parent by
// the given author. authorField is "clientId" or "leadId" depending on who is
// replying; used to enforce the one-outstanding-reply rule.
func (r *commentRepo) FindReply(ctx context.Context, parentID, authorField, authorID string, status model.CommentStatus) (*model.ReviewComment, error) {
	var c model.ReviewComment
	err := r.collection.FindOne(ctx, bson.M{
		"parentCommentId": parentID,
		authorField:       authorID,
		"status":          status,
	}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepo) CountUnreadForClient(ctx context.Context, clientID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"clientId": clientID,
		"isRead":   false,
		"status":   bson.M{"$in": model.ClientVisibleStatuses},
	})
}

func (r *commentRepo) CountUnreadForLead(ctx context.Context, leadID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"leadId": leadID,
		"isRead": false,
		"status": model.CommentClientReply,
	})
}

func (r *commentRepo) MarkRead(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return 0, err
		}
		oids = append(oids, oid)
	}
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": oids}},
		bson.M{"$set": bson.M{"isRead": true, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (r *commentRepo) DeleteByProduct(ctx context.Context, productID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"productId": productID})
	return err
}

func (r *commentRepo) list(ctx context.Context, filter bson.M) ([]*model.ReviewComment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []*model.ReviewComment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
