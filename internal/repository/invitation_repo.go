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

// InvitationRepo handles MongoDB operations for invitation tokens.
type InvitationRepo interface {
	Create(ctx context.Context, inv *model.Invitation) error
	GetByID(ctx context.Context, id string) (*model.Invitation, error)
	GetByToken(ctx context.Context, token string) (*model.Invitation, error)
	GetPendingByEmail(ctx context.Context, email string) (*model.Invitation, error)
	Update(ctx context.Context, inv *model.Invitation) error
	ListPending(ctx context.Context) ([]*model.Invitation, error)
}

type invitationRepo struct {
	collection *mongo.Collection
}

// NewInvitationRepo creates an invitation repository over the given database.
func NewInvitationRepo(db *mongo.Database) InvitationRepo {
	return &invitationRepo{collection: db.Collection("invitation_tokens")}
}

func (r *invitationRepo) Create(ctx context.Context, inv *model.Invitation) error {
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}
	result, err := r.collection.InsertOne(ctx, inv)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		inv.ID = oid.Hex()
	}
	return nil
}

func (r *invitationRepo) GetByID(ctx context.Context, id string) (*model.Invitation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *invitationRepo) GetByToken(ctx context.Context, token string) (*model.Invitation, error) {
	return r.findOne(ctx, bson.M{"token": token, "isUsed": false})
}

func (r *invitationRepo) GetPendingByEmail(ctx context.Context, email string) (*model.Invitation, error) {
	return r.findOne(ctx, bson.M{"email": email, "isUsed": false})
}

func (r *invitationRepo) findOne(ctx context.Context, filter bson.M) (*model.Invitation, error) {
	var inv model.Invitation
	err := r.collection.FindOne(ctx, filter).Decode(&inv)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invitationRepo) Update(ctx context.Context, inv *model.Invitation) error {
	oid, err := primitive.ObjectIDFromHex(inv.ID)
	if err != nil {
		return err
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": inv})
	return err
}

func (r *invitationRepo) ListPending(ctx context.Context) ([]*model.Invitation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"isUsed": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var invitations []*model.Invitation
	if err = cursor.All(ctx, &invitations); err != nil {
		return nil, err
	}
	return invitations, nil
}
