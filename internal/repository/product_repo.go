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

// ProductRepo handles MongoDB operations for products.
type ProductRepo interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id string) (*model.Product, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Product, error)
	List(ctx context.Context) ([]*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error
}

type productRepo struct {
	collection *mongo.Collection
}

// NewProductRepo creates a product repository over the given database.
func NewProductRepo(db *mongo.Database) ProductRepo {
	return &productRepo{collection: db.Collection("products")}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	product.IsActive = true

	result, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid.Hex()
	}
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*model.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var product model.Product
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Product, error) {
	return r.list(ctx, bson.M{"ownerId": ownerID})
}

func (r *productRepo) List(ctx context.Context) ([]*model.Product, error) {
	return r.list(ctx, bson.M{})
}

func (r *productRepo) list(ctx context.Context, filter bson.M) ([]*model.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []*model.Product
	if err = cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	oid, err := primitive.ObjectIDFromHex(product.ID)
	if err != nil {
		return err
	}
	product.UpdatedAt = time.Now().UTC()
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": product})
	return err
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
