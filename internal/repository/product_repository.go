package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/persistence"
)

// ProductRepository defines persistence access for the catalog. Counters
// (likes, rating, stock) are only changed with atomic $inc updates.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	IncrementLikes(ctx context.Context, id string, delta int64) error
	AddRating(ctx context.Context, id string, ratingDelta, countDelta int64) error
	// ReserveStock decrements stock only if at least qty is available.
	ReserveStock(ctx context.Context, id string, qty int) error
	ReleaseStock(ctx context.Context, id string, qty int) error
}

type productRepository struct {
	coll *mongo.Collection
}

// NewProductRepository returns a Mongo-backed implementation.
func NewProductRepository(db *mongo.Database) ProductRepository {
	return &productRepository{coll: db.Collection(persistence.CollectionProducts)}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	now := time.Now().UTC()
	product.ID = uuid.NewString()
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.Images == nil {
		product.Images = []string{}
	}
	_, err := r.coll.InsertOne(ctx, product)
	return mapErr(err)
}

func (r *productRepository) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Stock != nil {
		set["stock"] = *patch.Stock
	}
	if patch.Images != nil {
		set["images"] = patch.Images
	}

	var product domain.Product
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, returnAfter()).Decode(&product); err != nil {
		return nil, mapErr(err)
	}
	product.ComputeRating()
	return &product, nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id)
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	product, err := findOne[domain.Product](ctx, r.coll, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	product.ComputeRating()
	return product, nil
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	products, err := findAll[domain.Product](ctx, r.coll, bson.M{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].ComputeRating()
	}
	return products, nil
}

func (r *productRepository) IncrementLikes(ctx context.Context, id string, delta int64) error {
	return r.inc(ctx, bson.M{"_id": id}, bson.M{"likesCount": delta})
}

func (r *productRepository) AddRating(ctx context.Context, id string, ratingDelta, countDelta int64) error {
	return r.inc(ctx, bson.M{"_id": id}, bson.M{"ratingTotal": ratingDelta, "ratingCount": countDelta})
}

func (r *productRepository) ReserveStock(ctx context.Context, id string, qty int) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}, "$set": bson.M{"updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

func (r *productRepository) ReleaseStock(ctx context.Context, id string, qty int) error {
	return r.inc(ctx, bson.M{"_id": id}, bson.M{"stock": qty})
}

func (r *productRepository) inc(ctx context.Context, filter bson.M, fields bson.M) error {
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$inc": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
