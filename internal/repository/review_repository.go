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

// ReviewRepository defines persistence access for reviews. A second review
// of the same product by the same user fails with domain.ErrDuplicate.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	Delete(ctx context.Context, id string) error
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)
	List(ctx context.Context) ([]domain.Review, error)
}

type reviewRepository struct {
	coll *mongo.Collection
}

// NewReviewRepository returns a Mongo-backed implementation.
func NewReviewRepository(db *mongo.Database) ReviewRepository {
	return &reviewRepository{coll: db.Collection(persistence.CollectionReviews)}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	review.ID = uuid.NewString()
	review.CreatedAt = time.Now().UTC()
	_, err := r.coll.InsertOne(ctx, review)
	return mapErr(err)
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	return findOne[domain.Review](ctx, r.coll, bson.M{"_id": id})
}

func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id)
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	return findAll[domain.Review](ctx, r.coll, bson.M{"productId": productID}, options.Find().SetSort(newestFirst))
}

func (r *reviewRepository) List(ctx context.Context) ([]domain.Review, error) {
	return findAll[domain.Review](ctx, r.coll, bson.M{}, options.Find().SetSort(newestFirst))
}
