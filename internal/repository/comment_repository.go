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

// CommentRepository defines persistence access for product comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	Delete(ctx context.Context, id string) error
	ListByProduct(ctx context.Context, productID string) ([]domain.Comment, error)
}

type commentRepository struct {
	coll *mongo.Collection
}

// NewCommentRepository returns a Mongo-backed implementation.
func NewCommentRepository(db *mongo.Database) CommentRepository {
	return &commentRepository{coll: db.Collection(persistence.CollectionComments)}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	comment.ID = uuid.NewString()
	comment.CreatedAt = time.Now().UTC()
	_, err := r.coll.InsertOne(ctx, comment)
	return mapErr(err)
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	return findOne[domain.Comment](ctx, r.coll, bson.M{"_id": id})
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id)
}

func (r *commentRepository) ListByProduct(ctx context.Context, productID string) ([]domain.Comment, error) {
	return findAll[domain.Comment](ctx, r.coll, bson.M{"productId": productID}, options.Find().SetSort(newestFirst))
}
