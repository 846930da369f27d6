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

// LikeRepository stores like edges. A second like by the same user fails
// with domain.ErrDuplicate via the unique (userId, productId) index.
type LikeRepository interface {
	Create(ctx context.Context, like *domain.Like) error
	Delete(ctx context.Context, userID, productID string) error
	ListByUser(ctx context.Context, userID string) ([]domain.Like, error)
	// DeleteByProduct removes every like on a product and returns the ids
	// of the users who had liked it.
	DeleteByProduct(ctx context.Context, productID string) ([]string, error)
}

type likeRepository struct {
	coll *mongo.Collection
}

// NewLikeRepository returns a Mongo-backed implementation.
func NewLikeRepository(db *mongo.Database) LikeRepository {
	return &likeRepository{coll: db.Collection(persistence.CollectionLikes)}
}

func (r *likeRepository) Create(ctx context.Context, like *domain.Like) error {
	like.ID = uuid.NewString()
	like.CreatedAt = time.Now().UTC()
	_, err := r.coll.InsertOne(ctx, like)
	return mapErr(err)
}

func (r *likeRepository) Delete(ctx context.Context, userID, productID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"userId": userID, "productId": productID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *likeRepository) ListByUser(ctx context.Context, userID string) ([]domain.Like, error) {
	return findAll[domain.Like](ctx, r.coll, bson.M{"userId": userID}, options.Find().SetSort(newestFirst))
}

func (r *likeRepository) DeleteByProduct(ctx context.Context, productID string) ([]string, error) {
	filter := bson.M{"productId": productID}
	likes, err := findAll[domain.Like](ctx, r.coll, filter, options.Find().SetProjection(bson.M{"userId": 1}))
	if err != nil {
		return nil, err
	}
	if _, err := r.coll.DeleteMany(ctx, filter); err != nil {
		return nil, err
	}
	userIDs := make([]string, 0, len(likes))
	for _, l := range likes {
		userIDs = append(userIDs, l.UserID)
	}
	return userIDs, nil
}
