package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/persistence"
)

// SubscriberRepository stores newsletter subscribers.
type SubscriberRepository interface {
	Create(ctx context.Context, sub *domain.Subscriber) error
	DeleteByEmail(ctx context.Context, email string) error
	List(ctx context.Context) ([]domain.Subscriber, error)
}

type subscriberRepository struct {
	coll *mongo.Collection
}

// NewSubscriberRepository returns a Mongo-backed implementation.
func NewSubscriberRepository(db *mongo.Database) SubscriberRepository {
	return &subscriberRepository{coll: db.Collection(persistence.CollectionSubscribers)}
}

func (r *subscriberRepository) Create(ctx context.Context, sub *domain.Subscriber) error {
	sub.ID = uuid.NewString()
	sub.Email = strings.ToLower(strings.TrimSpace(sub.Email))
	sub.CreatedAt = time.Now().UTC()
	_, err := r.coll.InsertOne(ctx, sub)
	return mapErr(err)
}

func (r *subscriberRepository) DeleteByEmail(ctx context.Context, email string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *subscriberRepository) List(ctx context.Context) ([]domain.Subscriber, error) {
	return findAll[domain.Subscriber](ctx, r.coll, bson.M{}, options.Find().SetSort(newestFirst))
}
