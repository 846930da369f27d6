package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/persistence"
)

// OrderRepository defines persistence access for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	// UpdateStatus sets status only while the order is in one of from (any
	// state when from is empty). A guard miss on an existing order returns
	// domain.ErrConflict.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, from ...domain.OrderStatus) (*domain.Order, error)
}

type orderRepository struct {
	coll *mongo.Collection
}

// NewOrderRepository returns a Mongo-backed implementation.
func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &orderRepository{coll: db.Collection(persistence.CollectionOrders)}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	now := time.Now().UTC()
	order.ID = uuid.NewString()
	order.CreatedAt = now
	order.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, order)
	return mapErr(err)
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return findOne[domain.Order](ctx, r.coll, bson.M{"_id": id})
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return findAll[domain.Order](ctx, r.coll, bson.M{"userId": userID}, options.Find().SetSort(newestFirst))
}

func (r *orderRepository) List(ctx context.Context) ([]domain.Order, error) {
	return findAll[domain.Order](ctx, r.coll, bson.M{}, options.Find().SetSort(newestFirst))
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, from ...domain.OrderStatus) (*domain.Order, error) {
	filter := bson.M{"_id": id}
	if len(from) > 0 {
		filter["status"] = bson.M{"$in": from}
	}

	var order domain.Order
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}}, returnAfter()).Decode(&order)
	if err == nil {
		return &order, nil
	}

	err = mapErr(err)
	if errors.Is(err, domain.ErrNotFound) && len(from) > 0 {
		if _, getErr := r.GetByID(ctx, id); getErr == nil {
			return nil, domain.ErrConflict
		}
	}
	return nil, err
}
