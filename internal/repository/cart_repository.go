package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/persistence"
)

// CartRepository stores one cart document per user, keyed by user id.
// Every mutation is a single-document atomic update and returns the cart
// as it is after the write.
type CartRepository interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID string, item domain.CartItem) (*domain.Cart, error)
	SetQuantity(ctx context.Context, userID, productID string, qty int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error)
	Clear(ctx context.Context, userID string) (*domain.Cart, error)
}

type cartRepository struct {
	coll *mongo.Collection
}

// NewCartRepository returns a Mongo-backed implementation.
func NewCartRepository(db *mongo.Database) CartRepository {
	return &cartRepository{coll: db.Collection(persistence.CollectionCarts)}
}

func (r *cartRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := findOne[domain.Cart](ctx, r.coll, bson.M{"_id": userID})
	if errors.Is(err, domain.ErrNotFound) {
		return domain.EmptyCart(userID), nil
	}
	if err != nil {
		return nil, err
	}
	normalizeCart(cart)
	return cart, nil
}

func (r *cartRepository) AddItem(ctx context.Context, userID string, item domain.CartItem) (*domain.Cart, error) {
	now := time.Now().UTC()
	increment := func() (*domain.Cart, error) {
		return r.update(ctx,
			bson.M{"_id": userID, "items.productId": item.ProductID},
			bson.M{"$inc": bson.M{"items.$.quantity": item.Quantity}, "$set": bson.M{"updatedAt": now}},
			false,
		)
	}

	cart, err := increment()
	if !errors.Is(err, domain.ErrNotFound) {
		return cart, err
	}

	cart, err = r.update(ctx,
		bson.M{"_id": userID, "items.productId": bson.M{"$ne": item.ProductID}},
		bson.M{"$push": bson.M{"items": item}, "$set": bson.M{"updatedAt": now}},
		true,
	)
	// A concurrent add inserted the line between the two updates; the
	// upsert then collides on _id.
	if errors.Is(err, domain.ErrDuplicate) {
		return increment()
	}
	return cart, err
}

func (r *cartRepository) SetQuantity(ctx context.Context, userID, productID string, qty int) (*domain.Cart, error) {
	return r.update(ctx,
		bson.M{"_id": userID, "items.productId": productID},
		bson.M{"$set": bson.M{"items.$.quantity": qty, "updatedAt": time.Now().UTC()}},
		false,
	)
}

func (r *cartRepository) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	return r.update(ctx,
		bson.M{"_id": userID, "items.productId": productID},
		bson.M{"$pull": bson.M{"items": bson.M{"productId": productID}}, "$set": bson.M{"updatedAt": time.Now().UTC()}},
		false,
	)
}

func (r *cartRepository) Clear(ctx context.Context, userID string) (*domain.Cart, error) {
	return r.update(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"items": bson.A{}, "updatedAt": time.Now().UTC()}},
		true,
	)
}

func (r *cartRepository) update(ctx context.Context, filter, update bson.M, upsert bool) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.coll.FindOneAndUpdate(ctx, filter, update, returnAfter().SetUpsert(upsert)).Decode(&cart)
	if err != nil {
		return nil, mapErr(err)
	}
	normalizeCart(&cart)
	return &cart, nil
}

func normalizeCart(cart *domain.Cart) {
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
}
