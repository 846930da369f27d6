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

// WishlistRepository stores one wishlist document per user.
type WishlistRepository interface {
	Get(ctx context.Context, userID string) (*domain.Wishlist, error)
	Add(ctx context.Context, userID, productID string) (*domain.Wishlist, error)
	Remove(ctx context.Context, userID, productID string) (*domain.Wishlist, error)
}

type wishlistRepository struct {
	coll *mongo.Collection
}

// NewWishlistRepository returns a Mongo-backed implementation.
func NewWishlistRepository(db *mongo.Database) WishlistRepository {
	return &wishlistRepository{coll: db.Collection(persistence.CollectionWishlists)}
}

func (r *wishlistRepository) Get(ctx context.Context, userID string) (*domain.Wishlist, error) {
	wl, err := findOne[domain.Wishlist](ctx, r.coll, bson.M{"_id": userID})
	if errors.Is(err, domain.ErrNotFound) {
		return domain.EmptyWishlist(userID), nil
	}
	if err != nil {
		return nil, err
	}
	normalizeWishlist(wl)
	return wl, nil
}

func (r *wishlistRepository) Add(ctx context.Context, userID, productID string) (*domain.Wishlist, error) {
	return r.update(ctx, bson.M{"_id": userID}, bson.M{
		"$addToSet": bson.M{"productIds": productID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}, true)
}

func (r *wishlistRepository) Remove(ctx context.Context, userID, productID string) (*domain.Wishlist, error) {
	return r.update(ctx, bson.M{"_id": userID, "productIds": productID}, bson.M{
		"$pull": bson.M{"productIds": productID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}, false)
}

func (r *wishlistRepository) update(ctx context.Context, filter, update bson.M, upsert bool) (*domain.Wishlist, error) {
	var wl domain.Wishlist
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, returnAfter().SetUpsert(upsert)).Decode(&wl); err != nil {
		return nil, mapErr(err)
	}
	normalizeWishlist(&wl)
	return &wl, nil
}

func normalizeWishlist(wl *domain.Wishlist) {
	if wl.ProductIDs == nil {
		wl.ProductIDs = []string{}
	}
}
