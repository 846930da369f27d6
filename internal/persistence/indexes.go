package persistence

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

type indexSpec struct {
	collection string
	model      mongo.IndexModel
}

// Unique indexes reject duplicate likes, reviews, subscriptions and
// accounts at the store.
func indexSpecs() []indexSpec {
	unique := func(keys bson.D) mongo.IndexModel {
		return mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true)}
	}
	plain := func(keys bson.D) mongo.IndexModel {
		return mongo.IndexModel{Keys: keys}
	}

	return []indexSpec{
		{CollectionUsers, unique(bson.D{{Key: "email", Value: 1}})},
		{CollectionLikes, unique(bson.D{{Key: "userId", Value: 1}, {Key: "productId", Value: 1}})},
		{CollectionLikes, plain(bson.D{{Key: "productId", Value: 1}})},
		{CollectionReviews, unique(bson.D{{Key: "userId", Value: 1}, {Key: "productId", Value: 1}})},
		{CollectionReviews, plain(bson.D{{Key: "productId", Value: 1}, {Key: "createdAt", Value: -1}})},
		{CollectionComments, plain(bson.D{{Key: "productId", Value: 1}, {Key: "createdAt", Value: -1}})},
		{CollectionOrders, plain(bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}})},
		{CollectionSubscribers, unique(bson.D{{Key: "email", Value: 1}})},
	}
}

// EnsureIndexes creates the indexes the repositories rely on. It is
// idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if db == nil {
		logger.Warn("no mongo database available; skipping index creation")
		return nil
	}

	specs := indexSpecs()
	for _, ix := range specs {
		name, err := db.Collection(ix.collection).Indexes().CreateOne(ctx, ix.model)
		if err != nil {
			return fmt.Errorf("create index on %s: %w", ix.collection, err)
		}
		logger.Debug("index ensured", zap.String("collection", ix.collection), zap.String("index", name))
	}

	logger.Info("indexes ensured", zap.Int("count", len(specs)))
	return nil
}
