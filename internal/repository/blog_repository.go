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

// BlogRepository defines persistence access for blog posts.
type BlogRepository interface {
	Create(ctx context.Context, blog *domain.Blog) error
	Update(ctx context.Context, id string, patch domain.BlogPatch) (*domain.Blog, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Blog, error)
	List(ctx context.Context) ([]domain.Blog, error)
}

type blogRepository struct {
	coll *mongo.Collection
}

// NewBlogRepository returns a Mongo-backed implementation.
func NewBlogRepository(db *mongo.Database) BlogRepository {
	return &blogRepository{coll: db.Collection(persistence.CollectionBlogs)}
}

func (r *blogRepository) Create(ctx context.Context, blog *domain.Blog) error {
	now := time.Now().UTC()
	blog.ID = uuid.NewString()
	blog.CreatedAt = now
	blog.UpdatedAt = now
	if blog.Tags == nil {
		blog.Tags = []string{}
	}
	_, err := r.coll.InsertOne(ctx, blog)
	return mapErr(err)
}

func (r *blogRepository) Update(ctx context.Context, id string, patch domain.BlogPatch) (*domain.Blog, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Body != nil {
		set["body"] = *patch.Body
	}
	if patch.Tags != nil {
		set["tags"] = patch.Tags
	}

	var blog domain.Blog
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, returnAfter()).Decode(&blog); err != nil {
		return nil, mapErr(err)
	}
	return &blog, nil
}

func (r *blogRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id)
}

func (r *blogRepository) GetByID(ctx context.Context, id string) (*domain.Blog, error) {
	return findOne[domain.Blog](ctx, r.coll, bson.M{"_id": id})
}

func (r *blogRepository) List(ctx context.Context) ([]domain.Blog, error) {
	return findAll[domain.Blog](ctx, r.coll, bson.M{}, options.Find().SetSort(newestFirst))
}
