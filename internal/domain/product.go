package domain

import "time"

// Product is a catalog entry.
type Product struct {
	ID            string    `bson:"_id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Description   string    `bson:"description" json:"description"`
	Category      string    `bson:"category" json:"category"`
	Price         float64   `bson:"price" json:"price"`
	Stock         int       `bson:"stock" json:"stock"`
	Images        []string  `bson:"images" json:"images"`
	LikesCount    int64     `bson:"likesCount" json:"likesCount"`
	RatingTotal   int64     `bson:"ratingTotal" json:"-"`
	RatingCount   int64     `bson:"ratingCount" json:"ratingCount"`
	RatingAverage float64   `bson:"-" json:"ratingAverage"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ComputeRating fills RatingAverage from the stored aggregate.
func (p *Product) ComputeRating() {
	if p.RatingCount == 0 {
		p.RatingAverage = 0
		return
	}
	p.RatingAverage = float64(p.RatingTotal) / float64(p.RatingCount)
}

// ProductPatch holds optional product updates.
type ProductPatch struct {
	Name        *string
	Description *string
	Category    *string
	Price       *float64
	Stock       *int
	Images      []string
}
