package domain

import "time"

// Like records that a user liked a product. (userId, productId) is unique.
type Like struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	ProductID string    `bson:"productId" json:"productId"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// ProductLikes is the public like summary of a product.
type ProductLikes struct {
	ProductID string `json:"productId"`
	Count     int64  `json:"count"`
}
