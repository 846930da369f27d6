package domain

import "time"

// Comment is a free-form remark on a product.
type Comment struct {
	ID        string    `bson:"_id" json:"id"`
	ProductID string    `bson:"productId" json:"productId"`
	UserID    string    `bson:"userId" json:"userId"`
	UserName  string    `bson:"userName" json:"userName"`
	Body      string    `bson:"body" json:"body"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
