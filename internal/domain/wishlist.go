package domain

import "time"

// Wishlist is a per-user set of product ids.
type Wishlist struct {
	UserID     string    `bson:"_id" json:"userId"`
	ProductIDs []string  `bson:"productIds" json:"productIds"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// EmptyWishlist returns the zero wishlist for a user.
func EmptyWishlist(userID string) *Wishlist {
	return &Wishlist{UserID: userID, ProductIDs: []string{}}
}
