package cache

import "time"

// Key is a cache key of the shape <resource>:<scope>. Build keys only
// through the helpers below so population and invalidation always agree.
type Key string

func (k Key) String() string { return string(k) }

// Collection-wide keys.
const (
	ProductsAllKey   Key = "products:all"
	ReviewsAllKey    Key = "reviews:all"
	OrdersAllKey     Key = "orders:all"
	BlogsAllKey      Key = "blogs:all"
	NewsletterAllKey Key = "newsletter:all"
	UsersAllKey      Key = "users:all"
)

func ProductKey(productID string) Key { return Key("product:" + productID) }

func CartKey(userID string) Key { return Key("cart:user:" + userID) }

func WishlistKey(userID string) Key { return Key("wishlist:user:" + userID) }

func ProductLikesKey(productID string) Key { return Key("likes:product:" + productID) }

func UserLikesKey(userID string) Key { return Key("likes:user:" + userID) }

func ProductCommentsKey(productID string) Key { return Key("comments:product:" + productID) }

func ProductReviewsKey(productID string) Key { return Key("reviews:product:" + productID) }

func OrderKey(orderID string) Key { return Key("order:" + orderID) }

func UserOrdersKey(userID string) Key { return Key("orders:user:" + userID) }

func BlogKey(blogID string) Key { return Key("blog:" + blogID) }

// Affected-key sets. Every write to a resource invalidates the full set
// returned here.

// ProductWriteKeys covers product create, update and delete.
func ProductWriteKeys(productID string) []Key {
	return []Key{ProductKey(productID), ProductsAllKey}
}

// ProductDeleteKeys covers product removal: the product keys, every list
// scoped to the product, and the like lists of the users who liked it.
func ProductDeleteKeys(productID string, likerIDs ...string) []Key {
	keys := append(ProductWriteKeys(productID),
		ProductLikesKey(productID),
		ProductCommentsKey(productID),
		ProductReviewsKey(productID),
	)
	for _, uid := range likerIDs {
		keys = append(keys, UserLikesKey(uid))
	}
	return keys
}

// LikeWriteKeys covers like and unlike. The product document carries the
// like count, so its keys are included.
func LikeWriteKeys(productID, userID string) []Key {
	return append([]Key{ProductLikesKey(productID), UserLikesKey(userID)}, ProductWriteKeys(productID)...)
}

// CommentWriteKeys covers comment create and delete.
func CommentWriteKeys(productID string) []Key {
	return []Key{ProductCommentsKey(productID)}
}

// ReviewWriteKeys covers review create and delete, which also move the
// product rating aggregate.
func ReviewWriteKeys(productID string) []Key {
	return append([]Key{ProductReviewsKey(productID), ReviewsAllKey}, ProductWriteKeys(productID)...)
}

// OrderWriteKeys covers status changes and cancellation.
func OrderWriteKeys(orderID, userID string) []Key {
	return []Key{OrderKey(orderID), UserOrdersKey(userID), OrdersAllKey}
}

// OrderPlacedKeys covers checkout: the order keys, the emptied cart and
// every purchased product whose stock changed.
func OrderPlacedKeys(orderID, userID string, productIDs ...string) []Key {
	keys := append(OrderWriteKeys(orderID, userID), CartKey(userID))
	for _, id := range productIDs {
		keys = append(keys, ProductWriteKeys(id)...)
	}
	return keys
}

// BlogWriteKeys covers blog create, update and delete.
func BlogWriteKeys(blogID string) []Key {
	return []Key{BlogKey(blogID), BlogsAllKey}
}

// NewsletterWriteKeys covers subscribe and unsubscribe.
func NewsletterWriteKeys() []Key {
	return []Key{NewsletterAllKey}
}

// UserWriteKeys covers registration, profile and role changes.
func UserWriteKeys() []Key {
	return []Key{UsersAllKey}
}

// TTLPolicy maps resource volatility classes to lifetimes.
type TTLPolicy struct {
	// Volatile is for per-user, frequently written resources.
	Volatile time.Duration
	// Standard is for shared catalog reads.
	Standard time.Duration
	// Aggregate is for rarely-changing admin listings.
	Aggregate time.Duration
}

// DefaultTTLPolicy matches the configuration defaults.
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{Volatile: 60 * time.Second, Standard: 300 * time.Second, Aggregate: time.Hour}
}

func dedupe(keys []Key) []Key {
	seen := make(map[Key]struct{}, len(keys))
	out := make([]Key, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
