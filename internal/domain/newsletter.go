package domain

import "time"

// Subscriber is a newsletter e-mail. Emails are unique and stored lowercased.
type Subscriber struct {
	ID        string    `bson:"_id" json:"id"`
	Email     string    `bson:"email" json:"email"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
