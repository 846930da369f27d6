package domain

import "time"

// Blog is an editorial post.
type Blog struct {
	ID        string    `bson:"_id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Body      string    `bson:"body" json:"body"`
	Author    string    `bson:"author" json:"author"`
	Tags      []string  `bson:"tags" json:"tags"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BlogPatch holds optional blog updates.
type BlogPatch struct {
	Title *string
	Body  *string
	Tags  []string
}
