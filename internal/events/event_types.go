package events

import (
	"time"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderPlaced          EventType = "order_placed"
	EventOrderStatusChanged   EventType = "order_status_changed"
	EventReviewPosted         EventType = "review_posted"
	EventNewsletterSubscribed EventType = "newsletter_subscribed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SubjectID string    `json:"subject_id"`
	ActorID   string    `json:"actor_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// OrderPlacedPayload payload.
type OrderPlacedPayload struct {
	UserID string  `json:"user_id"`
	Items  int     `json:"items"`
	Total  float64 `json:"total"`
}

// OrderStatusChangedPayload payload.
type OrderStatusChangedPayload struct {
	UserID    string             `json:"user_id"`
	OldStatus domain.OrderStatus `json:"old_status"`
	NewStatus domain.OrderStatus `json:"new_status"`
}

// ReviewPostedPayload payload.
type ReviewPostedPayload struct {
	ProductID string `json:"product_id"`
	Rating    int    `json:"rating"`
}

// NewsletterSubscribedPayload payload.
type NewsletterSubscribedPayload struct {
	Email string `json:"email"`
}
