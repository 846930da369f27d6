package service

import (
	"context"
	"errors"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/cache"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/events"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/repository"
	apperrors "github.com/SoftEngMuhammadAli/shop-nexus/pkg/util"
)

// NewsletterService manages newsletter subscriptions.
type NewsletterService struct {
	subscribers repository.SubscriberRepository
	cache       *cache.Accessor
	ttl         cache.TTLPolicy
	dispatcher  events.Dispatcher
}

// NewNewsletterService constructs the service.
func NewNewsletterService(subscribers repository.SubscriberRepository, caching Caching, dispatcher events.Dispatcher) *NewsletterService {
	return &NewsletterService{subscribers: subscribers, cache: caching.accessor(), ttl: caching.TTL, dispatcher: dispatcher}
}

// Subscribe adds an e-mail. E-mails compare case-insensitively.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) (*domain.Subscriber, error) {
	sub, err := cache.WriteThrough(ctx, s.cache, func(ctx context.Context) (*domain.Subscriber, error) {
		sub := &domain.Subscriber{Email: normalizeEmail(email)}
		if err := s.subscribers.Create(ctx, sub); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return nil, apperrors.NewConflict("email already subscribed", map[string]any{"field": "email"})
			}
			return nil, translate(err, "subscriber")
		}
		return sub, nil
	}, func(*domain.Subscriber) []cache.Key { return cache.NewsletterWriteKeys() })
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventNewsletterSubscribed,
		SubjectID: sub.ID,
		Payload:   events.NewsletterSubscribedPayload{Email: sub.Email},
	})
	return sub, nil
}

// Unsubscribe removes an e-mail.
func (s *NewsletterService) Unsubscribe(ctx context.Context, email string) error {
	_, err := cache.WriteThrough(ctx, s.cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, translate(s.subscribers.DeleteByEmail(ctx, normalizeEmail(email)), "subscriber")
	}, func(struct{}) []cache.Key { return cache.NewsletterWriteKeys() })
	return err
}

// List returns all subscribers.
func (s *NewsletterService) List(ctx context.Context) ([]domain.Subscriber, error) {
	out, err := cache.ReadThrough(ctx, s.cache, cache.NewsletterAllKey, s.ttl.Aggregate, s.subscribers.List)
	return out, translate(err, "subscribers")
}
