package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/cache"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/events"
	apperrors "github.com/SoftEngMuhammadAli/shop-nexus/pkg/util"
)

// Caching bundles the cache accessor and the TTL classes used by services.
type Caching struct {
	Accessor *cache.Accessor
	TTL      cache.TTLPolicy
}

func (c Caching) accessor() *cache.Accessor {
	if c.Accessor == nil {
		return cache.NewAccessor(cache.NoopStore{}, cache.Options{NotFound: domain.ErrNotFound})
	}
	return c.Accessor
}

// translate maps store sentinels onto client-facing errors. Errors that are
// already DomainErrors pass through unchanged.
func translate(err error, resource string) error {
	var de *apperrors.DomainError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &de):
		return err
	case errors.Is(err, domain.ErrNotFound):
		return apperrors.NewNotFound(resource, nil)
	case errors.Is(err, domain.ErrDuplicate):
		return apperrors.NewConflict(resource+" already exists", nil)
	case errors.Is(err, domain.ErrInsufficientStock):
		return apperrors.NewConflict("insufficient stock", nil)
	case errors.Is(err, domain.ErrConflict):
		return apperrors.NewConflict(resource+" is not in a state that allows this change", nil)
	default:
		return apperrors.NewInternalError(err)
	}
}

func forbidden(message string) error {
	return apperrors.NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func publish(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_ = dispatcher.Publish(ctx, event)
}
