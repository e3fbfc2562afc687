package repositories

import (
	"context"

	"github.com/ghuser/auctionhouse/services/auction/domain/events"
)

// NotificationSink hands notification intents to the external notification
// service. Implementations must not block on delivery.
type NotificationSink interface {
	Emit(ctx context.Context, intent events.NotificationIntent) error
}

// EventPublisher publishes domain events for in-house consumers.
type EventPublisher interface {
	PublishBidPlaced(ctx context.Context, evt events.BidPlacedEvent) error
}

// Repositories groups stores bound to a single transaction. Notifications
// and Events are transactional: nothing is published unless the transaction commits.
type Repositories struct {
	Items         ItemRepository
	Bids          BidRepository
	Users         UserRepository
	Notifications NotificationSink
	Events        EventPublisher
}

// Store runs units of work atomically against the shared database.
type Store interface {
	// WithinTx runs fn in one transaction. Rows locked through
	// ItemRepository.GetByIDForUpdate stay locked until fn returns.
	// Isolation conflicts are reported as domain.ErrConcurrentModification.
	WithinTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
}
