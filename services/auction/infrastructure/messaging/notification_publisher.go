package messaging

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/auctionhouse/services/auction/domain/events"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
)

// Publisher is the publishing half of *events.EventBus.
type Publisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// NotificationPublisher sends intents straight to the bus, without a
// transaction. Used for notifications that follow an already committed change.
type NotificationPublisher struct {
	bus Publisher
}

// NewNotificationPublisher returns a NotificationPublisher on bus.
func NewNotificationPublisher(bus Publisher) *NotificationPublisher {
	return &NotificationPublisher{bus: bus}
}

// Emit publishes intent on TopicNotificationCreate.
func (p *NotificationPublisher) Emit(ctx context.Context, intent events.NotificationIntent) error {
	msg, err := NewNotificationMessage(intent)
	if err != nil {
		return err
	}
	return p.bus.Publish(ctx, events.TopicNotificationCreate, msg)
}

var _ repositories.NotificationSink = (*NotificationPublisher)(nil)
