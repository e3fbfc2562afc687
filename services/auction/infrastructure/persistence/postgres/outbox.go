package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	pkgevents "github.com/ghuser/auctionhouse/pkg/events"
	"github.com/ghuser/auctionhouse/services/auction/domain/events"
	"github.com/ghuser/auctionhouse/services/auction/infrastructure/messaging"
)

var errNoOutbox = errors.New("outbox publisher not configured")

// outbox writes messages into the transaction's Watermill tables, so they are
// delivered only if the transaction commits.
type outbox struct {
	tx      *sql.Tx
	factory TxPublisherFactory
	pub     message.Publisher
}

func (o *outbox) publisher() (message.Publisher, error) {
	if o.pub != nil {
		return o.pub, nil
	}
	if o.factory == nil {
		return nil, errNoOutbox
	}
	p, err := o.factory(o.tx)
	if err != nil {
		return nil, fmt.Errorf("create tx publisher: %w", err)
	}
	o.pub = p
	return p, nil
}

func (o *outbox) publish(ctx context.Context, topic string, msg *message.Message) error {
	p, err := o.publisher()
	if err != nil {
		return err
	}
	pkgevents.InjectTrace(ctx, msg)
	if err := p.Publish(topic, msg); err != nil {
		return fmt.Errorf("outbox publish to %s: %w", topic, err)
	}
	return nil
}

// Emit implements repositories.NotificationSink.
func (o *outbox) Emit(ctx context.Context, intent events.NotificationIntent) error {
	msg, err := messaging.NewNotificationMessage(intent)
	if err != nil {
		return err
	}
	return o.publish(ctx, events.TopicNotificationCreate, msg)
}

// PublishBidPlaced implements repositories.EventPublisher.
func (o *outbox) PublishBidPlaced(ctx context.Context, evt events.BidPlacedEvent) error {
	msg, err := messaging.NewBidPlacedMessage(evt)
	if err != nil {
		return err
	}
	return o.publish(ctx, events.TopicBidPlaced, msg)
}
