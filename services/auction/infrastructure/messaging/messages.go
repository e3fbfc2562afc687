// Package messaging encodes auction events as Watermill messages and
// publishes notification intents outside of any database transaction.
package messaging

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/auctionhouse/services/auction/domain/events"
)

// Metadata keys set on every message.
const (
	MetadataEventID      = "event_id"
	MetadataEventVersion = "event_version"
	MetadataEventCode    = "event_code"
)

// NewNotificationMessage encodes a notification intent for TopicNotificationCreate.
func NewNotificationMessage(intent events.NotificationIntent) (*message.Message, error) {
	payload, err := json.Marshal(intent)
	if err != nil {
		return nil, fmt.Errorf("marshal notification intent: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(MetadataEventID, intent.EventID.String())
	msg.Metadata.Set(MetadataEventVersion, "1")
	msg.Metadata.Set(MetadataEventCode, string(intent.EventCode))
	return msg, nil
}

// NewBidPlacedMessage encodes a bid-placed event for TopicBidPlaced.
func NewBidPlacedMessage(evt events.BidPlacedEvent) (*message.Message, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("marshal bid placed event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(MetadataEventID, evt.EventID.String())
	msg.Metadata.Set(MetadataEventVersion, strconv.Itoa(evt.Version))
	return msg, nil
}

// DecodeBidPlaced parses a message produced by NewBidPlacedMessage.
func DecodeBidPlaced(msg *message.Message) (events.BidPlacedEvent, error) {
	var evt events.BidPlacedEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return evt, fmt.Errorf("unmarshal bid placed event: %w", err)
	}
	return evt, nil
}
