package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicNotificationCreate is the Watermill topic consumed by the external
// notification service. The core only publishes intents; delivery is not its concern.
const TopicNotificationCreate = "notification.create"

// EventCode identifies the kind of notification a user should receive.
type EventCode string

// Notification event codes understood by the notification service.
const (
	EventCodeBidNotification EventCode = "BID_NOTIFICATION"
	EventCodeAuctionWon      EventCode = "AUCTION_WON"
	EventCodeUserRegistered  EventCode = "USER_REGISTERED"
)

// NotificationIntent asks the notification service to notify TargetUserID.
// Params is a free-form payload interpreted per EventCode.
type NotificationIntent struct {
	EventID      uuid.UUID      `json:"event_id"` // Unique publish-time identifier for deduplication
	TargetUserID uuid.UUID      `json:"target_user_id"`
	EventCode    EventCode      `json:"event_code"`
	Params       map[string]any `json:"params"`
	OccurredAt   time.Time      `json:"occurred_at"`
}

// NewNotificationIntent builds an intent with a fresh EventID.
func NewNotificationIntent(target uuid.UUID, code EventCode, params map[string]any, now time.Time) NotificationIntent {
	if params == nil {
		params = map[string]any{}
	}
	return NotificationIntent{
		EventID:      uuid.New(),
		TargetUserID: target,
		EventCode:    code,
		Params:       params,
		OccurredAt:   now.UTC(),
	}
}
