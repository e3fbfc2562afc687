// Package memory is an in-process implementation of the auction repositories.
// Transactions are serialized by a single mutex and run against a copy of the
// state that replaces the live state only on commit, so a failed unit of work
// leaves no trace. It backs service tests and local runs without PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/services/auction/domain/events"
	"github.com/ghuser/auctionhouse/services/auction/domain/models"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
)

type state struct {
	items map[uuid.UUID]models.Item
	bids  []models.Bid
	users map[uuid.UUID]models.User
}

func (s *state) clone() *state {
	c := &state{
		items: make(map[uuid.UUID]models.Item, len(s.items)),
		bids:  make([]models.Bid, len(s.bids)),
		users: s.users, // read-only here
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	copy(c.bids, s.bids)
	return c
}

// unit collects the writes of one transaction (or one autocommit call).
type unit struct {
	st        *state
	intents   []events.NotificationIntent
	bidPlaced []events.BidPlacedEvent
}

// Store is a mutex-guarded, in-memory repositories.Store.
type Store struct {
	mu        sync.Mutex
	st        *state
	intents   []events.NotificationIntent
	bidPlaced []events.BidPlacedEvent
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{st: &state{
		items: map[uuid.UUID]models.Item{},
		users: map[uuid.UUID]models.User{},
	}}
}

// AddUser registers an account so it can own items and place bids.
func (s *Store) AddUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.users[u.ID] = u
}

// WithinTx runs fn with exclusive access to a private copy of the state.
// The copy and any emitted intents or events are published only when fn returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, r repositories.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u := &unit{st: s.st.clone()}
	if err := fn(ctx, u.repositories()); err != nil {
		return err
	}
	s.st = u.st
	s.intents = append(s.intents, u.intents...)
	s.bidPlaced = append(s.bidPlaced, u.bidPlaced...)
	return nil
}

// autocommit runs a single repository call directly against the live state.
func (s *Store) autocommit(fn func(u *unit) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &unit{st: s.st}
	if err := fn(u); err != nil {
		return err
	}
	s.intents = append(s.intents, u.intents...)
	s.bidPlaced = append(s.bidPlaced, u.bidPlaced...)
	return nil
}

// Items returns a non-transactional item repository.
func (s *Store) Items() repositories.ItemRepository { return &autoItems{s: s} }

// Bids returns a non-transactional bid repository.
func (s *Store) Bids() repositories.BidRepository { return &autoBids{s: s} }

// Users returns the user repository.
func (s *Store) Users() repositories.UserRepository { return &autoUsers{s: s} }

// Statistics returns the statistics repository.
func (s *Store) Statistics() repositories.StatisticsRepository { return &statisticsRepo{s: s} }

// Emitted returns the committed notification intents in emission order.
func (s *Store) Emitted() []events.NotificationIntent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]events.NotificationIntent, len(s.intents))
	copy(out, s.intents)
	return out
}

// BidPlacedEvents returns the committed bid-placed domain events.
func (s *Store) BidPlacedEvents() []events.BidPlacedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]events.BidPlacedEvent, len(s.bidPlaced))
	copy(out, s.bidPlaced)
	return out
}

func (u *unit) repositories() repositories.Repositories {
	return repositories.Repositories{
		Items:         &itemRepo{u: u},
		Bids:          &bidRepo{u: u},
		Users:         &userRepo{u: u},
		Notifications: &outbox{u: u},
		Events:        &outbox{u: u},
	}
}

type outbox struct{ u *unit }

func (o *outbox) Emit(_ context.Context, intent events.NotificationIntent) error {
	o.u.intents = append(o.u.intents, intent)
	return nil
}

func (o *outbox) PublishBidPlaced(_ context.Context, evt events.BidPlacedEvent) error {
	o.u.bidPlaced = append(o.u.bidPlaced, evt)
	return nil
}

var (
	_ repositories.Store            = (*Store)(nil)
	_ repositories.NotificationSink = (*outbox)(nil)
	_ repositories.EventPublisher   = (*outbox)(nil)
)
