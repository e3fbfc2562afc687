package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// ItemCacheTTL is the time-to-live for cached items. Entries are also
	// invalidated whenever a bid is accepted or the item is edited.
	ItemCacheTTL = 10 * time.Minute

	itemCacheKeyPrefix = "auction:item"

	// generationTTL outlives any read-then-write that could race an invalidation.
	generationTTL = ItemCacheTTL
)

// CachedBid is one bid in the cached item view.
type CachedBid struct {
	ID         uuid.UUID `json:"id"`
	BidderID   uuid.UUID `json:"bidder_id"`
	BidderName string    `json:"bidder_name,omitempty"`
	Price      string    `json:"price"`
	CreatedAt  time.Time `json:"created_at"`
}

// CachedItem is the denormalized item view stored in Redis: the item, the
// names of its owner and winner, and its bids newest first.
// Prices are decimal strings so no precision is lost.
type CachedItem struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	StartingPrice string      `json:"starting_price"`
	StartTime     time.Time   `json:"start_time"`
	EndTime       time.Time   `json:"end_time"`
	OwnerID       uuid.UUID   `json:"owner_id"`
	OwnerName     string      `json:"owner_name"`
	WinnerID      string      `json:"winner_id"`   // empty when no bid yet
	WinnerName    string      `json:"winner_name"` // empty when no bid yet
	FinalPrice    string      `json:"final_price"` // empty when no bid yet
	Notified      bool        `json:"notified"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	Bids          []CachedBid `json:"bids"`
}

// ItemCache provides structured read/write operations for item cache entries.
// Key format: "auction:item:{itemID}", with the invalidation counter under
// "auction:item:{itemID}:gen".
type ItemCache struct {
	client *RedisClient
}

// NewItemCache creates a new ItemCache backed by the given RedisClient.
func NewItemCache(r *RedisClient) *ItemCache {
	return &ItemCache{client: r}
}

// Get retrieves a cached item by ID.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *ItemCache) Get(ctx context.Context, itemID uuid.UUID) (*CachedItem, error) {
	vals, err := c.client.Client().HGetAll(ctx, c.key(itemID)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil // key not found
	}
	return decodeItem(vals)
}

// setIfGeneration replaces the hash only while the item's generation still
// equals ARGV[1]. KEYS: item hash, generation counter. ARGV: generation, TTL
// seconds, then the field/value pairs.
var setIfGeneration = redis.NewScript(`
if (redis.call('GET', KEYS[2]) or '0') ~= ARGV[1] then
	return 0
end
redis.call('DEL', KEYS[1])
redis.call('HSET', KEYS[1], unpack(ARGV, 3))
redis.call('EXPIRE', KEYS[1], ARGV[2])
return 1
`)

// Generation returns the item's invalidation counter, 0 if it was never
// invalidated. Read it before loading the item from the database and pass it
// to Set.
func (c *ItemCache) Generation(ctx context.Context, itemID uuid.UUID) (int64, error) {
	n, err := c.client.Client().Get(ctx, c.generationKey(itemID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache generation: %w", err)
	}
	return n, nil
}

// Set writes a cached item as a Redis hash with ItemCacheTTL, unless the item
// was invalidated after generation was read. A skipped write is not an error.
func (c *ItemCache) Set(ctx context.Context, item *CachedItem, generation int64) error {
	args, err := itemArgs(item)
	if err != nil {
		return err
	}
	args = append([]any{generation, int64(ItemCacheTTL / time.Second)}, args...)
	keys := []string{c.key(item.ID), c.generationKey(item.ID)}
	if err := setIfGeneration.Run(ctx, c.client.Client(), keys, args...).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached item and bumps its generation so that writes
// prepared from earlier reads are dropped.
func (c *ItemCache) Delete(ctx context.Context, itemID uuid.UUID) error {
	gen := c.generationKey(itemID)
	pipe := c.client.Client().TxPipeline()
	pipe.Del(ctx, c.key(itemID))
	pipe.Incr(ctx, gen)
	pipe.Expire(ctx, gen, generationTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

func itemArgs(item *CachedItem) ([]any, error) {
	bids, err := json.Marshal(item.Bids)
	if err != nil {
		return nil, fmt.Errorf("cache encode bids: %w", err)
	}
	return []any{
		"id", item.ID.String(),
		"name", item.Name,
		"description", item.Description,
		"starting_price", item.StartingPrice,
		"start_time", item.StartTime.UTC().Format(time.RFC3339Nano),
		"end_time", item.EndTime.UTC().Format(time.RFC3339Nano),
		"owner_id", item.OwnerID.String(),
		"owner_name", item.OwnerName,
		"winner_id", item.WinnerID,
		"winner_name", item.WinnerName,
		"final_price", item.FinalPrice,
		"notified", strconv.FormatBool(item.Notified),
		"created_at", item.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at", item.UpdatedAt.UTC().Format(time.RFC3339Nano),
		"bids", string(bids),
	}, nil
}

func (c *ItemCache) generationKey(itemID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:gen", itemCacheKeyPrefix, itemID)
}

// key builds the Redis key: "auction:item:{itemID}"
func (c *ItemCache) key(itemID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", itemCacheKeyPrefix, itemID)
}

func decodeItem(vals map[string]string) (*CachedItem, error) {
	item := &CachedItem{
		Name:          vals["name"],
		Description:   vals["description"],
		StartingPrice: vals["starting_price"],
		OwnerName:     vals["owner_name"],
		WinnerID:      vals["winner_id"],
		WinnerName:    vals["winner_name"],
		FinalPrice:    vals["final_price"],
		Notified:      vals["notified"] == "true",
	}

	var err error
	if item.ID, err = uuid.Parse(vals["id"]); err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	if item.OwnerID, err = uuid.Parse(vals["owner_id"]); err != nil {
		return nil, fmt.Errorf("cache parse owner_id: %w", err)
	}

	times := []struct {
		field string
		dst   *time.Time
	}{
		{"start_time", &item.StartTime},
		{"end_time", &item.EndTime},
		{"created_at", &item.CreatedAt},
		{"updated_at", &item.UpdatedAt},
	}
	for _, tf := range times {
		if *tf.dst, err = time.Parse(time.RFC3339Nano, vals[tf.field]); err != nil {
			return nil, fmt.Errorf("cache parse %s: %w", tf.field, err)
		}
	}

	if raw := vals["bids"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &item.Bids); err != nil {
			return nil, fmt.Errorf("cache parse bids: %w", err)
		}
	}
	return item, nil
}
