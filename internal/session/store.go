package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Document keys persisted per session. Each key holds one UTF-8 JSON
// document.
const (
	KeyCartItems       = "cart_items"
	KeyCheckoutInfo    = "checkout_info"
	KeyCheckoutSummary = "checkout_summary"
	KeyReceipt         = "receipt"
	KeyReceipts        = "receipts"
)

// Store is a per-session key/value document store over Redis. Values are
// serialized as JSON; every write refreshes the session TTL.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore builds a Store with the given session lifetime.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Ping verifies the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Read unmarshals the document at key into out. The boolean reports whether
// the document exists.
func (s *Store) Read(ctx context.Context, sessionID, key string, out any) (bool, error) {
	raw, err := s.rdb.Get(ctx, s.docKey(sessionID, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("read session document %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode session document %s: %w", key, err)
	}
	return true, nil
}

// Write stores value as the document at key.
func (s *Store) Write(ctx context.Context, sessionID, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode session document %s: %w", key, err)
	}

	if err := s.rdb.Set(ctx, s.docKey(sessionID, key), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("write session document %s: %w", key, err)
	}
	return nil
}

// Remove deletes the document at key. Removing a missing document is not an
// error.
func (s *Store) Remove(ctx context.Context, sessionID, key string) error {
	if err := s.rdb.Del(ctx, s.docKey(sessionID, key)).Err(); err != nil {
		return fmt.Errorf("remove session document %s: %w", key, err)
	}
	return nil
}

// Append adds value to the JSON array stored at key, creating the array if
// absent. Used for the receipts history document.
func (s *Store) Append(ctx context.Context, sessionID, key string, value any) error {
	var list []json.RawMessage
	if _, err := s.Read(ctx, sessionID, key, &list); err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode session document %s: %w", key, err)
	}

	list = append(list, raw)
	return s.Write(ctx, sessionID, key, list)
}

func (s *Store) docKey(sessionID, key string) string {
	return "session:" + sessionID + ":" + key
}
