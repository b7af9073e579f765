// Package cart holds the per-session shopping cart. Line items are keyed by
// (product, variant); adding an existing key merges quantities. Every
// mutation persists the full item list to the session store immediately;
// persistence failures are logged and swallowed so the in-memory cart stays
// authoritative for the session.
package cart

import (
	"context"
	"log"

	"github.com/shopspring/decimal"

	"github.com/example/kiri/internal/session"
)

// Item is one cart line.
type Item struct {
	ProductID    string  `json:"id"`
	Code         string  `json:"code"`
	Title        string  `json:"title"`
	VariantID    string  `json:"variantId"`
	VariantLabel string  `json:"variantLabel,omitempty"`
	Price        float64 `json:"price"`
	Qty          int     `json:"qty"`
	Currency     string  `json:"currency,omitempty"`
	Image        string  `json:"image,omitempty"`
}

// Key identifies a cart line.
type Key struct {
	ProductID string
	VariantID string
}

// Store is the cart for one session.
type Store struct {
	sess  *session.Store
	sid   string
	items []Item
}

// Load rehydrates the cart from the session store. A missing or unreadable
// document yields an empty cart.
func Load(ctx context.Context, sess *session.Store, sessionID string) *Store {
	s := &Store{sess: sess, sid: sessionID}
	if _, err := sess.Read(ctx, sessionID, session.KeyCartItems, &s.items); err != nil {
		log.Printf("[Cart] rehydrate failed for session %s: %v", sessionID, err)
		s.items = nil
	}
	return s
}

// Items returns the current cart lines.
func (s *Store) Items() []Item {
	return s.items
}

// Add appends item, merging quantity into an existing line with the same
// (product, variant) key. A missing quantity defaults to 1.
func (s *Store) Add(ctx context.Context, item Item) {
	if item.Qty <= 0 {
		item.Qty = 1
	}

	for i := range s.items {
		if s.items[i].ProductID == item.ProductID && s.items[i].VariantID == item.VariantID {
			s.items[i].Qty += item.Qty
			s.persist(ctx)
			return
		}
	}

	s.items = append(s.items, item)
	s.persist(ctx)
}

// Remove deletes the line matching key. Removing an absent line is a no-op.
func (s *Store) Remove(ctx context.Context, key Key) {
	for i := range s.items {
		if s.items[i].ProductID == key.ProductID && s.items[i].VariantID == key.VariantID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persist(ctx)
			return
		}
	}
}

// SetQty replaces the quantity of the line matching key. The value is taken
// as-is; callers are responsible for clamping.
func (s *Store) SetQty(ctx context.Context, key Key, qty int) {
	for i := range s.items {
		if s.items[i].ProductID == key.ProductID && s.items[i].VariantID == key.VariantID {
			s.items[i].Qty = qty
			s.persist(ctx)
			return
		}
	}
}

// Clear empties the cart and removes the persisted document entirely.
func (s *Store) Clear(ctx context.Context) {
	s.items = nil
	if err := s.sess.Remove(ctx, s.sid, session.KeyCartItems); err != nil {
		log.Printf("[Cart] clear failed for session %s: %v", s.sid, err)
	}
}

// Subtotal recomputes the sum of price times quantity over all lines.
func (s *Store) Subtotal() float64 {
	total := decimal.Zero
	for _, item := range s.items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Qty)))
		total = total.Add(line)
	}
	v, _ := total.Float64()
	return v
}

func (s *Store) persist(ctx context.Context) {
	if err := s.sess.Write(ctx, s.sid, session.KeyCartItems, s.items); err != nil {
		log.Printf("[Cart] persist failed for session %s: %v", s.sid, err)
	}
}
