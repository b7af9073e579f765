package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/kiri/internal/session"
)

func newTestSession(t *testing.T) *session.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return session.NewStore(rdb, time.Hour)
}

func TestAddMergesSameProductVariant(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(t)
	c := Load(ctx, sess, "sid")

	c.Add(ctx, Item{ProductID: "p1", VariantID: "250g", Title: "Mondulkiri Roast", Price: 5, Qty: 1})
	c.Add(ctx, Item{ProductID: "p1", VariantID: "250g", Title: "Mondulkiri Roast", Price: 5, Qty: 2})

	require.Len(t, c.Items(), 1)
	assert.Equal(t, 3, c.Items()[0].Qty)
	assert.InDelta(t, 15.0, c.Subtotal(), 1e-9)
}

func TestAddDistinctVariantsKeepSeparateLines(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(t)
	c := Load(ctx, sess, "sid")

	c.Add(ctx, Item{ProductID: "p1", VariantID: "250g", Price: 5})
	c.Add(ctx, Item{ProductID: "p1", VariantID: "1kg", Price: 18})

	assert.Len(t, c.Items(), 2)
}

func TestAddDefaultsQtyToOne(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(t)
	c := Load(ctx, sess, "sid")

	c.Add(ctx, Item{ProductID: "p1", VariantID: "250g", Price: 5})

	require.Len(t, c.Items(), 1)
	assert.Equal(t, 1, c.Items()[0].Qty)
}

func TestRemoveAbsentLineIsNoop(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(t)
	c := Load(ctx, sess, "sid")

	c.Add(ctx, Item{ProductID: "p1", VariantID: "250g", Price: 5})
	c.Remove(ctx, Key{ProductID: "p9", VariantID: "250g"})

	assert.Len(t, c.Items(), 1)
}

func TestSetQty(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(t)
	c := Load(ctx, sess, "sid")

	c.Add(ctx, Item{ProductID: "p1", VariantID: "250g", Price: 2.5, Qty: 1})
	c.SetQty(ctx, Key{ProductID: "p1", VariantID: "250g"}, 4)

	assert.Equal(t, 4, c.Items()[0].Qty)
	assert.InDelta(t, 10.0, c.Subtotal(), 1e-9)
}

func TestSubtotalAvoidsFloatDrift(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(t)
	c := Load(ctx, sess, "sid")

	c.Add(ctx, Item{ProductID: "p1", VariantID: "v", Price: 0.1, Qty: 3})

	assert.Equal(t, 0.3, c.Subtotal())
}

func TestPersistenceAcrossLoads(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(t)

	c := Load(ctx, sess, "sid")
	c.Add(ctx, Item{ProductID: "p1", VariantID: "250g", Price: 5, Qty: 2})

	reloaded := Load(ctx, sess, "sid")
	require.Len(t, reloaded.Items(), 1)
	assert.Equal(t, 2, reloaded.Items()[0].Qty)
}

func TestClearEmptiesCartAndDocument(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession(t)

	c := Load(ctx, sess, "sid")
	c.Add(ctx, Item{ProductID: "p1", VariantID: "250g", Price: 5})
	c.Clear(ctx)

	assert.Empty(t, c.Items())
	assert.Zero(t, c.Subtotal())

	var raw []Item
	ok, err := sess.Read(ctx, "sid", session.KeyCartItems, &raw)
	require.NoError(t, err)
	assert.False(t, ok)
}
