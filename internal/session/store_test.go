package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewStore(rdb, time.Hour)
}

func TestReadMissingDocument(t *testing.T) {
	s := newTestStore(t)

	var out map[string]string
	ok, err := s.Read(context.Background(), "sid", KeyCheckoutInfo, &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWriteReadRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := map[string]any{"name": "Dara", "qty": float64(3)}
	require.NoError(t, s.Write(ctx, "sid", KeyCheckoutInfo, in))

	var out map[string]any
	ok, err := s.Read(ctx, "sid", KeyCheckoutInfo, &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, in, out)
}

func TestDocumentsAreSessionScoped(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "alpha", KeyCartItems, []string{"x"}))

	var out []string
	ok, err := s.Read(ctx, "beta", KeyCartItems, &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "sid", KeyReceipt, "doc"))
	require.NoError(t, s.Remove(ctx, "sid", KeyReceipt))

	var out string
	ok, err := s.Read(ctx, "sid", KeyReceipt, &out)
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing again is not an error.
	require.NoError(t, s.Remove(ctx, "sid", KeyReceipt))
}

func TestAppendCreatesAndGrowsList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "sid", KeyReceipts, map[string]string{"orderNo": "#1"}))
	require.NoError(t, s.Append(ctx, "sid", KeyReceipts, map[string]string{"orderNo": "#2"}))

	var out []map[string]string
	ok, err := s.Read(ctx, "sid", KeyReceipts, &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, out, 2)
	assert.Equal(t, "#1", out[0]["orderNo"])
	assert.Equal(t, "#2", out[1]["orderNo"])
}
