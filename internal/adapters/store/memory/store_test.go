package memory

import (
	"context"
	"testing"
	"time"

	"github.com/nitwit45/automation-tm/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	ports.TaskClient
	name string
}

func (s stubClient) SessionValid(context.Context) bool { return true }

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Put("work", stubClient{name: "a"})

	got, ok := store.Get("work")
	require.True(t, ok)
	assert.Equal(t, "a", got.(stubClient).name)

	store.Remove("work")
	_, ok = store.Get("work")
	assert.False(t, ok)
}

func TestStoreEvictsIdleEntries(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC)
	store := NewStore(
		WithTTL(30*time.Minute),
		WithNow(func() time.Time { return now }),
	)

	store.Put("work", stubClient{name: "a"})

	now = now.Add(31 * time.Minute)
	_, ok := store.Get("work")
	assert.False(t, ok, "an entry idle past the TTL is gone")
}

func TestStoreGetSlidesExpiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC)
	store := NewStore(
		WithTTL(30*time.Minute),
		WithNow(func() time.Time { return now }),
	)

	store.Put("work", stubClient{name: "a"})

	// Touch the entry every 20 minutes; it must survive well past one TTL.
	for i := 0; i < 4; i++ {
		now = now.Add(20 * time.Minute)
		_, ok := store.Get("work")
		require.True(t, ok, "touch %d", i)
	}
}

func TestStoreZeroTTLNeverEvicts(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC)
	store := NewStore(
		WithTTL(0),
		WithNow(func() time.Time { return now }),
	)

	store.Put("work", stubClient{name: "a"})

	now = now.Add(24 * time.Hour)
	_, ok := store.Get("work")
	assert.True(t, ok)
}
