package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	type payload struct {
		Name string `json:"name"`
	}

	require.NoError(t, store.SetJSON("key", payload{Name: "value"}, time.Minute))

	var got payload
	found, err := store.GetJSON("key", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "value", got.Name)
}

func TestMemoryStoreMissingKey(t *testing.T) {
	store := NewMemoryStore()

	var got string
	found, err := store.GetJSON("absent", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.SetJSON("key", "value", time.Minute))
	require.NoError(t, store.Delete("key"))

	var got string
	found, err := store.GetJSON("key", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.SetJSON("key", "value", time.Minute))

	base := time.Now()
	now = func() time.Time { return base.Add(2 * time.Minute) }
	defer func() { now = time.Now }()

	var got string
	found, err := store.GetJSON("key", &got)
	require.NoError(t, err)
	assert.False(t, found)

	// the expired entry was removed, not just hidden
	store.mu.RLock()
	_, ok := store.items["key"]
	store.mu.RUnlock()
	assert.False(t, ok)
}

func TestMemoryStoreZeroTTLNeverExpires(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.SetJSON("key", "value", 0))

	base := time.Now()
	now = func() time.Time { return base.Add(1000 * time.Hour) }
	defer func() { now = time.Now }()

	var got string
	found, err := store.GetJSON("key", &got)
	require.NoError(t, err)
	assert.True(t, found)
}
