package cache

import "time"

// Store is a JSON key-value store with per-key TTL. Invitations and their
// per-email indexes live here; everything else stays in the relational store.
type Store interface {
	// SetJSON marshals value and stores it under key. A ttl <= 0 means the
	// key does not expire.
	SetJSON(key string, value any, ttl time.Duration) error

	// GetJSON unmarshals the value at key into dest. The second return is
	// false when the key is absent or expired.
	GetJSON(key string, dest any) (bool, error)

	// Delete removes a key if present.
	Delete(key string) error
}
