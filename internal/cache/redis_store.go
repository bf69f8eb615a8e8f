package cache

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gomodule/redigo/redis"
)

// RedisStore implements Store on a redigo connection pool.
type RedisStore struct {
	pool *redis.Pool
}

// NewRedisStore creates a RedisStore connected to addr.
func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{
		pool: &redis.Pool{
			MaxIdle:     10,
			IdleTimeout: 240 * time.Second,
			Dial: func() (redis.Conn, error) {
				return redis.Dial("tcp", addr)
			},
			TestOnBorrow: func(c redis.Conn, t time.Time) error {
				if time.Since(t) < time.Minute {
					return nil
				}
				_, err := c.Do("PING")
				return err
			},
		},
	}
}

// SetJSON implements Store.SetJSON using SETEX.
func (s *RedisStore) SetJSON(key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	conn := s.pool.Get()
	defer conn.Close()

	if ttl > 0 {
		_, err = conn.Do("SETEX", key, int(ttl.Seconds()), data)
	} else {
		_, err = conn.Do("SET", key, data)
	}
	return err
}

// GetJSON implements Store.GetJSON.
func (s *RedisStore) GetJSON(key string, dest any) (bool, error) {
	conn := s.pool.Get()
	defer conn.Close()

	data, err := redis.Bytes(conn.Do("GET", key))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Delete implements Store.Delete.
func (s *RedisStore) Delete(key string) error {
	conn := s.pool.Get()
	defer conn.Close()

	_, err := conn.Do("DEL", key)
	return err
}

// Close releases the underlying pool.
func (s *RedisStore) Close() error {
	return s.pool.Close()
}

var _ Store = (*RedisStore)(nil)
