// Package history records generation runs so operators can see what was
// produced for which station and when. A Redis-backed store is used when an
// address is configured, an in-process store otherwise.
package history

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// historyKey is the Redis list the entries live in, newest first.
const historyKey = "rangen|history"

// maxEntries bounds the retained history.
const maxEntries = 500

// Entry is one recorded generation run.
type Entry struct {
	Station    string    `json:"station"`
	Operation  string    `json:"operation"`
	OutputFile string    `json:"outputFile,omitempty"`
	Objects    int       `json:"objects,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Store records and lists generation runs.
type Store interface {
	Append(ctx context.Context, e Entry) error
	Recent(ctx context.Context, n int) ([]Entry, error)
	Close() error
}

// RedisStore keeps history in a Redis list so it survives restarts and is
// shared between server instances.
type RedisStore struct {
	client *redis.Client
}

// NewRedis connects a history store to Redis.
func NewRedis(addr string, db int) *RedisStore {
	return &RedisStore{client: redis.NewClient(&redis.Options{Addr: addr, DB: db})}
}

// Append records an entry, trimming the list to its retention bound.
func (s *RedisStore) Append(ctx context.Context, e Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, historyKey, data)
	pipe.LTrim(ctx, historyKey, 0, maxEntries-1)
	_, err = pipe.Exec(ctx)
	return err
}

// Recent returns up to n entries, newest first.
func (s *RedisStore) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 || n > maxEntries {
		n = maxEntries
	}
	raw, err := s.client.LRange(ctx, historyKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			continue // skip entries written by incompatible versions
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error { return s.client.Close() }

// MemoryStore keeps history in process memory. It is the fallback when no
// Redis address is configured, and the natural store for tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemory returns an empty in-process history store.
func NewMemory() *MemoryStore { return &MemoryStore{} }

// Append records an entry.
func (s *MemoryStore) Append(_ context.Context, e Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]Entry{e}, s.entries...)
	if len(s.entries) > maxEntries {
		s.entries = s.entries[:maxEntries]
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (s *MemoryStore) Recent(_ context.Context, n int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 || n > len(s.entries) {
		n = len(s.entries)
	}
	out := make([]Entry, n)
	copy(out, s.entries[:n])
	return out, nil
}

// Close is a no-op for the in-process store.
func (s *MemoryStore) Close() error { return nil }
