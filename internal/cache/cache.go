package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

// Medium is the persistence layer under the store: raw bytes keyed by
// string. Implementations may be a directory of files, Redis, or an
// in-memory map in tests.
type Medium interface {
	Read(ctx context.Context, key string) (value []byte, found bool, err error)
	Write(ctx context.Context, key string, value []byte) error
}

// entry is the persisted envelope for one key. Timestamp is the capture
// time of Data in unix milliseconds and is never altered after Set.
type entry struct {
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Store is a TTL cache-aside front over a Medium. Staleness is judged
// at read time against a caller-supplied TTL; stale entries stay in
// place until the next Set supersedes them. There is no eviction and no
// capacity bound: the key space is a small set of query shapes.
type Store struct {
	medium Medium
	now    func() time.Time
}

func NewStore(medium Medium) *Store {
	return &Store{medium: medium, now: time.Now}
}

// Get returns the payload stored under key if it is younger than ttl.
// A medium failure or an unreadable envelope degrades to a miss, never
// to an error: a broken cache means always-fetch, not an outage.
func (s *Store) Get(ctx context.Context, key string, ttl time.Duration) ([]byte, bool) {
	raw, found, err := s.medium.Read(ctx, key)
	if err != nil {
		logrus.WithField("key", key).WithError(err).Warn("cache read failed")
		return nil, false
	}
	if !found {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		logrus.WithField("key", key).WithError(err).Warn("cache entry unreadable")
		return nil, false
	}

	if s.now().Sub(time.UnixMilli(e.Timestamp)) >= ttl {
		return nil, false
	}
	return e.Data, true
}

// Set overwrites (or creates) the entry for key with the capture time
// set to now. Payload must be valid JSON.
func (s *Store) Set(ctx context.Context, key string, payload []byte) {
	raw, err := json.Marshal(entry{Timestamp: s.now().UnixMilli(), Data: payload})
	if err != nil {
		logrus.WithField("key", key).WithError(err).Warn("cache entry not serializable")
		return
	}
	if err := s.medium.Write(ctx, key, raw); err != nil {
		logrus.WithField("key", key).WithError(err).Warn("cache write failed")
	}
}
