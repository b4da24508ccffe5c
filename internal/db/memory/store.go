// Package memory is a process-local db.Store. It backs the offline CLI
// commands and repository tests; semantics follow the server commands of
// the same name.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/kailas-cloud/movierec/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

type expiring struct {
	value     []byte
	expiresAt time.Time // zero = no expiry
}

// Store keeps hashes, strings and sorted sets in maps guarded by one mutex.
type Store struct {
	mu     sync.Mutex
	now    func() time.Time
	hashes map[string]map[string]string
	kv     map[string]expiring
	zsets  map[string]map[string]float64
}

// New creates an empty store.
func New() *Store {
	return &Store{
		now:    time.Now,
		hashes: make(map[string]map[string]string),
		kv:     make(map[string]expiring),
		zsets:  make(map[string]map[string]float64),
	}
}

// WithClock replaces the clock used for TTL expiry.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady returns immediately.
func (s *Store) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

// HSet sets hash fields.
func (s *Store) HSet(_ context.Context, key string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hashes[key]
	if !ok {
		h = make(map[string]string, len(fields))
		s.hashes[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

// HGetAll returns a copy of all fields of a hash; missing keys yield an empty map.
func (s *Store) HGetAll(_ context.Context, key string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneHash(s.hashes[key]), nil
}

// HGetAllMulti returns all fields for several hashes.
func (s *Store) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i] = cloneHash(s.hashes[k])
	}
	return out, nil
}

// HIncrBy adds delta to an integer hash field.
func (s *Store) HIncrBy(_ context.Context, key, field string, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hashes[key]
	if !ok {
		h = make(map[string]string)
		s.hashes[key] = h
	}
	var cur int64
	if v, ok := h[field]; ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, &db.Error{Op: db.OpHIncrBy, Err: err}
		}
		cur = n
	}
	cur += delta
	h[field] = strconv.FormatInt(cur, 10)
	return cur, nil
}

// HDel removes hash fields; an emptied hash disappears.
func (s *Store) HDel(_ context.Context, key string, fields ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.hashes[key]
	for _, f := range fields {
		delete(h, f)
	}
	if len(h) == 0 {
		delete(s.hashes, key)
	}
	return nil
}

// Del deletes a key of any type.
func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.hashes, key)
	delete(s.kv, key)
	delete(s.zsets, key)
	return nil
}

// Exists checks if a key of any type exists.
func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hashes[key]; ok {
		return true, nil
	}
	if _, ok := s.zsets[key]; ok {
		return true, nil
	}
	_, ok := s.liveValue(key)
	return ok, nil
}

// Get retrieves a string value.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.liveValue(key)
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return slices.Clone(v.value), nil
}

// SetWithTTL stores a value that expires after ttl.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kv[key] = expiring{value: slices.Clone(value), expiresAt: s.now().Add(ttl)}
	return nil
}

// Incr increments an integer string value.
func (s *Store) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var cur int64
	v, ok := s.liveValue(key)
	if ok {
		n, err := strconv.ParseInt(string(v.value), 10, 64)
		if err != nil {
			return 0, &db.Error{Op: db.OpIncr, Err: err}
		}
		cur = n
	}
	cur++
	s.kv[key] = expiring{value: []byte(strconv.FormatInt(cur, 10)), expiresAt: v.expiresAt}
	return cur, nil
}

// ZAdd adds or updates sorted set members.
func (s *Store) ZAdd(_ context.Context, key string, members ...db.ScoredMember) error {
	if len(members) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	z, ok := s.zsets[key]
	if !ok {
		z = make(map[string]float64, len(members))
		s.zsets[key] = z
	}
	for _, m := range members {
		z[m.Member] = m.Score
	}
	return nil
}

// ZRem removes members; an emptied set disappears.
func (s *Store) ZRem(_ context.Context, key string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	z := s.zsets[key]
	for _, m := range members {
		delete(z, m)
	}
	if len(z) == 0 {
		delete(s.zsets, key)
	}
	return nil
}

// ZRange returns all members ordered by (score, member), reversed when rev is set.
func (s *Store) ZRange(_ context.Context, key string, rev bool) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	z := s.zsets[key]
	entries := make([]db.ScoredMember, 0, len(z))
	for m, sc := range z {
		entries = append(entries, db.ScoredMember{Member: m, Score: sc})
	}
	slices.SortFunc(entries, func(a, b db.ScoredMember) int {
		if c := cmp.Compare(a.Score, b.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Member, b.Member)
	})
	if rev {
		slices.Reverse(entries)
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Member
	}
	return out, nil
}

// ZScore returns the score of member.
func (s *Store) ZScore(_ context.Context, key, member string) (float64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.zsets[key][member]
	return sc, ok, nil
}

// ZCount counts members with minScore <= score <= maxScore.
func (s *Store) ZCount(_ context.Context, key string, minScore, maxScore float64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, sc := range s.zsets[key] {
		if sc >= minScore && sc <= maxScore {
			n++
		}
	}
	return n, nil
}

// ZCard returns the number of members.
func (s *Store) ZCard(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.zsets[key])), nil
}

// liveValue returns the string at key, dropping it when expired. Caller holds mu.
func (s *Store) liveValue(key string) (expiring, bool) {
	v, ok := s.kv[key]
	if !ok {
		return expiring{}, false
	}
	if !v.expiresAt.IsZero() && !s.now().Before(v.expiresAt) {
		delete(s.kv, key)
		return expiring{}, false
	}
	return v, true
}

func cloneHash(h map[string]string) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}
