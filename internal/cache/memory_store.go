package cache

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/rdcredit-service/internal/metrics"
)

const (
	defaultMemoryShards   = 16
	defaultMemoryCapacity = 10000
	memorySweepInterval   = time.Minute
)

// MemoryStats reports counters of the in-memory store.
type MemoryStats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	Capacity  int
}

// MemoryStore is an in-process Store. Entries are spread over shards, each an
// LRU list with per-entry expiry; expired entries are dropped lazily on read
// and by a periodic sweep.
type MemoryStore struct {
	shards   []*memoryShard
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock replaces time.Now, mainly for expiry tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore creates a store holding at most capacity entries spread over numShards.
func NewMemoryStore(capacity, numShards int, opts ...MemoryOption) *MemoryStore {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	if numShards <= 0 {
		numShards = defaultMemoryShards
	}
	perShard := capacity / numShards
	if perShard < 1 {
		perShard = 1
	}

	s := &MemoryStore{
		shards: make([]*memoryShard, numShards),
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
	for i := range s.shards {
		s.shards[i] = &memoryShard{
			capacity: perShard,
			items:    make(map[string]*memoryEntry, perShard),
		}
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.sweepLoop()
	return s
}

func (s *MemoryStore) shardFor(key string) *memoryShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

// Get returns a copy of the stored value.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	return s.shardFor(key).get(key, s.now()), nil
}

// SetWithExpiry stores a copy of value.
func (s *MemoryStore) SetWithExpiry(_ context.Context, key string, value []byte, ttl time.Duration) error {
	buf := make([]byte, len(value))
	copy(buf, value)
	s.shardFor(key).set(key, buf, s.now().Add(ttl))
	return nil
}

// Delete removes keys; absent keys are ignored.
func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		s.shardFor(k).remove(k)
	}
	return nil
}

// DeleteByPattern removes every key matching pattern in all shards.
func (s *MemoryStore) DeleteByPattern(_ context.Context, pattern string) error {
	re, err := compileGlob(pattern)
	if err != nil {
		return err
	}
	for _, shard := range s.shards {
		shard.removeMatching(re.MatchString)
	}
	return nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Close stops the sweeper. The store keeps working afterwards.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopCh) })
	return nil
}

// Stats aggregates counters over all shards.
func (s *MemoryStore) Stats() MemoryStats {
	var total MemoryStats
	for _, shard := range s.shards {
		shard.mu.Lock()
		total.Size += len(shard.items)
		total.Capacity += shard.capacity
		shard.mu.Unlock()
		total.Hits += atomic.LoadInt64(&shard.hits)
		total.Misses += atomic.LoadInt64(&shard.misses)
		total.Evictions += atomic.LoadInt64(&shard.evictions)
	}
	return total
}

func (s *MemoryStore) sweepLoop() {
	ticker := time.NewTicker(memorySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := s.now()
			for _, shard := range s.shards {
				shard.removeMatching(nil, now)
			}
		case <-s.stopCh:
			return
		}
	}
}

// memoryEntry is a node of a shard's LRU list.
type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
	prev      *memoryEntry
	next      *memoryEntry
}

type memoryShard struct {
	mu        sync.Mutex
	capacity  int
	items     map[string]*memoryEntry
	head      *memoryEntry
	tail      *memoryEntry
	hits      int64
	misses    int64
	evictions int64
}

func (sh *memoryShard) get(key string, now time.Time) []byte {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	entry, ok := sh.items[key]
	if !ok {
		atomic.AddInt64(&sh.misses, 1)
		return nil
	}
	if now.After(entry.expiresAt) {
		sh.removeEntry(entry)
		atomic.AddInt64(&sh.misses, 1)
		return nil
	}

	sh.moveToFront(entry)
	atomic.AddInt64(&sh.hits, 1)

	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out
}

func (sh *memoryShard) set(key string, value []byte, expiresAt time.Time) {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if entry, ok := sh.items[key]; ok {
		entry.value = value
		entry.expiresAt = expiresAt
		sh.moveToFront(entry)
		return
	}

	entry := &memoryEntry{key: key, value: value, expiresAt: expiresAt}
	sh.items[key] = entry
	sh.addToFront(entry)

	if len(sh.items) > sh.capacity && sh.tail != nil {
		sh.removeEntry(sh.tail)
		atomic.AddInt64(&sh.evictions, 1)
		metrics.RecordCacheOperation("evict", "capacity")
	}
}

func (sh *memoryShard) remove(key string) {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if entry, ok := sh.items[key]; ok {
		sh.removeEntry(entry)
	}
}

// removeMatching drops entries whose key satisfies match, or, with a nil
// match, entries that expired before the optional sweep time.
func (sh *memoryShard) removeMatching(match func(string) bool, sweepAt ...time.Time) {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	for key, entry := range sh.items {
		switch {
		case match != nil && match(key):
			sh.removeEntry(entry)
		case match == nil && len(sweepAt) > 0 && sweepAt[0].After(entry.expiresAt):
			sh.removeEntry(entry)
		}
	}
}

func (sh *memoryShard) removeEntry(entry *memoryEntry) {
	delete(sh.items, entry.key)
	sh.unlink(entry)
}

func (sh *memoryShard) moveToFront(entry *memoryEntry) {
	if entry == sh.head {
		return
	}
	sh.unlink(entry)
	sh.addToFront(entry)
}

func (sh *memoryShard) addToFront(entry *memoryEntry) {
	entry.prev = nil
	entry.next = sh.head
	if sh.head != nil {
		sh.head.prev = entry
	}
	sh.head = entry
	if sh.tail == nil {
		sh.tail = entry
	}
}

func (sh *memoryShard) unlink(entry *memoryEntry) {
	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		sh.head = entry.next
	}
	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		sh.tail = entry.prev
	}
	entry.prev = nil
	entry.next = nil
}

var _ Store = (*MemoryStore)(nil)
