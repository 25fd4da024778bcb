// Package store implements a generic in-memory key/value store with
// optional TTL expiry, bounded size with FIFO eviction, a periodic
// cleanup sweep, and synchronous event notification.
//
// A single Store instance backs several concerns in the application:
// nonce replay tracking, upstream response caching, and per-client
// rate limiting. Every operation holds the store mutex for its whole
// critical section, so check-then-act sequences exposed as a single
// method (GetOrCreate) are atomic.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/idxpulse/idxpulse/internal/logger"
)

// EventType identifies a store mutation.
type EventType string

const (
	EventSet    EventType = "set"
	EventDelete EventType = "delete"
	EventEvict  EventType = "evict"
	EventExpire EventType = "expire"
)

// Event describes a single mutation observed on the store.
type Event[K comparable, V any] struct {
	Type  EventType
	Key   K
	Value V
	At    time.Time
}

// Listener receives store events. Listeners run synchronously on the
// goroutine that performed the mutation, after the store lock has been
// released. A panicking listener is recovered and logged; it never
// breaks the mutating call.
type Listener[K comparable, V any] func(Event[K, V])

// Options configures a Store at construction time. The zero value is a
// valid unbounded store with no expiry and no cleanup timer. Options
// are never mutated after New.
type Options[K comparable, V any] struct {
	// MaxSize bounds the number of entries; 0 means unlimited. When the
	// store is full, inserting a new key evicts the oldest-inserted
	// entry (FIFO, not LRU).
	MaxSize int

	// DefaultTTL is applied by Set and GetOrCreate; zero means entries
	// never expire unless stored via SetWithTTL.
	DefaultTTL time.Duration

	// CleanupInterval is the period of the background sweep.
	CleanupInterval time.Duration

	// AutoCleanup starts the sweep timer in New when CleanupInterval > 0.
	AutoCleanup bool

	// OnEvict is called for entries removed by FIFO eviction.
	OnEvict func(K, V)

	// OnExpire is called for entries removed because their TTL elapsed,
	// whether discovered lazily on read or by a cleanup sweep.
	OnExpire func(K, V)
}

// Stats is a read-only snapshot of store counters.
type Stats struct {
	Size        int
	MaxSize     int
	Hits        uint64
	Misses      uint64
	Sets        uint64
	Deletes     uint64
	Evictions   uint64
	Expirations uint64
}

// QueryOptions selects and orders a snapshot of live values.
// Application order is fixed: Filter, then Less, then Offset, then Limit.
type QueryOptions[K comparable, V any] struct {
	Filter func(K, V) bool
	Less   func(a, b V) bool
	Offset int
	Limit  int // 0 means no limit
}

type entry[V any] struct {
	value     V
	expiresAt time.Time // zero means no expiry
}

func (e entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !e.expiresAt.After(now)
}

// Store is a mutex-guarded generic key/value store. Safe for concurrent
// use by multiple goroutines.
type Store[K comparable, V any] struct {
	mu        sync.Mutex
	opts      Options[K, V]
	entries   map[K]entry[V]
	order     []K // insertion order, oldest first; re-Set keeps position
	listeners map[int]Listener[K, V]
	nextSub   int
	stop      chan struct{} // non-nil while the cleanup timer runs
	stats     Stats
}

// New constructs a Store. When opts.AutoCleanup is set and
// opts.CleanupInterval is positive, the background sweep starts
// immediately; callers owning short-lived stores (tests included) must
// call StopCleanup to release the timer goroutine.
func New[K comparable, V any](opts Options[K, V]) *Store[K, V] {
	s := &Store[K, V]{
		opts:      opts,
		entries:   make(map[K]entry[V]),
		listeners: make(map[int]Listener[K, V]),
	}
	if opts.AutoCleanup && opts.CleanupInterval > 0 {
		s.StartCleanup()
	}
	return s
}

// Set inserts or overwrites a value, applying the store's DefaultTTL
// (zero DefaultTTL stores the entry without expiry). When the store is
// bounded, full, and the key is new, the oldest-inserted entry is
// evicted first.
func (s *Store[K, V]) Set(key K, value V) {
	s.SetWithTTL(key, value, s.opts.DefaultTTL)
}

// SetWithTTL inserts or overwrites a value that expires ttl from now.
// A non-positive ttl stores the entry without expiry.
func (s *Store[K, V]) SetWithTTL(key K, value V, ttl time.Duration) {
	now := time.Now()
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}

	s.mu.Lock()
	events := s.setLocked(key, value, expiresAt, now)
	s.mu.Unlock()
	s.emit(events)
}

// setLocked performs the insert and returns the events to emit after
// the lock is released.
func (s *Store[K, V]) setLocked(key K, value V, expiresAt, now time.Time) []Event[K, V] {
	var events []Event[K, V]

	if _, exists := s.entries[key]; !exists {
		if s.opts.MaxSize > 0 && len(s.entries) >= s.opts.MaxSize {
			oldest := s.order[0]
			evicted := s.entries[oldest]
			s.removeLocked(oldest)
			s.stats.Evictions++
			events = append(events, Event[K, V]{Type: EventEvict, Key: oldest, Value: evicted.value, At: now})
		}
		s.order = append(s.order, key)
	}

	s.entries[key] = entry[V]{value: value, expiresAt: expiresAt}
	s.stats.Sets++
	return append(events, Event[K, V]{Type: EventSet, Key: key, Value: value, At: now})
}

// Get returns the live value for key. Expiry is enforced lazily: an
// entry whose TTL has elapsed is deleted here, fires a single expire
// event, and is reported as absent.
func (s *Store[K, V]) Get(key K) (V, bool) {
	var zero V
	now := time.Now()

	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		s.stats.Misses++
		s.mu.Unlock()
		return zero, false
	}
	if e.expired(now) {
		s.removeLocked(key)
		s.stats.Expirations++
		s.stats.Misses++
		s.mu.Unlock()
		s.emit([]Event[K, V]{{Type: EventExpire, Key: key, Value: e.value, At: now}})
		return zero, false
	}
	s.stats.Hits++
	s.mu.Unlock()
	return e.value, true
}

// Has reports raw presence of key. Unlike Get, it does not consult the
// entry's TTL: a logically expired entry that has not yet been read or
// swept is still reported as present. Callers that need expiry-aware
// existence must use Get or GetOrCreate.
func (s *Store[K, V]) Has(key K) bool {
	s.mu.Lock()
	_, ok := s.entries[key]
	s.mu.Unlock()
	return ok
}

// Delete removes key and reports whether an entry existed. A delete
// event fires only when something was removed.
func (s *Store[K, V]) Delete(key K) bool {
	now := time.Now()

	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.removeLocked(key)
	s.stats.Deletes++
	s.mu.Unlock()
	s.emit([]Event[K, V]{{Type: EventDelete, Key: key, Value: e.value, At: now}})
	return true
}

// GetOrCreate returns the live value for key, or stores factory() under
// the store's DefaultTTL when the key is absent or expired. The second
// return reports whether an existing value was found. The whole
// check-then-store runs under one lock hold, so two concurrent callers
// cannot both observe the key as absent.
func (s *Store[K, V]) GetOrCreate(key K, factory func() V) (V, bool) {
	now := time.Now()

	s.mu.Lock()
	if e, ok := s.entries[key]; ok {
		if !e.expired(now) {
			s.stats.Hits++
			s.mu.Unlock()
			return e.value, true
		}
		// Expired in place: drop it so the new entry gets a fresh slot.
		s.removeLocked(key)
		s.stats.Expirations++
		defer s.emit([]Event[K, V]{{Type: EventExpire, Key: key, Value: e.value, At: now}})
	}
	s.stats.Misses++

	value := factory()
	var expiresAt time.Time
	if s.opts.DefaultTTL > 0 {
		expiresAt = now.Add(s.opts.DefaultTTL)
	}
	events := s.setLocked(key, value, expiresAt, now)
	s.mu.Unlock()
	s.emit(events)
	return value, false
}

// Cleanup sweeps the store, removing every entry whose TTL has elapsed.
// One expire event fires per removed entry. Returns the number removed.
func (s *Store[K, V]) Cleanup() int {
	now := time.Now()

	s.mu.Lock()
	var events []Event[K, V]
	for key, e := range s.entries {
		if e.expired(now) {
			events = append(events, Event[K, V]{Type: EventExpire, Key: key, Value: e.value, At: now})
		}
	}
	for _, ev := range events {
		s.removeLocked(ev.Key)
		s.stats.Expirations++
	}
	s.mu.Unlock()

	s.emit(events)
	return len(events)
}

// StartCleanup starts the background sweep timer. Calling it while the
// timer is already running is a no-op.
func (s *Store[K, V]) StartCleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil || s.opts.CleanupInterval <= 0 {
		return
	}
	stop := make(chan struct{})
	s.stop = stop

	go func() {
		ticker := time.NewTicker(s.opts.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Cleanup()
			case <-stop:
				return
			}
		}
	}()
}

// StopCleanup stops the background sweep timer. Calling it while the
// timer is not running is a no-op.
func (s *Store[K, V]) StopCleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.stop = nil
}

// Len returns the raw entry count, including logically expired entries
// that have not yet been read or swept.
func (s *Store[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// GetAll returns a snapshot of live entries. Expired entries are
// filtered from the result but, unlike Get, are not removed and fire no
// events.
func (s *Store[K, V]) GetAll() map[K]V {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[K]V, len(s.entries))
	for key, e := range s.entries {
		if !e.expired(now) {
			out[key] = e.value
		}
	}
	return out
}

// Keys returns the live keys in insertion order.
func (s *Store[K, V]) Keys() []K {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]K, 0, len(s.order))
	for _, key := range s.order {
		if e, ok := s.entries[key]; ok && !e.expired(now) {
			out = append(out, key)
		}
	}
	return out
}

// Values returns the live values in insertion order. Like GetAll it
// filters expired entries without removing them.
func (s *Store[K, V]) Values() []V {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]V, 0, len(s.order))
	for _, key := range s.order {
		if e, ok := s.entries[key]; ok && !e.expired(now) {
			out = append(out, e.value)
		}
	}
	return out
}

// Query returns live values selected by opts, applying filter, sort,
// offset, and limit in that order.
func (s *Store[K, V]) Query(opts QueryOptions[K, V]) []V {
	now := time.Now()

	s.mu.Lock()
	selected := make([]V, 0, len(s.order))
	for _, key := range s.order {
		e, ok := s.entries[key]
		if !ok || e.expired(now) {
			continue
		}
		if opts.Filter != nil && !opts.Filter(key, e.value) {
			continue
		}
		selected = append(selected, e.value)
	}
	s.mu.Unlock()

	if opts.Less != nil {
		sort.SliceStable(selected, func(i, j int) bool { return opts.Less(selected[i], selected[j]) })
	}
	if opts.Offset > 0 {
		if opts.Offset >= len(selected) {
			return []V{}
		}
		selected = selected[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(selected) {
		selected = selected[:opts.Limit]
	}
	return selected
}

// Stats returns a snapshot of the store counters.
func (s *Store[K, V]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stats
	st.Size = len(s.entries)
	st.MaxSize = s.opts.MaxSize
	return st
}

// On registers a listener and returns its unsubscribe function.
func (s *Store[K, V]) On(l Listener[K, V]) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// removeLocked deletes key from the entry map and the insertion-order
// queue. Caller holds the lock.
func (s *Store[K, V]) removeLocked(key K) {
	delete(s.entries, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// emit delivers events to the eviction/expiry callbacks and to every
// subscribed listener, outside the store lock.
func (s *Store[K, V]) emit(events []Event[K, V]) {
	for _, ev := range events {
		switch ev.Type {
		case EventEvict:
			if cb := s.opts.OnEvict; cb != nil {
				safeNotify(func() { cb(ev.Key, ev.Value) })
			}
		case EventExpire:
			if cb := s.opts.OnExpire; cb != nil {
				safeNotify(func() { cb(ev.Key, ev.Value) })
			}
		}

		s.mu.Lock()
		subs := make([]Listener[K, V], 0, len(s.listeners))
		for _, l := range s.listeners {
			subs = append(subs, l)
		}
		s.mu.Unlock()

		for _, l := range subs {
			ev := ev
			safeNotify(func() { l(ev) })
		}
	}
}

// safeNotify isolates listener and callback panics from the mutating
// operation that triggered them.
func safeNotify(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.L().Error().Interface("panic", r).Msg("store listener panicked")
		}
	}()
	fn()
}
