package service

import (
	"sync"
	"sync/atomic"

	"crepe_admin/internal/domain"

	"github.com/shopspring/decimal"
)

// TickerStore is the shared snapshot map for the price feed: one writer (the
// feed worker), many readers. Updates are whole-value replacements keyed by
// market code, so the last write per code always wins and codes never
// interfere with each other.
type TickerStore struct {
	mu        sync.RWMutex
	snapshots map[string]domain.TickerSnapshot
	subs      map[int]*subscriber
	nextSubID int

	// stale is raised while the feed connection is down, so consumers can
	// tell a dead feed from a quiet one.
	stale atomic.Bool
}

type subscriber struct {
	codes map[string]bool // empty = all codes
	ch    chan domain.TickerSnapshot
}

// NewTickerStore creates an empty store.
func NewTickerStore() *TickerStore {
	return &TickerStore{
		snapshots: make(map[string]domain.TickerSnapshot),
		subs:      make(map[int]*subscriber),
	}
}

// Update upserts the snapshot for its market code and fans it out to
// interested subscribers. A slow subscriber never blocks the writer; the
// update is dropped for that subscriber only.
func (s *TickerStore) Update(snap domain.TickerSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[snap.Code] = snap

	for _, sub := range s.subs {
		if len(sub.codes) > 0 && !sub.codes[snap.Code] {
			continue
		}
		select {
		case sub.ch <- snap:
		default: // DROP
		}
	}
}

// Get returns the latest snapshot for a market code.
func (s *TickerStore) Get(code string) (domain.TickerSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[code]
	return snap, ok
}

// TradePrice returns the latest trade price for a market code, or zero when
// no snapshot has arrived yet.
func (s *TickerStore) TradePrice(code string) decimal.Decimal {
	snap, ok := s.Get(code)
	if !ok {
		return decimal.Zero
	}
	return snap.TradePrice
}

// All returns a copy of the snapshot map.
func (s *TickerStore) All() map[string]domain.TickerSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.TickerSnapshot, len(s.snapshots))
	for code, snap := range s.snapshots {
		out[code] = snap
	}
	return out
}

// Len returns the number of distinct market codes seen so far.
func (s *TickerStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}

// Subscribe registers for updates on the given market codes (all codes when
// none are given). The returned cancel function unregisters and closes the
// channel; it is safe to call more than once.
func (s *TickerStore) Subscribe(codes ...string) (<-chan domain.TickerSnapshot, func()) {
	sub := &subscriber{
		codes: make(map[string]bool, len(codes)),
		ch:    make(chan domain.TickerSnapshot, 64),
	}
	for _, c := range codes {
		sub.codes[c] = true
	}

	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = sub
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// SetStale marks the feed as down (true) or live (false).
func (s *TickerStore) SetStale(stale bool) {
	s.stale.Store(stale)
}

// IsStale reports whether the feed connection is currently down. Snapshots
// remain readable while stale; they are simply no longer fresh.
func (s *TickerStore) IsStale() bool {
	return s.stale.Load()
}
