// Package state holds the client-side item collection and the handlers that
// keep it in sync with the API.
package state

import (
	"slices"
	"sync"

	"github.com/erazemk/itemdesk/internal/model"
)

// Snapshot is a point-in-time copy of the store contents.
type Snapshot struct {
	Items   []model.Item
	Version uint64
}

// Find returns the item with the given id.
func (s Snapshot) Find(id int64) (model.Item, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return model.Item{}, false
}

// Position returns the 1-based display index of the item with the given id,
// or 0 if it is not present.
func (s Snapshot) Position(id int64) int {
	for i, it := range s.Items {
		if it.ID == id {
			return i + 1
		}
	}
	return 0
}

// Store is the ordered item collection. The collection is always replaced as
// a whole; subscribers are notified after every change.
type Store struct {
	mu      sync.Mutex
	items   []model.Item
	version uint64
	nextSub int
	subs    map[int]func(Snapshot)
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{subs: make(map[int]func(Snapshot))}
}

// Snapshot returns a copy of the current collection.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{Items: slices.Clone(s.items), Version: s.version}
}

// Replace swaps in a new collection.
func (s *Store) Replace(items []model.Item) {
	s.mu.Lock()
	s.items = slices.Clone(items)
	s.version++
	snap := s.snapshotLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
}

// ToggleDetails flips ShowDetails on the item with the given id and reports
// whether it was found.
func (s *Store) ToggleDetails(id int64) bool {
	s.mu.Lock()
	idx := slices.IndexFunc(s.items, func(it model.Item) bool { return it.ID == id })
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	items := slices.Clone(s.items)
	items[idx].ShowDetails = !items[idx].ShowDetails
	s.items = items
	s.version++
	snap := s.snapshotLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
	return true
}

// Subscribe registers fn to be called with a snapshot after every change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) subscribersLocked() []func(Snapshot) {
	keys := make([]int, 0, len(s.subs))
	for k := range s.subs {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	fns := make([]func(Snapshot), 0, len(keys))
	for _, k := range keys {
		fns = append(fns, s.subs[k])
	}
	return fns
}

func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(Snapshot{Items: slices.Clone(snap.Items), Version: snap.Version})
	}
}
