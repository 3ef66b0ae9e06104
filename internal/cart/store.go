package cart

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Item is one line of the shopper's cart.
type Item struct {
	Name        string
	Image       string
	Description string
	Price       decimal.Decimal
	Quantity    int64
}

// Store holds the shopper's cart as an explicit object that every consumer
// receives by reference. Nothing reads it ambiently; pages subscribe for
// change notifications instead of sharing a global.
type Store struct {
	mu          sync.RWMutex
	items       []Item
	subscribers map[int]func([]Item)
	nextSubID   int
}

func NewStore() *Store {
	return &Store{subscribers: map[int]func([]Item){}}
}

// Add appends an item, merging by name: adding an existing product bumps its
// quantity instead of duplicating the line.
func (s *Store) Add(item Item) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].Name == item.Name {
			s.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, item)
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)
}

// Remove deletes the line with the given product name. Removing an absent
// name is a no-op.
func (s *Store) Remove(name string) {
	s.mu.Lock()
	kept := s.items[:0]
	removed := false
	for _, item := range s.items {
		if item.Name == name {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	if removed {
		s.notify(snapshot)
	}
}

// SetQuantity adjusts a line's quantity; zero or less removes the line.
func (s *Store) SetQuantity(name string, quantity int64) {
	if quantity < 1 {
		s.Remove(name)
		return
	}
	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].Name == name {
			changed = s.items[i].Quantity != quantity
			s.items[i].Quantity = quantity
			break
		}
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	if changed {
		s.notify(snapshot)
	}
}

// Items returns a copy of the current cart contents.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Len reports the number of cart lines.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)
}

// Subscribe registers a callback invoked with a snapshot after every change.
// The returned function cancels the subscription.
func (s *Store) Subscribe(fn func([]Item)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Store) snapshotLocked() []Item {
	snapshot := make([]Item, len(s.items))
	copy(snapshot, s.items)
	return snapshot
}

func (s *Store) notify(snapshot []Item) {
	s.mu.RLock()
	subs := make([]func([]Item), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.RUnlock()
	for _, fn := range subs {
		fn(snapshot)
	}
}
