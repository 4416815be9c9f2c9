// Package state provides an observable value container for client-side session state.
package state

import "sync"

// Store holds a value of type T. Updates are applied under a lock and observers are notified synchronously,
// in subscription order, with the new value.
type Store[T any] struct {
	mu        sync.Mutex
	value     T
	nextID    int
	observers map[int]func(T)
	order     []int
}

// NewStore creates a store holding initial.
func NewStore[T any](initial T) *Store[T] {
	return &Store[T]{
		mu:        sync.Mutex{},
		value:     initial,
		nextID:    0,
		observers: make(map[int]func(T)),
		order:     nil,
	}
}

// Get returns the current value.
func (s *Store[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Update replaces the value with fn applied to the current value and notifies observers. fn must not call back
// into the store.
func (s *Store[T]) Update(fn func(T) T) T {
	s.mu.Lock()
	s.value = fn(s.value)
	next := s.value
	observers := make([]func(T), 0, len(s.order))
	for _, id := range s.order {
		observers = append(observers, s.observers[id])
	}
	s.mu.Unlock()

	for _, observe := range observers {
		observe(next)
	}
	return next
}

// Set replaces the value.
func (s *Store[T]) Set(v T) {
	s.Update(func(T) T { return v })
}

// Subscribe registers observe for future updates and returns a function removing it.
func (s *Store[T]) Subscribe(observe func(T)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.observers[id] = observe
	s.order = append(s.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.observers, id)
			for i, existing := range s.order {
				if existing == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}
