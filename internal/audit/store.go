// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package audit

import (
	"context"
	"sync"
)

// MemoryStore implements Store using bounded in-memory storage.
// Oldest events are evicted first once maxLen is reached, so memory use
// stays bounded regardless of traffic. Data is lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
	maxLen int
}

// NewMemoryStore creates a new in-memory audit store holding at most
// maxLen events.
func NewMemoryStore(maxLen int) *MemoryStore {
	if maxLen <= 0 {
		maxLen = 10000
	}
	return &MemoryStore{
		events: make([]Event, 0, maxLen),
		maxLen: maxLen,
	}
}

// Save persists an audit event, evicting the oldest event when full.
func (s *MemoryStore) Save(ctx context.Context, event *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.events) >= s.maxLen {
		copy(s.events, s.events[1:])
		s.events = s.events[:len(s.events)-1]
	}
	s.events = append(s.events, *event)
	return nil
}

// Query retrieves up to limit events of the given types, newest first.
func (s *MemoryStore) Query(ctx context.Context, types []EventType, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []Event
	for i := len(s.events) - 1; i >= 0; i-- {
		event := s.events[i]
		if !matchesType(&event, types) {
			continue
		}
		results = append(results, event)
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, nil
}

// matchesType returns true when types is empty or contains the event's type.
func matchesType(event *Event, types []EventType) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if event.Type == t {
			return true
		}
	}
	return false
}

// Count returns the number of stored events per event type.
func (s *MemoryStore) Count(ctx context.Context) (map[EventType]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[EventType]int64)
	for i := range s.events {
		counts[s.events[i].Type]++
	}
	return counts, nil
}

// Len returns the number of events in the store.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Clear removes all events (for testing).
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = s.events[:0]
}
