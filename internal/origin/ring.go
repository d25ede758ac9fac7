// RDS Dashboard BFF - Operations dashboard backend-for-frontend
// Copyright 2026 RDS Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package origin

// eventRing is a fixed-capacity ring buffer of security events. Appends
// beyond capacity evict the oldest entry, so memory stays bounded no matter
// how many validation calls the process serves. Not safe for concurrent use;
// the owning Validator serializes access.
type eventRing struct {
	buf   []SecurityEvent
	head  int // index of the oldest entry
	count int
}

// newEventRing creates a ring holding at most capacity events.
func newEventRing(capacity int) *eventRing {
	if capacity <= 0 {
		capacity = AuditCapacity
	}
	return &eventRing{buf: make([]SecurityEvent, capacity)}
}

// append adds an event, evicting the oldest when full.
func (r *eventRing) append(event SecurityEvent) {
	if r.count < len(r.buf) {
		r.buf[(r.head+r.count)%len(r.buf)] = event
		r.count++
		return
	}
	r.buf[r.head] = event
	r.head = (r.head + 1) % len(r.buf)
}

// snapshot returns up to limit of the most recent events in chronological
// order (most recent last). limit <= 0 returns all retained events.
func (r *eventRing) snapshot(limit int) []SecurityEvent {
	n := r.count
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]SecurityEvent, n)
	for i := 0; i < n; i++ {
		// Walk backwards from the newest entry.
		idx := (r.head + r.count - n + i) % len(r.buf)
		out[i] = r.buf[idx]
	}
	return out
}

// len returns the number of retained events.
func (r *eventRing) len() int {
	return r.count
}
