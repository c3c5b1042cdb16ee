// Package timer provides logical one-shot timers for the simulation.
//
// Timers are not driven by the wall clock. The owner advances the queue to the
// current session time at a tick boundary and every timer that has come due
// fires there, in due order. This keeps deferred work out of the middle of a
// tick and makes runs reproducible.
package timer

import (
	"container/heap"
	"time"
)

// Queue is a priority queue of pending callbacks ordered by due time, then by
// scheduling order. It is not safe for concurrent use.
type Queue struct {
	events eventHeap
	seq    uint64
	now    time.Duration
}

// NewQueue returns an empty queue at time zero.
func NewQueue() *Queue {
	return &Queue{}
}

// After schedules fn to run once the queue is advanced to now+d or later.
// There is no cancellation: a scheduled callback always fires exactly once.
func (q *Queue) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	q.seq++
	heap.Push(&q.events, event{due: q.now + d, seq: q.seq, fn: fn})
}

// Advance moves the queue clock to now and fires every callback due at or
// before it. Callbacks may schedule further timers; those fire in the same
// call only if they are already due. Returns the number of callbacks fired.
func (q *Queue) Advance(now time.Duration) int {
	if now > q.now {
		q.now = now
	}
	fired := 0
	for len(q.events) > 0 && q.events[0].due <= q.now {
		ev := heap.Pop(&q.events).(event)
		ev.fn()
		fired++
	}
	return fired
}

// Now returns the time the queue was last advanced to.
func (q *Queue) Now() time.Duration {
	return q.now
}

// Len returns the number of pending callbacks.
func (q *Queue) Len() int {
	return len(q.events)
}

// NextDue returns the due time of the earliest pending callback.
func (q *Queue) NextDue() (time.Duration, bool) {
	if len(q.events) == 0 {
		return 0, false
	}
	return q.events[0].due, true
}

type event struct {
	due time.Duration
	seq uint64
	fn  func()
}

type eventHeap []event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) { *h = append(*h, x.(event)) }

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	old[n-1] = event{}
	*h = old[:n-1]
	return ev
}
