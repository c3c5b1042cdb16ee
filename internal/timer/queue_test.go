package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFiresWhenDue(t *testing.T) {
	q := NewQueue()
	fired := false
	q.After(3*time.Second, func() { fired = true })

	assert.Equal(t, 0, q.Advance(2999*time.Millisecond))
	assert.False(t, fired)

	assert.Equal(t, 1, q.Advance(3*time.Second))
	assert.True(t, fired)
	assert.Equal(t, 0, q.Len())
}

func TestQueueOrdersByDueThenSchedule(t *testing.T) {
	q := NewQueue()
	var order []string
	q.After(2*time.Second, func() { order = append(order, "b") })
	q.After(time.Second, func() { order = append(order, "a") })
	q.After(2*time.Second, func() { order = append(order, "c") })

	require.Equal(t, 3, q.Advance(5*time.Second))
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestQueueIndependentTimers(t *testing.T) {
	q := NewQueue()
	count := 0
	q.After(3*time.Second, func() { count++ })
	q.Advance(time.Second)
	q.After(3*time.Second, func() { count++ })

	due, ok := q.NextDue()
	require.True(t, ok)
	assert.Equal(t, 3*time.Second, due)

	q.Advance(3 * time.Second)
	assert.Equal(t, 1, count)
	q.Advance(4 * time.Second)
	assert.Equal(t, 2, count)
}

func TestQueueCallbackMaySchedule(t *testing.T) {
	q := NewQueue()
	fired := 0
	q.After(time.Second, func() {
		fired++
		q.After(time.Second, func() { fired++ })
	})

	q.Advance(time.Second)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 1, q.Len())

	q.Advance(2 * time.Second)
	assert.Equal(t, 2, fired)
}

func TestQueueClockNeverRewinds(t *testing.T) {
	q := NewQueue()
	q.Advance(5 * time.Second)
	q.Advance(time.Second)
	assert.Equal(t, 5*time.Second, q.Now())
}
