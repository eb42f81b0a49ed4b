// Package aggregate holds the derived counts shared between local optimistic
// edits and inbound realtime events: clamped counters, poll tallies and
// their percentages.
package aggregate

import "sync"

// Counter is a non-negative integer updated only through Add, so local edits
// and realtime events go through the same clamped primitive.
type Counter struct {
	mu    sync.Mutex
	value int
}

// NewCounter creates a counter starting at v (negative start values become 0).
func NewCounter(v int) *Counter {
	return &Counter{value: max(v, 0)}
}

// Value returns the current count.
func (c *Counter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Add adds delta, clamping the result at zero, and returns the delta that was
// actually applied. Undoing an Add means calling Add with the negated result.
func (c *Counter) Add(delta int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := max(c.value+delta, 0)
	applied := next - c.value
	c.value = next
	return applied
}

// Set replaces the count with an authoritative value and returns the previous one.
func (c *Counter) Set(v int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.value
	c.value = max(v, 0)
	return prev
}

// Reset sets the count to zero and returns the previous value.
func (c *Counter) Reset() int {
	return c.Set(0)
}
