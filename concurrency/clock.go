package concurrency

import (
	"sync"
	"time"
)

// Clock assigns strictly increasing timestamps. A plain time.Now() can
// return the same instant twice at high submission rates (clock
// resolution), which would leave placed_at/generated_at ties undefined —
// the spec requires placed_at/generated_at to form a total order, so Next
// bumps by a nanosecond whenever wall-clock time has not visibly advanced.
type Clock struct {
	mu   sync.Mutex
	last time.Time
}

// Next returns a timestamp strictly later than every timestamp this Clock
// has previously returned.
func (c *Clock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if !now.After(c.last) {
		now = c.last.Add(time.Nanosecond)
	}
	c.last = now
	return now
}
