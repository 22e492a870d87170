// Package state holds single-writer, multi-reader value cells with change
// notification. The writer never blocks; each subscriber sees the latest value.
package state

import "sync"

type Cell[T any] struct {
	mu      sync.RWMutex
	value   T
	version uint64
	subs    map[uint64]chan T
	nextID  uint64
}

func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{
		value: initial,
		subs:  make(map[uint64]chan T),
	}
}

func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Version grows by one on every Set.
func (c *Cell[T]) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Set stores v and notifies subscribers. A subscriber that has not consumed the
// previous value gets it replaced by v.
func (c *Cell[T]) Set(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(v)
}

func (c *Cell[T]) setLocked(v T) {
	c.value = v
	c.version++
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}

// Subscribe returns a channel that receives the current value immediately and every
// later one. Call cancel to stop; the channel is closed afterwards.
func (c *Cell[T]) Subscribe() (<-chan T, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan T, 1)
	ch <- c.value
	id := c.nextID
	c.nextID++
	c.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			close(ch)
			c.mu.Unlock()
		})
	}
	return ch, cancel
}
