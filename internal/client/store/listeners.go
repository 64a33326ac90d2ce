package store

import (
	"sort"
	"sync"
)

// listeners is a set of change callbacks. Callbacks run on the goroutine
// that made the change, after the store lock is released.
type listeners[T any] struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(T)

	// delivery is taken before the store lock is released, so snapshots
	// reach callbacks in the order the store produced them.
	delivery sync.Mutex
}

func (l *listeners[T]) add(fn func(T)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fns == nil {
		l.fns = make(map[int]func(T))
	}
	id := l.next
	l.next++
	l.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.fns, id)
			l.mu.Unlock()
		})
	}
}

// publish releases the store lock through unlock and delivers v. Snapshots
// taken under the store lock are delivered in the order they were taken.
func (l *listeners[T]) publish(unlock func(), v T) {
	l.delivery.Lock()
	defer l.delivery.Unlock()
	unlock()
	l.notify(v)
}

func (l *listeners[T]) notify(v T) {
	l.mu.Lock()
	ids := make([]int, 0, len(l.fns))
	for id := range l.fns {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, l.fns[id])
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}
