package store

import "sync"

type listenerEntry[T any] struct {
	id int
	fn func(T)
}

// listenerSet keeps subscribers in registration order.
type listenerSet[T any] struct {
	mu      sync.Mutex
	next    int
	entries []listenerEntry[T]
}

func (l *listenerSet[T]) add(fn func(T)) func() {
	l.mu.Lock()
	l.next++
	id := l.next
	l.entries = append(l.entries, listenerEntry[T]{id: id, fn: fn})
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			for i, e := range l.entries {
				if e.id == id {
					l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
					return
				}
			}
		})
	}
}

// emit calls every subscriber outside the set's lock, so a listener may
// subscribe or unsubscribe without deadlocking.
func (l *listenerSet[T]) emit(v T) {
	l.mu.Lock()
	fns := make([]func(T), len(l.entries))
	for i, e := range l.entries {
		fns[i] = e.fn
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}
