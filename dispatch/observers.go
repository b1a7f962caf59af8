package dispatch

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// observerEntry pairs a registered handler with its one-shot flag and
// a stable handle used for identity-based unregistration — Go func
// values aren't comparable, so a handle stands in for identity.
type observerEntry[T any] struct {
	handle uint64
	once   bool
	fn     func(T)
}

// observerList is the thread-safe, ordered observer registry for one
// message variant. Registration appends; dispatch takes a snapshot
// under lock, invokes every observer outside the lock, then
// reacquires to sweep out one-shot entries that fired — from the tail
// backward, so indices stay valid during the sweep.
type observerList[T any] struct {
	mu      sync.Mutex
	entries []observerEntry[T]
}

func (l *observerList[T]) Register(handle uint64, once bool, fn func(T)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, observerEntry[T]{handle: handle, once: once, fn: fn})
}

// Unregister removes the first entry with the given handle.
func (l *observerList[T]) Unregister(handle uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.entries {
		if e.handle == handle {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Dispatch invokes every registered observer with data, in
// registration order. A panicking observer is caught and logged;
// subsequent observers still run. One-shot observers invoked this pass
// are removed afterward.
func (l *observerList[T]) Dispatch(data T, log *logrus.Entry) {
	l.mu.Lock()
	snapshot := make([]observerEntry[T], len(l.entries))
	copy(snapshot, l.entries)
	l.mu.Unlock()

	if len(snapshot) == 0 {
		return
	}

	fired := make(map[uint64]bool, len(snapshot))
	for _, e := range snapshot {
		invokeObserver(e.fn, data, log)
		if e.once {
			fired[e.handle] = true
		}
	}
	if len(fired) == 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.entries) - 1; i >= 0; i-- {
		if fired[l.entries[i].handle] {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
		}
	}
}

func invokeObserver[T any](fn func(T), data T, log *logrus.Entry) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("dispatch: observer panicked")
		}
	}()
	fn(data)
}
