package linkmanager

import "sync"

// maxPacketID is the top of the 31-bit id space.
const maxPacketID = 0x7FFFFFFF

// idAllocator hands out monotonically increasing packet ids in
// [1, 2^31-1], wrapping back to 1 on overflow. A dedicated mutex
// guards a single compare-and-update, so contention is negligible
// even under concurrent callers.
type idAllocator struct {
	mu   sync.Mutex
	next uint32
}

func newIDAllocator() *idAllocator {
	return &idAllocator{next: 1}
}

// Next returns the pre-increment value, wrapping the internal counter
// back to 1 once it would exceed maxPacketID.
func (a *idAllocator) Next() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.next
	a.next++
	if a.next > maxPacketID {
		a.next = 1
	}
	return id
}
