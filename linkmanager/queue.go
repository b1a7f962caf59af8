package linkmanager

import (
	"container/heap"
	"sync"
	"sync/atomic"
	"time"

	"dronelink/wire"
)

// Priority classes: ack-requiring traffic preempts everything else;
// there are exactly two classes.
const (
	priorityAckRequired = 0
	priorityNormal      = 1
)

type queueItem struct {
	priority int
	seq      uint64 // monotonic tiebreak, preserves FIFO within a class
	msg      wire.Message
}

type itemHeap []*queueItem

func (h itemHeap) Len() int { return len(h) }
func (h itemHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}
func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *itemHeap) Push(x interface{}) {
	*h = append(*h, x.(*queueItem))
}
func (h *itemHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// sendQueue is the thread-safe priority queue of outgoing messages.
// Producers are any caller of Enqueue; the sole consumer is the
// sender worker via TryDequeue.
type sendQueue struct {
	mu     sync.Mutex
	heap   itemHeap
	notify chan struct{}
	seqCtr uint64
}

func newSendQueue() *sendQueue {
	return &sendQueue{notify: make(chan struct{}, 1)}
}

// Enqueue computes priority from msg.Header.NeedAck and pushes msg,
// stamped with the current monotonic sequence for FIFO ordering within
// its priority class.
func (q *sendQueue) Enqueue(msg wire.Message) {
	priority := priorityNormal
	if msg.Header.NeedAck {
		priority = priorityAckRequired
	}

	q.mu.Lock()
	seq := atomic.AddUint64(&q.seqCtr, 1)
	heap.Push(&q.heap, &queueItem{priority: priority, seq: seq, msg: msg})
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// TryDequeue waits up to timeout for a message, honoring priority
// order. It reports false if the queue is still empty at the deadline.
func (q *sendQueue) TryDequeue(timeout time.Duration) (wire.Message, bool) {
	deadline := time.Now().Add(timeout)
	for {
		q.mu.Lock()
		if q.heap.Len() > 0 {
			item := heap.Pop(&q.heap).(*queueItem)
			q.mu.Unlock()
			return item.msg, true
		}
		q.mu.Unlock()

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return wire.Message{}, false
		}
		select {
		case <-q.notify:
		case <-time.After(remaining):
			return wire.Message{}, false
		}
	}
}

// Len reports the current queue depth, for metrics only.
func (q *sendQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.heap.Len()
}
