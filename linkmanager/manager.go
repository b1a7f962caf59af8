// Package linkmanager implements the packet manager: id allocation,
// priority send queue, outstanding/ack tracking, retry-on-timeout, and
// the sender/receiver worker goroutines.
package linkmanager

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"dronelink/framereader"
	"dronelink/transport"
	"dronelink/wire"
)

// Config holds the manager's tunable knobs.
type Config struct {
	AckTimeout  time.Duration // default 2s
	MaxRetries  int           // default 5
	ReadTimeout time.Duration // default 1s

	// RetryRateLimit bounds how many retransmissions the retry sweep
	// fires per second, since a single sweep retransmitting every
	// eligible entry can burst the link. Zero means unlimited (every
	// eligible entry retries every sweep, exactly as the baseline
	// algorithm describes). Entries that don't get a token this sweep
	// keep their send_time untouched, so they're picked up again on
	// the very next sweep rather than losing a retry.
	RetryRateLimit rate.Limit
	RetryBurst     int
}

// DefaultConfig returns the manager's default knob values.
func DefaultConfig() Config {
	return Config{
		AckTimeout:  2 * time.Second,
		MaxRetries:  5,
		ReadTimeout: 1 * time.Second,
	}
}

const (
	dequeuePollTimeout = 100 * time.Millisecond
	stopJoinTimeout    = 2 * time.Second
)

// Manager is the concurrency heart of the core: two long-running
// workers (sender, receiver), a priority queue of outgoing messages, a
// table of in-flight messages awaiting acknowledgment, a monotonic id
// allocator, and a retry clock.
type Manager struct {
	cfg    Config
	ch     transport.Channel
	reader *framereader.Reader
	log    *logrus.Entry

	ids   *idAllocator
	queue *sendQueue

	outMu       sync.Mutex
	outstanding map[uint32]*outstandingEntry

	limiter *rate.Limiter
	metrics *Metrics

	stopCh  chan struct{}
	stopped bool
	stopMu  sync.Mutex
	wg      sync.WaitGroup

	// onTimeout is invoked (outside any lock) when an outstanding
	// message exhausts its retries.
	onTimeout func(wire.Message)
	// onAck is invoked when an Ack matches a live outstanding entry.
	// Optional.
	onAck func(wire.Message)
	// onInbound receives every decoded non-Ack message after any
	// required Ack has already been enqueued. The dispatch
	// layer is the only intended subscriber.
	onInbound func(wire.Message)
}

type outstandingEntry struct {
	msg      wire.Message
	sendTime time.Time
	retries  int
}

// New constructs a Manager over ch. It does not connect the channel or
// start any workers; call Start for that.
func New(ch transport.Channel, cfg Config, log *logrus.Entry) *Manager {
	if cfg.AckTimeout == 0 {
		cfg.AckTimeout = DefaultConfig().AckTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultConfig().MaxRetries
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultConfig().ReadTimeout
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("component", "linkmanager")

	m := &Manager{
		cfg:         cfg,
		ch:          ch,
		reader:      framereader.New(ch, cfg.ReadTimeout, log),
		log:         log,
		ids:         newIDAllocator(),
		queue:       newSendQueue(),
		outstanding: make(map[uint32]*outstandingEntry),
		stopCh:      make(chan struct{}),
	}
	if cfg.RetryRateLimit > 0 {
		burst := cfg.RetryBurst
		if burst < 1 {
			burst = 1
		}
		m.limiter = rate.NewLimiter(cfg.RetryRateLimit, burst)
	}
	return m
}

// Metrics returns a Collector bound to this manager's live queue depth
// and outstanding count. Callers register it with their own prometheus
// registry; the core never registers it itself.
func (m *Manager) Metrics() *Metrics {
	if m.metrics == nil {
		m.metrics = NewMetrics("dronelink")
		m.metrics.bind(m.queue.Len, m.outstandingLen)
	}
	return m.metrics
}

// SetOnTimeout registers the ack-timeout observer.
func (m *Manager) SetOnTimeout(fn func(wire.Message)) { m.onTimeout = fn }

// SetOnAck registers an optional observer invoked when an Ack matches
// a live outstanding entry.
func (m *Manager) SetOnAck(fn func(wire.Message)) { m.onAck = fn }

// SetOnInbound registers the callback invoked for every decoded
// non-Ack inbound message, after any required Ack has been enqueued.
// The dispatch layer is the intended (sole) caller of this method.
func (m *Manager) SetOnInbound(fn func(wire.Message)) { m.onInbound = fn }

// GeneratePacketID allocates the next packet id.
func (m *Manager) GeneratePacketID() uint32 { return m.ids.Next() }

// Enqueue pushes msg onto the priority send queue.
func (m *Manager) Enqueue(msg wire.Message) { m.queue.Enqueue(msg) }

// Start connects the channel, clears the stop flag, and spawns the
// sender and receiver workers.
func (m *Manager) Start() error {
	if err := m.ch.Connect(); err != nil {
		return fmt.Errorf("linkmanager: connect failed: %w", err)
	}

	m.stopMu.Lock()
	m.stopped = false
	m.stopCh = make(chan struct{})
	m.stopMu.Unlock()

	m.wg.Add(2)
	go m.senderLoop()
	go m.receiverLoop()
	m.log.Info("link manager started")
	return nil
}

// Stop is cooperative: it signals both workers, joins them with a
// bounded wait, then closes the channel. Safe to call more than once.
func (m *Manager) Stop() {
	m.stopMu.Lock()
	if m.stopped {
		m.stopMu.Unlock()
		return
	}
	m.stopped = true
	close(m.stopCh)
	m.stopMu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(stopJoinTimeout):
		m.log.Warn("link manager workers did not join within the bounded wait")
	}

	if err := m.ch.Close(); err != nil {
		m.log.WithError(err).Warn("link manager: channel close failed")
	}
	m.log.Info("link manager stopped")
}

func (m *Manager) isStopping() bool {
	select {
	case <-m.stopCh:
		return true
	default:
		return false
	}
}

func (m *Manager) outstandingLen() int {
	m.outMu.Lock()
	defer m.outMu.Unlock()
	return len(m.outstanding)
}

// senderLoop is the sender worker: single threaded; retransmissions
// bypass the queue entirely. The retry sweep runs only when a dequeue
// attempt times out on an empty queue, so it does not run while new
// traffic keeps the queue non-empty.
func (m *Manager) senderLoop() {
	defer m.wg.Done()

	for !m.isStopping() {
		msg, ok := m.queue.TryDequeue(dequeuePollTimeout)
		if ok {
			m.sendNew(msg)
			continue
		}
		m.retrySweep()
	}
}

func (m *Manager) sendNew(msg wire.Message) {
	frame, err := wire.Encode(msg)
	if err != nil {
		m.log.WithError(err).WithField("packet_id", msg.Header.PacketID).Error("encode failed, dropping message")
		return
	}
	if err := m.ch.Send(frame); err != nil {
		m.log.WithError(err).WithField("packet_id", msg.Header.PacketID).Warn("transport send failed")
		return
	}
	if msg.Header.NeedAck {
		m.outMu.Lock()
		m.outstanding[msg.Header.PacketID] = &outstandingEntry{msg: msg, sendTime: time.Now()}
		m.outMu.Unlock()
	}
}

// retrySweep runs when the queue yields nothing within the dequeue
// poll window.
func (m *Manager) retrySweep() {
	now := time.Now()

	var toRetry, toGiveUp []*outstandingEntry
	m.outMu.Lock()
	for id, e := range m.outstanding {
		if now.Sub(e.sendTime) < m.cfg.AckTimeout {
			continue
		}
		if e.retries < m.cfg.MaxRetries {
			toRetry = append(toRetry, e)
		} else {
			toGiveUp = append(toGiveUp, e)
			delete(m.outstanding, id)
		}
	}
	m.outMu.Unlock()

	for _, e := range toRetry {
		if m.limiter != nil && !m.limiter.Allow() {
			// Left in place with its old send_time; picked up again
			// next sweep rather than losing a retry attempt.
			continue
		}

		m.outMu.Lock()
		e.retries++
		e.sendTime = time.Now()
		m.outMu.Unlock()

		if m.metrics != nil {
			m.metrics.incRetries()
		}

		frame, err := wire.Encode(e.msg)
		if err != nil {
			m.log.WithError(err).WithField("packet_id", e.msg.Header.PacketID).Error("retry encode failed")
			continue
		}
		if err := m.ch.Send(frame); err != nil {
			m.log.WithError(err).WithField("packet_id", e.msg.Header.PacketID).Warn("retry transport send failed")
		}
	}

	for _, e := range toGiveUp {
		if m.metrics != nil {
			m.metrics.incTimeouts()
		}
		m.log.WithField("packet_id", e.msg.Header.PacketID).Warn("ack timeout: retries exhausted")
		if m.onTimeout != nil {
			m.onTimeout(e.msg)
		}
	}
}

// receiverLoop is the receiver worker.
func (m *Manager) receiverLoop() {
	defer m.wg.Done()

	for !m.isStopping() {
		msg, ok := m.reader.ReceiveFrame()
		if !ok {
			if m.metrics != nil {
				m.metrics.incReceiveMisses()
			}
			continue
		}
		m.handleInbound(msg)
	}
}

// handleInbound handles Ack ingestion, then (if need_ack) enqueueing
// the reply Ack before dispatch, so retries on the peer stop as soon
// as possible regardless of how slow user handlers are.
func (m *Manager) handleInbound(msg wire.Message) {
	if msg.Tag == wire.TagAck {
		ack, ok := msg.Body.(wire.AckBody)
		if !ok {
			return
		}
		m.outMu.Lock()
		_, existed := m.outstanding[ack.AckID]
		delete(m.outstanding, ack.AckID)
		m.outMu.Unlock()

		if !existed {
			m.log.WithField("ack_id", ack.AckID).Debug("ack matched no outstanding entry, discarding")
			return
		}
		if m.onAck != nil {
			m.onAck(msg)
		}
		return
	}

	if msg.Header.NeedAck {
		reply := wire.Message{
			Tag: wire.TagAck,
			Header: wire.Header{
				PacketID:  m.ids.Next(),
				NeedAck:   false,
				Timestamp: wire.NowMicros(),
			},
			Body: wire.AckBody{AckID: msg.Header.PacketID},
		}
		m.Enqueue(reply)
	}

	if m.onInbound != nil {
		m.onInbound(msg)
	}
}
