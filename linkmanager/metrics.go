package linkmanager

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a prometheus.Collector exposing the link's reliability
// state: how much is queued, how much is outstanding, how often
// retries and give-ups happen. It follows the fixed-Desc-plus-Collect
// shape: a fixed set of Desc values plus a Collect pass that reads
// current state on demand, rather than push-registering metrics as
// state changes.
//
// Registering it is the caller's responsibility; the core does not
// start its own scrape server.
type Metrics struct {
	queueDepthDesc      *prometheus.Desc
	outstandingDesc     *prometheus.Desc
	retriesDesc         *prometheus.Desc
	timeoutsDesc        *prometheus.Desc
	receiveMissesDesc   *prometheus.Desc

	retries        uint64 // atomic
	timeouts       uint64 // atomic
	receiveMisses  uint64 // atomic

	queueDepth  func() int
	outstanding func() int
}

// NewMetrics constructs a Metrics collector under the given namespace
// (e.g. "dronelink"). Manager.Metrics() builds its own collector this
// way and wires it to the manager's live queueDepth/outstanding
// readers and counters; a Metrics built here directly stays unbound
// and reports zero for those two gauges.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		queueDepthDesc: prometheus.NewDesc(
			namespace+"_send_queue_depth",
			"Number of messages currently waiting in the priority send queue.",
			nil, nil,
		),
		outstandingDesc: prometheus.NewDesc(
			namespace+"_outstanding_messages",
			"Number of ack-requiring messages currently awaiting acknowledgment.",
			nil, nil,
		),
		retriesDesc: prometheus.NewDesc(
			namespace+"_retries_total",
			"Total number of message retransmissions performed by the retry sweep.",
			nil, nil,
		),
		timeoutsDesc: prometheus.NewDesc(
			namespace+"_ack_timeouts_total",
			"Total number of outstanding messages that exhausted their retries.",
			nil, nil,
		),
		receiveMissesDesc: prometheus.NewDesc(
			namespace+"_receive_misses_total",
			"Total number of ReceiveFrame attempts that did not yield a message (read timeout or frame rejection).",
			nil, nil,
		),
	}
}

func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.queueDepthDesc
	ch <- m.outstandingDesc
	ch <- m.retriesDesc
	ch <- m.timeoutsDesc
	ch <- m.receiveMissesDesc
}

func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	queueDepth, outstanding := 0, 0
	if m.queueDepth != nil {
		queueDepth = m.queueDepth()
	}
	if m.outstanding != nil {
		outstanding = m.outstanding()
	}

	ch <- prometheus.MustNewConstMetric(m.queueDepthDesc, prometheus.GaugeValue, float64(queueDepth))
	ch <- prometheus.MustNewConstMetric(m.outstandingDesc, prometheus.GaugeValue, float64(outstanding))
	ch <- prometheus.MustNewConstMetric(m.retriesDesc, prometheus.CounterValue, float64(atomic.LoadUint64(&m.retries)))
	ch <- prometheus.MustNewConstMetric(m.timeoutsDesc, prometheus.CounterValue, float64(atomic.LoadUint64(&m.timeouts)))
	ch <- prometheus.MustNewConstMetric(m.receiveMissesDesc, prometheus.CounterValue, float64(atomic.LoadUint64(&m.receiveMisses)))
}

func (m *Metrics) incRetries()       { atomic.AddUint64(&m.retries, 1) }
func (m *Metrics) incTimeouts()      { atomic.AddUint64(&m.timeouts, 1) }
func (m *Metrics) incReceiveMisses() { atomic.AddUint64(&m.receiveMisses, 1) }

func (m *Metrics) bind(queueDepth, outstanding func() int) {
	m.queueDepth = queueDepth
	m.outstanding = outstanding
}
