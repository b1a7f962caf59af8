// Package framereader extracts whole frames from an unreliable byte
// stream under a bounded per-frame read deadline.
package framereader

import (
	"encoding/binary"
	"time"

	"github.com/sirupsen/logrus"

	"dronelink/transport"
	"dronelink/wire"
)

const pollInterval = 10 * time.Millisecond

// DefaultReadTimeout bounds each ReceiveFrame attempt.
const DefaultReadTimeout = 1 * time.Second

// maxBodyLen bounds how much a single claimed length header can make
// the reader allocate before the checksum even gets a chance to reject
// it; a corrupted or malicious length field otherwise turns into an
// unbounded allocation request. 1 MiB is generously above anything the
// 13 known variants ever produce.
const maxBodyLen = 1 << 20

// Reader layers frame extraction atop a transport.Channel. It keeps no
// partial-frame state across calls: a call that times out mid-frame
// discards what it read, and the next call resynchronizes on the next
// sync marker it sees.
type Reader struct {
	ch          transport.Channel
	readTimeout time.Duration
	log         *logrus.Entry
}

// New constructs a Reader. readTimeout defaults to DefaultReadTimeout
// when zero.
func New(ch transport.Channel, readTimeout time.Duration, log *logrus.Entry) *Reader {
	if readTimeout == 0 {
		readTimeout = DefaultReadTimeout
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Reader{ch: ch, readTimeout: readTimeout, log: log.WithField("component", "framereader")}
}

// ReceiveFrame attempts to read one whole frame within the configured
// read timeout. ok is false both when the deadline elapses before a
// full frame arrives and when the bytes that did arrive fail to
// decode — the two cases are indistinguishable to the caller by
// design; only the (never returned to callers) debug log line says
// which one happened.
func (r *Reader) ReceiveFrame() (wire.Message, bool) {
	deadline := time.Now().Add(r.readTimeout)

	sync := make([]byte, 2)
	if !r.readExactly(sync, deadline) {
		return wire.Message{}, false
	}
	if sync[0] != wire.SyncMarker[0] || sync[1] != wire.SyncMarker[1] {
		r.log.WithField("bytes", sync).Debug("frame reader: discarding bytes, no sync marker")
		return wire.Message{}, false
	}

	lenBytes := make([]byte, 4)
	if !r.readExactly(lenBytes, deadline) {
		return wire.Message{}, false
	}
	bodyLen := binary.BigEndian.Uint32(lenBytes)
	if bodyLen > maxBodyLen {
		r.log.WithField("claimed_len", bodyLen).Debug("frame reader: claimed body length out of bounds")
		return wire.Message{}, false
	}

	body := make([]byte, bodyLen)
	if !r.readExactly(body, deadline) {
		return wire.Message{}, false
	}

	crcBytes := make([]byte, 2)
	if !r.readExactly(crcBytes, deadline) {
		return wire.Message{}, false
	}

	frame := make([]byte, 0, 2+4+len(body)+2)
	frame = append(frame, sync...)
	frame = append(frame, lenBytes...)
	frame = append(frame, body...)
	frame = append(frame, crcBytes...)

	msg, err := wire.Decode(frame)
	if err != nil {
		r.log.WithError(err).Debug("frame reader: decode rejected frame")
		return wire.Message{}, false
	}
	return msg, true
}

// readExactly fills buf completely, sleeping briefly between short
// reads, and reports whether it did so before deadline.
func (r *Reader) readExactly(buf []byte, deadline time.Time) bool {
	got := 0
	for got < len(buf) {
		if time.Now().After(deadline) {
			return false
		}
		n, err := r.ch.Read(buf[got:])
		if err != nil {
			r.log.WithError(err).Debug("frame reader: transport read error")
			return false
		}
		got += n
		if got < len(buf) {
			if time.Now().After(deadline) {
				return false
			}
			time.Sleep(pollInterval)
		}
	}
	return true
}
