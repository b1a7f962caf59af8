package wire

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrShortBuffer is returned by reader methods when the body has fewer
// bytes remaining than the field being decoded requires.
var ErrShortBuffer = errors.New("wire: short buffer")

// writer accumulates a schema-encoded message body: a small growable
// byte buffer with typed put methods for this wire format's
// fixed-width little-endian fields.
type writer struct {
	buf []byte
}

func newWriter() *writer {
	return &writer{buf: make([]byte, 0, 64)}
}

func (w *writer) Bytes() []byte { return w.buf }

func (w *writer) putU8(v uint8)  { w.buf = append(w.buf, v) }
func (w *writer) putBool(v bool) {
	if v {
		w.putU8(1)
	} else {
		w.putU8(0)
	}
}

func (w *writer) putU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) putI32(v int32) { w.putU32(uint32(v)) }

func (w *writer) putU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) putF32(v float32) { w.putU32(math.Float32bits(v)) }
func (w *writer) putF64(v float64) { w.putU64(math.Float64bits(v)) }

// putU32List writes a u16 element count followed by that many
// little-endian u32 values, making the field self-delimiting.
func (w *writer) putU32List(vs []uint32) {
	var cnt [2]byte
	binary.LittleEndian.PutUint16(cnt[:], uint16(len(vs)))
	w.buf = append(w.buf, cnt[:]...)
	for _, v := range vs {
		w.putU32(v)
	}
}

// reader consumes a schema-encoded message body left-to-right,
// returning ErrShortBuffer (wrapped into a rejection by the codec) the
// moment a field doesn't fit in what remains.
type reader struct {
	buf []byte
}

func newReader(data []byte) *reader {
	return &reader{buf: data}
}

func (r *reader) remaining() int { return len(r.buf) }

func (r *reader) getU8() (uint8, error) {
	if len(r.buf) < 1 {
		return 0, ErrShortBuffer
	}
	v := r.buf[0]
	r.buf = r.buf[1:]
	return v, nil
}

func (r *reader) getBool() (bool, error) {
	v, err := r.getU8()
	return v != 0, err
}

func (r *reader) getU32() (uint32, error) {
	if len(r.buf) < 4 {
		return 0, ErrShortBuffer
	}
	v := binary.LittleEndian.Uint32(r.buf[:4])
	r.buf = r.buf[4:]
	return v, nil
}

func (r *reader) getI32() (int32, error) {
	v, err := r.getU32()
	return int32(v), err
}

func (r *reader) getU64() (uint64, error) {
	if len(r.buf) < 8 {
		return 0, ErrShortBuffer
	}
	v := binary.LittleEndian.Uint64(r.buf[:8])
	r.buf = r.buf[8:]
	return v, nil
}

func (r *reader) getF32() (float32, error) {
	v, err := r.getU32()
	return math.Float32frombits(v), err
}

func (r *reader) getF64() (float64, error) {
	v, err := r.getU64()
	return math.Float64frombits(v), err
}

func (r *reader) getU32List() ([]uint32, error) {
	if len(r.buf) < 2 {
		return nil, ErrShortBuffer
	}
	cnt := binary.LittleEndian.Uint16(r.buf[:2])
	r.buf = r.buf[2:]
	out := make([]uint32, cnt)
	for i := range out {
		v, err := r.getU32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
