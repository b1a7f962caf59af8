package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// SyncMarker is the two constant bytes that begin every valid frame.
var SyncMarker = [2]byte{0xAA, 0x55}

const (
	frameHeaderLen   = 2 + 4 // sync marker + big-endian length
	frameTrailerLen  = 2     // CRC
	frameOverheadLen = frameHeaderLen + frameTrailerLen
	frameMinLen      = 8 // reject anything shorter than this outright
)

// ErrRejected is the single rejection outcome for Decode: a frame that
// is truncated, misaligned, checksum-mismatched, or fails to parse its
// body against the schema. Rejection has no subtypes visible to
// callers beyond this sentinel; loggable detail is carried in the
// wrapped error for debug logging only.
var ErrRejected = errors.New("wire: frame rejected")

// Encode assembles msg into a complete frame: sync marker, big-endian
// length, schema-encoded body, CRC-16/CCITT-FALSE trailer. Encode never
// fails for a well-formed Message.
func Encode(msg Message) ([]byte, error) {
	body, err := encodeBody(msg)
	if err != nil {
		return nil, err
	}

	frame := make([]byte, 0, frameOverheadLen+len(body))
	frame = append(frame, SyncMarker[0], SyncMarker[1])

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body)))
	frame = append(frame, lenBuf[:]...)
	frame = append(frame, body...)

	crc := CRC16(frame)
	var crcBuf [2]byte
	binary.BigEndian.PutUint16(crcBuf[:], crc)
	frame = append(frame, crcBuf[:]...)

	return frame, nil
}

// Decode validates and parses a candidate framed byte sequence. It
// returns (Message, nil) only for a frame that is exactly the claimed
// length, passes its checksum, and parses against the body schema;
// otherwise it returns ErrRejected (wrapped with detail for logging).
func Decode(frame []byte) (Message, error) {
	if len(frame) < frameMinLen {
		return Message{}, rejectf("frame shorter than minimum (%d < %d)", len(frame), frameMinLen)
	}
	if frame[0] != SyncMarker[0] || frame[1] != SyncMarker[1] {
		return Message{}, rejectf("bad sync marker % x", frame[:2])
	}

	bodyLen := binary.BigEndian.Uint32(frame[2:6])
	want := frameOverheadLen + int(bodyLen)
	if len(frame) != want {
		return Message{}, rejectf("length mismatch: header claims %d body bytes, frame is %d bytes (want %d)", bodyLen, len(frame), want)
	}

	crcRegion := frame[:frameHeaderLen+int(bodyLen)]
	wantCRC := binary.BigEndian.Uint16(frame[want-2 : want])
	gotCRC := CRC16(crcRegion)
	if gotCRC != wantCRC {
		return Message{}, rejectf("checksum mismatch: got 0x%04X, frame says 0x%04X", gotCRC, wantCRC)
	}

	body := frame[frameHeaderLen : frameHeaderLen+int(bodyLen)]
	msg, err := decodeBody(body)
	if err != nil {
		return Message{}, rejectf("body schema parse failed: %v", err)
	}

	return msg, nil
}

// rejectReason wraps ErrRejected with detail that is never surfaced to
// callers as a distinct error value (they compare against ErrRejected),
// but is useful for debug logging at the call site.
type rejectReason struct {
	detail string
}

func (r *rejectReason) Error() string { return "wire: frame rejected: " + r.detail }
func (r *rejectReason) Unwrap() error { return ErrRejected }

func rejectf(format string, args ...interface{}) error {
	return &rejectReason{detail: fmt.Sprintf(format, args...)}
}
