package framereader

import (
	"testing"
	"time"

	"dronelink/transport"
	"dronelink/wire"
)

func connectedLoopback(t *testing.T) (transport.Channel, transport.Channel) {
	t.Helper()
	a, b := transport.LoopbackPair()
	if err := a.Connect(); err != nil {
		t.Fatalf("a.Connect: %v", err)
	}
	if err := b.Connect(); err != nil {
		t.Fatalf("b.Connect: %v", err)
	}
	return a, b
}

func TestReceiveFrameSuccess(t *testing.T) {
	a, b := connectedLoopback(t)
	defer a.Close()
	defer b.Close()

	msg := wire.Message{
		Tag:    wire.TagConfigResponse,
		Header: wire.Header{PacketID: 7, Timestamp: 123},
		Body:   wire.ConfigResponseBody{Success: true},
	}
	frame, err := wire.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := a.Send(frame); err != nil {
		t.Fatalf("Send: %v", err)
	}

	r := New(b, 500*time.Millisecond, nil)
	got, ok := r.ReceiveFrame()
	if !ok {
		t.Fatal("ReceiveFrame returned none, want a message")
	}
	if got.Header != msg.Header {
		t.Errorf("header mismatch: got %+v, want %+v", got.Header, msg.Header)
	}
}

func TestReceiveFrameTimesOutOnSilence(t *testing.T) {
	_, b := connectedLoopback(t)
	defer b.Close()

	r := New(b, 50*time.Millisecond, nil)
	start := time.Now()
	_, ok := r.ReceiveFrame()
	if ok {
		t.Fatal("ReceiveFrame should return none when nothing arrives")
	}
	if time.Since(start) < 50*time.Millisecond {
		t.Error("ReceiveFrame returned before the read timeout elapsed")
	}
}

func TestReceiveFrameRejectsGarbage(t *testing.T) {
	a, b := connectedLoopback(t)
	defer a.Close()
	defer b.Close()

	if err := a.Send([]byte{0x00, 0x01, 0x02, 0x03}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	r := New(b, 200*time.Millisecond, nil)
	if _, ok := r.ReceiveFrame(); ok {
		t.Fatal("ReceiveFrame should reject non-sync-marker garbage")
	}
}

func TestReceiveFrameRejectsTruncated(t *testing.T) {
	a, b := connectedLoopback(t)
	defer a.Close()
	defer b.Close()

	// Claims a 5-byte body, sends only the header.
	if err := a.Send([]byte{0xAA, 0x55, 0x00, 0x00, 0x00, 0x05}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	r := New(b, 100*time.Millisecond, nil)
	if _, ok := r.ReceiveFrame(); ok {
		t.Fatal("ReceiveFrame should time out on a truncated frame, not succeed")
	}
}
