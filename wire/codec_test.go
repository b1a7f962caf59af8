package wire

import (
	"errors"
	"reflect"
	"testing"
)

func TestEncodeDecodeRoundTripAck(t *testing.T) {
	msg := Message{
		Tag: TagAck,
		Header: Header{
			PacketID:  1234,
			NeedAck:   false,
			Timestamp: 999999,
		},
		Body: AckBody{AckID: 5678},
	}

	frame, err := Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if frame[0] != 0xAA || frame[1] != 0x55 {
		t.Fatalf("frame does not begin with sync marker: % x", frame[:2])
	}

	got, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Header != msg.Header {
		t.Errorf("header mismatch: got %+v, want %+v", got.Header, msg.Header)
	}
	if got.Body.(AckBody) != msg.Body.(AckBody) {
		t.Errorf("body mismatch: got %+v, want %+v", got.Body, msg.Body)
	}
}

func TestEncodeDecodeRoundTripAllVariants(t *testing.T) {
	cases := []Message{
		{Tag: TagSyncRequest, Header: Header{PacketID: 1, NeedAck: true, Timestamp: 1}, Body: SyncRequestBody{}},
		{Tag: TagSyncResponse, Header: Header{PacketID: 2, Timestamp: 2}, Body: SyncResponseBody{Success: true}},
		{Tag: TagConfigRequest, Header: Header{PacketID: 3, NeedAck: true, Timestamp: 3}, Body: ConfigRequestBody{
			Gain: 1.5, SamplingRate: 2400000, CenterFrequency: 173500000, RunNum: 7,
			EnableTestData: true, PingWidthMs: 25, PingMinSNR: -10,
			PingMaxLenMult: 1.5, PingMinLenMult: 0.5,
			TargetFrequencies: []uint32{150000000, 173500000, 400000000},
		}},
		{Tag: TagConfigResponse, Header: Header{PacketID: 4, Timestamp: 4}, Body: ConfigResponseBody{Success: false}},
		{Tag: TagGPS, Header: Header{PacketID: 5, Timestamp: 5}, Body: GPSBody{
			Easting: 500000.1, Northing: 4100000.2, Altitude: 123.4, Heading: 270.5, EPSGCode: 32611,
		}},
		{Tag: TagPing, Header: Header{PacketID: 6, Timestamp: 6}, Body: PingBody{
			Frequency: 173500000, Amplitude: -42.1, Easting: 1, Northing: 2, Altitude: 3, EPSGCode: 4326,
		}},
		{Tag: TagLocEst, Header: Header{PacketID: 7, Timestamp: 7}, Body: LocEstBody{
			Frequency: 173500000, Easting: 10, Northing: 20, EPSGCode: 4326,
		}},
		{Tag: TagStartRequest, Header: Header{PacketID: 8, NeedAck: true, Timestamp: 8}, Body: StartRequestBody{}},
		{Tag: TagStartResponse, Header: Header{PacketID: 9, Timestamp: 9}, Body: StartResponseBody{Success: true}},
		{Tag: TagStopRequest, Header: Header{PacketID: 10, NeedAck: true, Timestamp: 10}, Body: StopRequestBody{}},
		{Tag: TagStopResponse, Header: Header{PacketID: 11, Timestamp: 11}, Body: StopResponseBody{Success: true}},
		{Tag: TagError, Header: Header{PacketID: 12, Timestamp: 12}, Body: ErrorBody{}},
	}

	for _, msg := range cases {
		frame, err := Encode(msg)
		if err != nil {
			t.Fatalf("Encode(%v): %v", msg.Tag, err)
		}
		got, err := Decode(frame)
		if err != nil {
			t.Fatalf("Decode(%v): %v", msg.Tag, err)
		}
		if got.Header != msg.Header {
			t.Errorf("%v: header mismatch: got %+v, want %+v", msg.Tag, got.Header, msg.Header)
		}
		if !reflect.DeepEqual(got.Body, msg.Body) {
			t.Errorf("%v: body mismatch: got %+v, want %+v", msg.Tag, got.Body, msg.Body)
		}
	}
}

func TestDecodeTruncatedFrame(t *testing.T) {
	// Header claims 5 body bytes, but neither body nor checksum follow.
	frame := []byte{0xAA, 0x55, 0x00, 0x00, 0x00, 0x05}
	if _, err := Decode(frame); !errors.Is(err, ErrRejected) {
		t.Fatalf("Decode(truncated) = %v, want ErrRejected", err)
	}
}

func TestDecodeBadChecksum(t *testing.T) {
	msg := Message{
		Tag:    TagSyncRequest,
		Header: Header{PacketID: 1, NeedAck: true, Timestamp: 42},
		Body:   SyncRequestBody{},
	}
	frame, err := Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	frame[len(frame)-2] = 0
	frame[len(frame)-1] = 0

	if _, err := Decode(frame); !errors.Is(err, ErrRejected) {
		t.Fatalf("Decode(bad checksum) = %v, want ErrRejected", err)
	}
}

func TestDecodeBadSyncMarker(t *testing.T) {
	msg := Message{
		Tag:    TagSyncRequest,
		Header: Header{PacketID: 1, NeedAck: true, Timestamp: 42},
		Body:   SyncRequestBody{},
	}
	frame, err := Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	frame[0] ^= 0xFF

	if _, err := Decode(frame); !errors.Is(err, ErrRejected) {
		t.Fatalf("Decode(bad sync) = %v, want ErrRejected", err)
	}
}

func TestDecodeShortTotal(t *testing.T) {
	if _, err := Decode([]byte{0xAA, 0x55, 0, 0}); !errors.Is(err, ErrRejected) {
		t.Fatalf("Decode(too short) = %v, want ErrRejected", err)
	}
}

func TestEncodeLengthFieldExact(t *testing.T) {
	msg := Message{
		Tag:    TagSyncRequest,
		Header: Header{PacketID: 1, NeedAck: true, Timestamp: 42},
		Body:   SyncRequestBody{},
	}
	frame, err := Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	bodyLen := int(frame[2])<<24 | int(frame[3])<<16 | int(frame[4])<<8 | int(frame[5])
	if len(frame) != frameOverheadLen+bodyLen {
		t.Errorf("frame length %d does not match header-claimed body length %d", len(frame), bodyLen)
	}
}
