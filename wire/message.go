package wire

// Tag identifies which of the thirteen message variants a body holds.
// Values are the wire's one-byte discriminant; the string names in
// the trailing comments are the stable wire-identity names from the
// body schema.
type Tag uint8

const (
	TagAck            Tag = iota // ack_pkt
	TagSyncRequest               // syn_rqt
	TagSyncResponse              // syn_rsp
	TagConfigRequest             // cfg_rqt
	TagConfigResponse            // cfg_rsp
	TagGPS                       // gps_pkt
	TagPing                      // ping_pkt
	TagLocEst                    // loc_pkt
	TagStartRequest              // str_rqt
	TagStartResponse             // str_rsp
	TagStopRequest               // stp_rqt
	TagStopResponse              // stp_rsp
	TagError                     // err_pkt
)

// Name returns the stable wire-identity string for a tag, or "" if the
// tag is outside the known set.
func (t Tag) Name() string {
	switch t {
	case TagAck:
		return "ack_pkt"
	case TagSyncRequest:
		return "syn_rqt"
	case TagSyncResponse:
		return "syn_rsp"
	case TagConfigRequest:
		return "cfg_rqt"
	case TagConfigResponse:
		return "cfg_rsp"
	case TagGPS:
		return "gps_pkt"
	case TagPing:
		return "ping_pkt"
	case TagLocEst:
		return "loc_pkt"
	case TagStartRequest:
		return "str_rqt"
	case TagStartResponse:
		return "str_rsp"
	case TagStopRequest:
		return "stp_rqt"
	case TagStopResponse:
		return "stp_rsp"
	case TagError:
		return "err_pkt"
	default:
		return ""
	}
}

// Known reports whether t is one of the thirteen defined variants.
func (t Tag) Known() bool {
	return t <= TagError
}

// Header is carried by every message variant.
type Header struct {
	PacketID  uint32 // unsigned 31-bit, nonzero
	NeedAck   bool
	Timestamp uint64 // microseconds since the Unix epoch
}

// Message is the tagged-union value decoded from, or to be encoded
// into, a single frame. Body holds the variant body struct selected by
// Tag (nil for a decoded frame whose tag is not a known variant).
type Message struct {
	Tag    Tag
	Header Header
	Body   interface{}
}

// Body variants. Field order here is the wire order; numeric fields are little-endian on the wire.

type AckBody struct {
	AckID uint32
}

type SyncRequestBody struct{}

type SyncResponseBody struct {
	Success bool
}

type ConfigRequestBody struct {
	Gain               float32
	SamplingRate       uint32
	CenterFrequency    uint32
	RunNum             uint32
	EnableTestData     bool
	PingWidthMs        uint32
	PingMinSNR         int32
	PingMaxLenMult     float32
	PingMinLenMult     float32
	TargetFrequencies  []uint32
}

type ConfigResponseBody struct {
	Success bool
}

type GPSBody struct {
	Easting  float64
	Northing float64
	Altitude float64
	Heading  float64
	EPSGCode uint32
}

type PingBody struct {
	Frequency uint32
	Amplitude float64
	Easting   float64
	Northing  float64
	Altitude  float64
	EPSGCode  uint32
}

type LocEstBody struct {
	Frequency uint32
	Easting   float64
	Northing  float64
	EPSGCode  uint32
}

type StartRequestBody struct{}

type StartResponseBody struct {
	Success bool
}

type StopRequestBody struct{}

type StopResponseBody struct {
	Success bool
}

type ErrorBody struct{}

// NeedAckDefault returns the default need_ack value for a tag.
// Callers building a message may override it, but the send API
// (dispatch) never does for anything but Ack (which is never produced
// through the send API at all).
func (t Tag) NeedAckDefault() bool {
	switch t {
	case TagSyncRequest, TagConfigRequest, TagStartRequest, TagStopRequest:
		return true
	default:
		return false
	}
}
