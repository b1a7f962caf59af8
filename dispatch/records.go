// Package dispatch builds the typed dispatch layer on top of
// linkmanager: per-variant observer registries, one-shot semantics,
// and data-record projection for the twelve non-Ack message variants.
package dispatch

import "dronelink/wire"

// Every data record embeds the common header fields plus the
// variant's own body fields — the user-facing projection of a decoded
// Message, handed to observers instead of the raw wire.Message.

type SyncRequestData struct {
	wire.Header
}

type SyncResponseData struct {
	wire.Header
	Success bool
}

type ConfigRequestData struct {
	wire.Header
	Gain              float32
	SamplingRate      uint32
	CenterFrequency   uint32
	RunNum            uint32
	EnableTestData    bool
	PingWidthMs       uint32
	PingMinSNR        int32
	PingMaxLenMult    float32
	PingMinLenMult    float32
	TargetFrequencies []uint32
}

type ConfigResponseData struct {
	wire.Header
	Success bool
}

type GPSData struct {
	wire.Header
	Easting  float64
	Northing float64
	Altitude float64
	Heading  float64
	EPSGCode uint32
}

type PingData struct {
	wire.Header
	Frequency uint32
	Amplitude float64
	Easting   float64
	Northing  float64
	Altitude  float64
	EPSGCode  uint32
}

type LocEstData struct {
	wire.Header
	Frequency uint32
	Easting   float64
	Northing  float64
	EPSGCode  uint32
}

type StartRequestData struct {
	wire.Header
}

type StartResponseData struct {
	wire.Header
	Success bool
}

type StopRequestData struct {
	wire.Header
}

type StopResponseData struct {
	wire.Header
	Success bool
}

type ErrorData struct {
	wire.Header
}
