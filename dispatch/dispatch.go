package dispatch

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"dronelink/linkmanager"
	"dronelink/wire"
)

// Dispatcher is built on top of a linkmanager.Manager. It owns
// one observerList per non-Ack variant; Ack is never dispatched to
// user code — the manager consumes it entirely to clear the
// outstanding table.
type Dispatcher struct {
	mgr *linkmanager.Manager
	log *logrus.Entry

	nextHandle uint64 // atomic

	syncRequest    observerList[SyncRequestData]
	syncResponse   observerList[SyncResponseData]
	configRequest  observerList[ConfigRequestData]
	configResponse observerList[ConfigResponseData]
	gps            observerList[GPSData]
	ping           observerList[PingData]
	locEst         observerList[LocEstData]
	startRequest   observerList[StartRequestData]
	startResponse  observerList[StartResponseData]
	stopRequest    observerList[StopRequestData]
	stopResponse   observerList[StopResponseData]
	errorVariant   observerList[ErrorData]
}

// New builds a Dispatcher atop mgr and wires itself as the manager's
// inbound callback. mgr must not have been started yet, or must not
// yet have received traffic, since SetOnInbound simply overwrites any
// prior registration.
func New(mgr *linkmanager.Manager, log *logrus.Entry) *Dispatcher {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	d := &Dispatcher{mgr: mgr, log: log.WithField("component", "dispatch")}
	mgr.SetOnInbound(d.handleInbound)
	return d
}

func (d *Dispatcher) handle() uint64 {
	return atomic.AddUint64(&d.nextHandle, 1)
}

// handleInbound projects a decoded message into its data record and
// fans it out to the variant's observer list. Unknown variants are
// logged at debug and dropped.
func (d *Dispatcher) handleInbound(msg wire.Message) {
	hdr := msg.Header

	switch msg.Tag {
	case wire.TagSyncRequest:
		d.syncRequest.Dispatch(SyncRequestData{Header: hdr}, d.log)
	case wire.TagSyncResponse:
		b, ok := msg.Body.(wire.SyncResponseBody)
		if !ok {
			d.dropMalformed(msg)
			return
		}
		d.syncResponse.Dispatch(SyncResponseData{Header: hdr, Success: b.Success}, d.log)
	case wire.TagConfigRequest:
		b, ok := msg.Body.(wire.ConfigRequestBody)
		if !ok {
			d.dropMalformed(msg)
			return
		}
		d.configRequest.Dispatch(ConfigRequestData{
			Header: hdr, Gain: b.Gain, SamplingRate: b.SamplingRate,
			CenterFrequency: b.CenterFrequency, RunNum: b.RunNum,
			EnableTestData: b.EnableTestData, PingWidthMs: b.PingWidthMs,
			PingMinSNR: b.PingMinSNR, PingMaxLenMult: b.PingMaxLenMult,
			PingMinLenMult: b.PingMinLenMult, TargetFrequencies: b.TargetFrequencies,
		}, d.log)
	case wire.TagConfigResponse:
		b, ok := msg.Body.(wire.ConfigResponseBody)
		if !ok {
			d.dropMalformed(msg)
			return
		}
		d.configResponse.Dispatch(ConfigResponseData{Header: hdr, Success: b.Success}, d.log)
	case wire.TagGPS:
		b, ok := msg.Body.(wire.GPSBody)
		if !ok {
			d.dropMalformed(msg)
			return
		}
		d.gps.Dispatch(GPSData{
			Header: hdr, Easting: b.Easting, Northing: b.Northing,
			Altitude: b.Altitude, Heading: b.Heading, EPSGCode: b.EPSGCode,
		}, d.log)
	case wire.TagPing:
		b, ok := msg.Body.(wire.PingBody)
		if !ok {
			d.dropMalformed(msg)
			return
		}
		d.ping.Dispatch(PingData{
			Header: hdr, Frequency: b.Frequency, Amplitude: b.Amplitude,
			Easting: b.Easting, Northing: b.Northing, Altitude: b.Altitude, EPSGCode: b.EPSGCode,
		}, d.log)
	case wire.TagLocEst:
		b, ok := msg.Body.(wire.LocEstBody)
		if !ok {
			d.dropMalformed(msg)
			return
		}
		d.locEst.Dispatch(LocEstData{
			Header: hdr, Frequency: b.Frequency, Easting: b.Easting, Northing: b.Northing, EPSGCode: b.EPSGCode,
		}, d.log)
	case wire.TagStartRequest:
		d.startRequest.Dispatch(StartRequestData{Header: hdr}, d.log)
	case wire.TagStartResponse:
		b, ok := msg.Body.(wire.StartResponseBody)
		if !ok {
			d.dropMalformed(msg)
			return
		}
		d.startResponse.Dispatch(StartResponseData{Header: hdr, Success: b.Success}, d.log)
	case wire.TagStopRequest:
		d.stopRequest.Dispatch(StopRequestData{Header: hdr}, d.log)
	case wire.TagStopResponse:
		b, ok := msg.Body.(wire.StopResponseBody)
		if !ok {
			d.dropMalformed(msg)
			return
		}
		d.stopResponse.Dispatch(StopResponseData{Header: hdr, Success: b.Success}, d.log)
	case wire.TagError:
		d.errorVariant.Dispatch(ErrorData{Header: hdr}, d.log)
	case wire.TagAck:
		// Never reaches here: the manager consumes Ack entirely before
		// onInbound is invoked.
	default:
		d.log.WithField("tag", uint8(msg.Tag)).Debug("dispatch: unknown variant dropped")
	}
}

func (d *Dispatcher) dropMalformed(msg wire.Message) {
	d.log.WithField("tag", msg.Tag.Name()).Debug("dispatch: body did not match its own tag's schema, dropping")
}
