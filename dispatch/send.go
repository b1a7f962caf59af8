package dispatch

import "dronelink/wire"

// send assembles a message of the given tag (allocating a fresh packet
// id, stamping the current microsecond timestamp, setting need_ack per
// the variant's default), enqueues it on the manager, and returns
// (packet_id, need_ack, timestamp). The Ack variant has no send
// method: only the inbound handler ever produces one.
func (d *Dispatcher) send(tag wire.Tag, body interface{}) (packetID uint32, needAck bool, timestamp uint64) {
	packetID = d.mgr.GeneratePacketID()
	needAck = tag.NeedAckDefault()
	timestamp = wire.NowMicros()

	d.mgr.Enqueue(wire.Message{
		Tag:    tag,
		Header: wire.Header{PacketID: packetID, NeedAck: needAck, Timestamp: timestamp},
		Body:   body,
	})
	return packetID, needAck, timestamp
}

func (d *Dispatcher) SendSyncRequest() (uint32, bool, uint64) {
	return d.send(wire.TagSyncRequest, wire.SyncRequestBody{})
}

func (d *Dispatcher) SendSyncResponse(success bool) (uint32, bool, uint64) {
	return d.send(wire.TagSyncResponse, wire.SyncResponseBody{Success: success})
}

func (d *Dispatcher) SendConfigRequest(body wire.ConfigRequestBody) (uint32, bool, uint64) {
	return d.send(wire.TagConfigRequest, body)
}

func (d *Dispatcher) SendConfigResponse(success bool) (uint32, bool, uint64) {
	return d.send(wire.TagConfigResponse, wire.ConfigResponseBody{Success: success})
}

func (d *Dispatcher) SendGPS(body wire.GPSBody) (uint32, bool, uint64) {
	return d.send(wire.TagGPS, body)
}

func (d *Dispatcher) SendPing(body wire.PingBody) (uint32, bool, uint64) {
	return d.send(wire.TagPing, body)
}

func (d *Dispatcher) SendLocEst(body wire.LocEstBody) (uint32, bool, uint64) {
	return d.send(wire.TagLocEst, body)
}

func (d *Dispatcher) SendStartRequest() (uint32, bool, uint64) {
	return d.send(wire.TagStartRequest, wire.StartRequestBody{})
}

func (d *Dispatcher) SendStartResponse(success bool) (uint32, bool, uint64) {
	return d.send(wire.TagStartResponse, wire.StartResponseBody{Success: success})
}

func (d *Dispatcher) SendStopRequest() (uint32, bool, uint64) {
	return d.send(wire.TagStopRequest, wire.StopRequestBody{})
}

func (d *Dispatcher) SendStopResponse(success bool) (uint32, bool, uint64) {
	return d.send(wire.TagStopResponse, wire.StopResponseBody{Success: success})
}

func (d *Dispatcher) SendError() (uint32, bool, uint64) {
	return d.send(wire.TagError, wire.ErrorBody{})
}
