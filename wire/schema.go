package wire

import "fmt"

// encodeBody serializes tag + header + variant body into the
// self-delimiting form carried as the frame's body. Layout:
// tag(1) | packet_id(u32) | need_ack(bool) | timestamp(u64) | variant fields...
func encodeBody(msg Message) ([]byte, error) {
	w := newWriter()
	w.putU8(uint8(msg.Tag))
	w.putU32(msg.Header.PacketID)
	w.putBool(msg.Header.NeedAck)
	w.putU64(msg.Header.Timestamp)

	switch b := msg.Body.(type) {
	case AckBody:
		w.putU32(b.AckID)
	case SyncRequestBody:
	case SyncResponseBody:
		w.putBool(b.Success)
	case ConfigRequestBody:
		w.putF32(b.Gain)
		w.putU32(b.SamplingRate)
		w.putU32(b.CenterFrequency)
		w.putU32(b.RunNum)
		w.putBool(b.EnableTestData)
		w.putU32(b.PingWidthMs)
		w.putI32(b.PingMinSNR)
		w.putF32(b.PingMaxLenMult)
		w.putF32(b.PingMinLenMult)
		w.putU32List(b.TargetFrequencies)
	case ConfigResponseBody:
		w.putBool(b.Success)
	case GPSBody:
		w.putF64(b.Easting)
		w.putF64(b.Northing)
		w.putF64(b.Altitude)
		w.putF64(b.Heading)
		w.putU32(b.EPSGCode)
	case PingBody:
		w.putU32(b.Frequency)
		w.putF64(b.Amplitude)
		w.putF64(b.Easting)
		w.putF64(b.Northing)
		w.putF64(b.Altitude)
		w.putU32(b.EPSGCode)
	case LocEstBody:
		w.putU32(b.Frequency)
		w.putF64(b.Easting)
		w.putF64(b.Northing)
		w.putU32(b.EPSGCode)
	case StartRequestBody:
	case StartResponseBody:
		w.putBool(b.Success)
	case StopRequestBody:
	case StopResponseBody:
		w.putBool(b.Success)
	case ErrorBody:
	default:
		return nil, fmt.Errorf("wire: unencodable body type %T for tag %v", msg.Body, msg.Tag)
	}

	return w.Bytes(), nil
}

// decodeBody parses the tag/header/body layout produced by encodeBody.
// Unknown tags are returned with a nil Body so the caller can log and
// drop them; malformed known-tag bodies return an error, which the
// codec turns into a rejection.
func decodeBody(data []byte) (Message, error) {
	r := newReader(data)

	tagByte, err := r.getU8()
	if err != nil {
		return Message{}, err
	}
	tag := Tag(tagByte)

	packetID, err := r.getU32()
	if err != nil {
		return Message{}, err
	}
	needAck, err := r.getBool()
	if err != nil {
		return Message{}, err
	}
	timestamp, err := r.getU64()
	if err != nil {
		return Message{}, err
	}

	hdr := Header{PacketID: packetID, NeedAck: needAck, Timestamp: timestamp}

	var body interface{}
	switch tag {
	case TagAck:
		v, err := r.getU32()
		if err != nil {
			return Message{}, err
		}
		body = AckBody{AckID: v}
	case TagSyncRequest:
		body = SyncRequestBody{}
	case TagSyncResponse:
		v, err := r.getBool()
		if err != nil {
			return Message{}, err
		}
		body = SyncResponseBody{Success: v}
	case TagConfigRequest:
		var b ConfigRequestBody
		if b.Gain, err = r.getF32(); err != nil {
			return Message{}, err
		}
		if b.SamplingRate, err = r.getU32(); err != nil {
			return Message{}, err
		}
		if b.CenterFrequency, err = r.getU32(); err != nil {
			return Message{}, err
		}
		if b.RunNum, err = r.getU32(); err != nil {
			return Message{}, err
		}
		if b.EnableTestData, err = r.getBool(); err != nil {
			return Message{}, err
		}
		if b.PingWidthMs, err = r.getU32(); err != nil {
			return Message{}, err
		}
		if b.PingMinSNR, err = r.getI32(); err != nil {
			return Message{}, err
		}
		if b.PingMaxLenMult, err = r.getF32(); err != nil {
			return Message{}, err
		}
		if b.PingMinLenMult, err = r.getF32(); err != nil {
			return Message{}, err
		}
		if b.TargetFrequencies, err = r.getU32List(); err != nil {
			return Message{}, err
		}
		body = b
	case TagConfigResponse:
		v, err := r.getBool()
		if err != nil {
			return Message{}, err
		}
		body = ConfigResponseBody{Success: v}
	case TagGPS:
		var b GPSBody
		if b.Easting, err = r.getF64(); err != nil {
			return Message{}, err
		}
		if b.Northing, err = r.getF64(); err != nil {
			return Message{}, err
		}
		if b.Altitude, err = r.getF64(); err != nil {
			return Message{}, err
		}
		if b.Heading, err = r.getF64(); err != nil {
			return Message{}, err
		}
		if b.EPSGCode, err = r.getU32(); err != nil {
			return Message{}, err
		}
		body = b
	case TagPing:
		var b PingBody
		if b.Frequency, err = r.getU32(); err != nil {
			return Message{}, err
		}
		if b.Amplitude, err = r.getF64(); err != nil {
			return Message{}, err
		}
		if b.Easting, err = r.getF64(); err != nil {
			return Message{}, err
		}
		if b.Northing, err = r.getF64(); err != nil {
			return Message{}, err
		}
		if b.Altitude, err = r.getF64(); err != nil {
			return Message{}, err
		}
		if b.EPSGCode, err = r.getU32(); err != nil {
			return Message{}, err
		}
		body = b
	case TagLocEst:
		var b LocEstBody
		if b.Frequency, err = r.getU32(); err != nil {
			return Message{}, err
		}
		if b.Easting, err = r.getF64(); err != nil {
			return Message{}, err
		}
		if b.Northing, err = r.getF64(); err != nil {
			return Message{}, err
		}
		if b.EPSGCode, err = r.getU32(); err != nil {
			return Message{}, err
		}
		body = b
	case TagStartRequest:
		body = StartRequestBody{}
	case TagStartResponse:
		v, err := r.getBool()
		if err != nil {
			return Message{}, err
		}
		body = StartResponseBody{Success: v}
	case TagStopRequest:
		body = StopRequestBody{}
	case TagStopResponse:
		v, err := r.getBool()
		if err != nil {
			return Message{}, err
		}
		body = StopResponseBody{Success: v}
	case TagError:
		body = ErrorBody{}
	default:
		// Unknown variant: header decoded fine, but there is no schema
		// to parse the remainder against. Let the caller decide.
		return Message{Tag: tag, Header: hdr, Body: nil}, nil
	}

	return Message{Tag: tag, Header: hdr, Body: body}, nil
}
