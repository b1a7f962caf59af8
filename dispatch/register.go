package dispatch

// Registration handle type: an opaque token identifying one
// registered observer, returned by each On* method and consumed by
// the matching Off* method.
type Handle uint64

func (d *Dispatcher) OnSyncRequest(fn func(SyncRequestData), once bool) Handle {
	h := d.handle()
	d.syncRequest.Register(h, once, fn)
	return Handle(h)
}
func (d *Dispatcher) OffSyncRequest(h Handle) bool { return d.syncRequest.Unregister(uint64(h)) }

func (d *Dispatcher) OnSyncResponse(fn func(SyncResponseData), once bool) Handle {
	h := d.handle()
	d.syncResponse.Register(h, once, fn)
	return Handle(h)
}
func (d *Dispatcher) OffSyncResponse(h Handle) bool { return d.syncResponse.Unregister(uint64(h)) }

func (d *Dispatcher) OnConfigRequest(fn func(ConfigRequestData), once bool) Handle {
	h := d.handle()
	d.configRequest.Register(h, once, fn)
	return Handle(h)
}
func (d *Dispatcher) OffConfigRequest(h Handle) bool { return d.configRequest.Unregister(uint64(h)) }

func (d *Dispatcher) OnConfigResponse(fn func(ConfigResponseData), once bool) Handle {
	h := d.handle()
	d.configResponse.Register(h, once, fn)
	return Handle(h)
}
func (d *Dispatcher) OffConfigResponse(h Handle) bool {
	return d.configResponse.Unregister(uint64(h))
}

func (d *Dispatcher) OnGPS(fn func(GPSData), once bool) Handle {
	h := d.handle()
	d.gps.Register(h, once, fn)
	return Handle(h)
}
func (d *Dispatcher) OffGPS(h Handle) bool { return d.gps.Unregister(uint64(h)) }

func (d *Dispatcher) OnPing(fn func(PingData), once bool) Handle {
	h := d.handle()
	d.ping.Register(h, once, fn)
	return Handle(h)
}
func (d *Dispatcher) OffPing(h Handle) bool { return d.ping.Unregister(uint64(h)) }

func (d *Dispatcher) OnLocEst(fn func(LocEstData), once bool) Handle {
	h := d.handle()
	d.locEst.Register(h, once, fn)
	return Handle(h)
}
func (d *Dispatcher) OffLocEst(h Handle) bool { return d.locEst.Unregister(uint64(h)) }

func (d *Dispatcher) OnStartRequest(fn func(StartRequestData), once bool) Handle {
	h := d.handle()
	d.startRequest.Register(h, once, fn)
	return Handle(h)
}
func (d *Dispatcher) OffStartRequest(h Handle) bool { return d.startRequest.Unregister(uint64(h)) }

func (d *Dispatcher) OnStartResponse(fn func(StartResponseData), once bool) Handle {
	h := d.handle()
	d.startResponse.Register(h, once, fn)
	return Handle(h)
}
func (d *Dispatcher) OffStartResponse(h Handle) bool {
	return d.startResponse.Unregister(uint64(h))
}

func (d *Dispatcher) OnStopRequest(fn func(StopRequestData), once bool) Handle {
	h := d.handle()
	d.stopRequest.Register(h, once, fn)
	return Handle(h)
}
func (d *Dispatcher) OffStopRequest(h Handle) bool { return d.stopRequest.Unregister(uint64(h)) }

func (d *Dispatcher) OnStopResponse(fn func(StopResponseData), once bool) Handle {
	h := d.handle()
	d.stopResponse.Register(h, once, fn)
	return Handle(h)
}
func (d *Dispatcher) OffStopResponse(h Handle) bool {
	return d.stopResponse.Unregister(uint64(h))
}

func (d *Dispatcher) OnError(fn func(ErrorData), once bool) Handle {
	h := d.handle()
	d.errorVariant.Register(h, once, fn)
	return Handle(h)
}
func (d *Dispatcher) OffError(h Handle) bool { return d.errorVariant.Unregister(uint64(h)) }
