package dispatch

import (
	"sync"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"dronelink/linkmanager"
	"dronelink/transport"
	"dronelink/wire"
)

func newLinkedDispatchers(t *testing.T) (*Dispatcher, *Dispatcher, *linkmanager.Manager, *linkmanager.Manager) {
	t.Helper()
	cfg := linkmanager.DefaultConfig()
	cfg.AckTimeout = 200 * time.Millisecond
	cfg.ReadTimeout = 50 * time.Millisecond

	chA, chB := transport.LoopbackPair()
	mgrA := linkmanager.New(chA, cfg, nil)
	mgrB := linkmanager.New(chB, cfg, nil)
	assert.NilError(t, mgrA.Start())
	assert.NilError(t, mgrB.Start())
	t.Cleanup(func() {
		mgrA.Stop()
		mgrB.Stop()
	})

	return New(mgrA, nil), New(mgrB, nil), mgrA, mgrB
}

func TestDispatchConfigResponseInvokedOnce(t *testing.T) {
	a, b, _, _ := newLinkedDispatchers(t)

	var mu sync.Mutex
	var calls int
	var lastSuccess bool
	done := make(chan struct{}, 1)
	b.OnConfigResponse(func(data ConfigResponseData) {
		mu.Lock()
		calls++
		lastSuccess = data.Success
		mu.Unlock()
		select {
		case done <- struct{}{}:
		default:
		}
	}, false)

	a.SendConfigResponse(true)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for ConfigResponse dispatch")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, calls, 1)
	assert.Assert(t, lastSuccess)
}

func TestDispatchOnceObserverFiresOnlyOnce(t *testing.T) {
	a, b, _, _ := newLinkedDispatchers(t)

	var mu sync.Mutex
	var calls int
	first := make(chan struct{}, 1)
	b.OnSyncResponse(func(data SyncResponseData) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			select {
			case first <- struct{}{}:
			default:
			}
		}
	}, true)

	a.SendSyncResponse(true)
	select {
	case <-first:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for first SyncResponse dispatch")
	}

	a.SendSyncResponse(false)
	time.Sleep(300 * time.Millisecond) // give a second delivery a chance to land, if it wrongly would

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, calls, 1, "a once=true observer must not fire a second time")
}

func TestDispatchUnregisterStopsDelivery(t *testing.T) {
	a, b, _, _ := newLinkedDispatchers(t)

	var mu sync.Mutex
	var calls int
	h := b.OnPing(func(PingData) {
		mu.Lock()
		calls++
		mu.Unlock()
	}, false)
	assert.Assert(t, b.OffPing(h))

	a.SendPing(wire.PingBody{Frequency: 162025000, Amplitude: -30.5})
	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, calls, 0, "unregistered observer must not be invoked")
}

func TestDispatchErrorVariantRoundTrips(t *testing.T) {
	a, b, _, _ := newLinkedDispatchers(t)

	done := make(chan ErrorData, 1)
	b.OnError(func(data ErrorData) {
		select {
		case done <- data:
		default:
		}
	}, false)

	a.SendError()

	select {
	case data := <-done:
		assert.Assert(t, data.PacketID != 0)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Error dispatch")
	}
}

func TestDispatchMalformedBodyDroppedNotDelivered(t *testing.T) {
	ch, _ := transport.LoopbackPair()
	d := New(linkmanager.New(ch, linkmanager.DefaultConfig(), nil), nil)

	var mu sync.Mutex
	var calls int
	d.OnGPS(func(GPSData) {
		mu.Lock()
		calls++
		mu.Unlock()
	}, false)

	// A GPS-tagged message whose body doesn't match the GPS schema must
	// be dropped by handleInbound's type assertion, not delivered.
	d.handleInbound(wire.Message{
		Tag:    wire.TagGPS,
		Header: wire.Header{PacketID: 1, Timestamp: 1},
		Body:   wire.PingBody{Frequency: 1},
	})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, calls, 0)
}

func TestDispatchUnknownVariantDropped(t *testing.T) {
	ch, _ := transport.LoopbackPair()
	d := New(linkmanager.New(ch, linkmanager.DefaultConfig(), nil), nil)
	// Tag 0xFF is not one of the thirteen known variants; handleInbound
	// must fall through its default case without panicking.
	d.handleInbound(wire.Message{Tag: wire.Tag(0xFF), Header: wire.Header{PacketID: 1}})
}
