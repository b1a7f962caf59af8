package transport

import (
	"fmt"
	"sync"
	"time"

	"github.com/tarm/serial"
)

// SerialConfig configures the serial byte channel. Baud defaults to
// 56700 when zero.
type SerialConfig struct {
	Device      string
	Baud        int
	ReadTimeout time.Duration
}

// DefaultSerialConfig returns the default configuration for a serial
// channel opened on device.
func DefaultSerialConfig(device string) SerialConfig {
	return SerialConfig{
		Device:      device,
		Baud:        56700,
		ReadTimeout: 1 * time.Second,
	}
}

// SerialChannel is a Channel backed by a UART device path.
type SerialChannel struct {
	cfg SerialConfig

	mu   sync.Mutex
	port *serial.Port
}

// NewSerialChannel constructs a serial channel. Construction fails
// explicitly when the device path is empty,
// rather than deferring the failure to Connect.
func NewSerialChannel(cfg SerialConfig) (*SerialChannel, error) {
	if cfg.Device == "" {
		return nil, fmt.Errorf("transport: serial device must be specified")
	}
	if cfg.Baud == 0 {
		cfg.Baud = 56700
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 1 * time.Second
	}
	return &SerialChannel{cfg: cfg}, nil
}

func (c *SerialChannel) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	port, err := serial.OpenPort(&serial.Config{
		Name:        c.cfg.Device,
		Baud:        c.cfg.Baud,
		ReadTimeout: c.cfg.ReadTimeout,
	})
	if err != nil {
		return fmt.Errorf("transport: failed to open serial port %s: %w", c.cfg.Device, err)
	}
	c.port = port
	return nil
}

func (c *SerialChannel) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.port == nil {
		return ErrNotConnected
	}
	_, err := c.port.Write(data)
	return err
}

func (c *SerialChannel) Read(buf []byte) (int, error) {
	c.mu.Lock()
	port := c.port
	c.mu.Unlock()

	if port == nil {
		return 0, ErrNotConnected
	}
	n, err := port.Read(buf)
	if err != nil {
		// tarm/serial surfaces its own read-timeout as an error; the
		// frame reader treats "nothing arrived" as zero bytes, not a
		// transport failure, so absorb timeouts here.
		if isTimeout(err) {
			return 0, nil
		}
		return n, err
	}
	return n, nil
}

func (c *SerialChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.port == nil {
		return nil
	}
	err := c.port.Close()
	c.port = nil
	return err
}

func isTimeout(err error) bool {
	type timeout interface{ Timeout() bool }
	t, ok := err.(timeout)
	return ok && t.Timeout()
}
