package transport

import (
	"fmt"
	"net"
	"sync"
	"time"
)

// TCPClientConfig configures a TCP client byte channel used to
// simulate the radio link over a network socket.
type TCPClientConfig struct {
	Host        string
	Port        int
	ConnectWait time.Duration // default 10s
	ReadTimeout time.Duration // default 1s
}

// TCPClientChannel is a Channel that connects to host:port as a
// client. Only one peer connects at a time; reconnection after
// disconnect is out of scope.
type TCPClientChannel struct {
	cfg TCPClientConfig

	mu   sync.Mutex
	conn net.Conn
}

// NewTCPClientChannel constructs a TCP client channel. Fails
// construction explicitly when host or port is unset.
func NewTCPClientChannel(cfg TCPClientConfig) (*TCPClientChannel, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, fmt.Errorf("transport: TCP client requires host and port")
	}
	if cfg.ConnectWait == 0 {
		cfg.ConnectWait = 10 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 1 * time.Second
	}
	return &TCPClientChannel{cfg: cfg}, nil
}

func (c *TCPClientChannel) Connect() error {
	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	conn, err := net.DialTimeout("tcp", addr, c.cfg.ConnectWait)
	if err != nil {
		return fmt.Errorf("transport: TCP connect to %s failed: %w", addr, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	return nil
}

func (c *TCPClientChannel) Send(data []byte) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}
	_, err := conn.Write(data)
	return err
}

func (c *TCPClientChannel) Read(buf []byte) (int, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return 0, ErrNotConnected
	}

	_ = conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
	n, err := conn.Read(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return 0, nil
		}
		return n, err
	}
	return n, nil
}

func (c *TCPClientChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
