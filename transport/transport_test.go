package transport

import "testing"

func TestLoopbackPairSendRead(t *testing.T) {
	a, b := LoopbackPair()
	if err := a.Connect(); err != nil {
		t.Fatalf("a.Connect: %v", err)
	}
	if err := b.Connect(); err != nil {
		t.Fatalf("b.Connect: %v", err)
	}
	defer a.Close()
	defer b.Close()

	if err := a.Send([]byte("hello")); err != nil {
		t.Fatalf("a.Send: %v", err)
	}

	buf := make([]byte, 16)
	n, err := b.Read(buf)
	if err != nil {
		t.Fatalf("b.Read: %v", err)
	}
	if string(buf[:n]) != "hello" {
		t.Errorf("b.Read = %q, want %q", buf[:n], "hello")
	}
}

func TestLoopbackReadBeforeConnect(t *testing.T) {
	a, _ := LoopbackPair()
	buf := make([]byte, 4)
	if _, err := a.Read(buf); err != ErrNotConnected {
		t.Errorf("Read before Connect = %v, want ErrNotConnected", err)
	}
}

func TestSerialConfigRejectsEmptyDevice(t *testing.T) {
	if _, err := NewSerialChannel(SerialConfig{}); err == nil {
		t.Error("NewSerialChannel with empty device should fail")
	}
}

func TestSerialDefaultConfig(t *testing.T) {
	cfg := DefaultSerialConfig("/dev/ttyUSB0")
	if cfg.Baud != 56700 {
		t.Errorf("default baud = %d, want 56700", cfg.Baud)
	}
}

func TestTCPClientConfigRejectsMissingHost(t *testing.T) {
	if _, err := NewTCPClientChannel(TCPClientConfig{Port: 5000}); err == nil {
		t.Error("NewTCPClientChannel with empty host should fail")
	}
}

func TestTCPServerConfigRejectsMissingPort(t *testing.T) {
	if _, err := NewTCPServerChannel(TCPServerConfig{Host: "localhost"}); err == nil {
		t.Error("NewTCPServerChannel with zero port should fail")
	}
}
