package recon

import (
	"context"
	"net"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestPortScannerCreationDefaults(t *testing.T) {
	logger := zap.NewNop()

	ps := NewPortScanner(0, 0, logger)
	if ps.timeout != 500*time.Millisecond {
		t.Errorf("expected default timeout 500ms, got %v", ps.timeout)
	}
	if ps.workers != 16 {
		t.Errorf("expected default workers 16, got %d", ps.workers)
	}

	ps = NewPortScanner(5*time.Second, 4, logger)
	if ps.timeout != 5*time.Second || ps.workers != 4 {
		t.Errorf("custom values not preserved: %+v", ps)
	}
}

func TestPortScannerScanFindsListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	// Temporarily narrow CommonPorts so the test doesn't probe all 16.
	orig := CommonPorts
	CommonPorts = []int{port}
	defer func() { CommonPorts = orig }()

	ps := NewPortScanner(200*time.Millisecond, 4, zap.NewNop())
	open := ps.Scan(context.Background(), "127.0.0.1")
	if len(open) != 1 || open[0].Number != port {
		t.Fatalf("Scan() = %+v, want one open port %d", open, port)
	}
}

func TestSecurePortsMatchSpec(t *testing.T) {
	want := map[int]bool{22: true, 443: true, 8443: true, 8883: true}
	for port, secure := range securePorts {
		if want[port] != secure {
			t.Errorf("securePorts[%d] = %v, want %v", port, secure, want[port])
		}
	}
	for port, secure := range want {
		if !securePorts[port] != !secure {
			t.Errorf("securePorts missing expected entry for %d", port)
		}
	}
}
