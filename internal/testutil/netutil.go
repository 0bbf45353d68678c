package testutil

import (
	"net"
	"testing"
)

// FreeAddr returns a loopback "host:port" that was free a moment ago.
// Another process may grab it before the caller listens; good enough for tests.
func FreeAddr(t testing.TB) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve TCP port: %v", err)
	}
	addr := listener.Addr().String()
	_ = listener.Close()

	return addr
}
