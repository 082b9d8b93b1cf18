// Package netutil provides small networking helpers shared by quasar
// services.
package netutil

import (
	"fmt"
	"net"
)

// NextFreePort asks the OS for a currently free TCP port. The probe
// listener is closed before returning, so another process can still grab
// the port before the caller binds it; callers that need certainty must
// retry on bind failure.
func NextFreePort() (int, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("probe free port: %w", err)
	}
	defer func() { _ = ln.Close() }()

	addr, ok := ln.Addr().(*net.TCPAddr)
	if !ok {
		return 0, fmt.Errorf("unexpected listener address type %T", ln.Addr())
	}
	return addr.Port, nil
}
