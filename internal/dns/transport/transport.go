// Package transport implements the network transports (UDP, TCP) that
// decode DNS messages off the wire, drive a resolver.Handler against them,
// and encode the reply back. Both transports are adapted from the teacher's
// gateways/transport package: same Start/Stop/Address lifecycle, generalized
// from a fixed wire.DNSCodec + resolver.DNSResponder pair to the
// record.Message codec and resolver.Handler framework this module builds on.
package transport

import "context"

// Server is the lifecycle every transport implements.
type Server interface {
	// Start begins listening and handling requests until ctx is canceled or
	// Stop is called.
	Start(ctx context.Context) error

	// Stop shuts the transport down and closes its listener. TCPTransport
	// waits for its open connections to finish; UDPTransport returns
	// without waiting for packets that are still being handled.
	Stop() error

	// Address returns the address the transport is bound to.
	Address() string
}
