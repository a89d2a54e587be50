// Package resolver defines the Handler contract every DNS answering strategy
// implements, and the small framework (server.go) that drives one against a
// parsed request: transaction-id verification and SERVFAIL substitution on
// mismatch. The concrete strategies (fixedresolver, zoneresolver,
// shellresolver, proxyresolver, interceptresolver) live in subpackages so
// each can carry its own dependencies without polluting this one.
package resolver

import (
	"context"
	"net"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/record"
)

// Transport identifies which network transport carried a request, so a
// Handler can make protocol-sensitive decisions (proxyresolver forwards over
// the same transport it received the query on; TCP has no 512-byte ceiling).
type Transport int

const (
	UDP Transport = iota
	TCP
)

func (t Transport) String() string {
	if t == TCP {
		return "tcp"
	}
	return "udp"
}

// RequestInfo carries the connection metadata a Handler needs but that isn't
// part of the DNS message itself.
type RequestInfo struct {
	Peer      net.Addr
	Transport Transport
}

// Handler answers a single DNS request. Implementations must not mutate req
// after returning, and must set the same ID on the returned message that req
// carried; the framework in server.go enforces this and substitutes SERVFAIL
// when it isn't.
type Handler interface {
	Resolve(ctx context.Context, req record.Message, h RequestInfo) record.Message
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, req record.Message, h RequestInfo) record.Message

func (f HandlerFunc) Resolve(ctx context.Context, req record.Message, h RequestInfo) record.Message {
	return f(ctx, req, h)
}
