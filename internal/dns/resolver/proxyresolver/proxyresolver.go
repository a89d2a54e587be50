// Package proxyresolver implements a Handler that forwards every query
// verbatim to a list of upstream DNS servers and relays back the first
// response whose transaction id matches. Grounded on
// original_source/dnslib/proxy.py's ProxyResolver (single upstream,
// send-and-relay) generalized to the teacher's gateways/upstream.Resolver
// pattern of trying multiple servers in order with a dial hook for testing.
package proxyresolver

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/kestrel-dns/kestrel/internal/dns/common/log"
	"github.com/kestrel-dns/kestrel/internal/dns/resolver"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/record"
)

// DialFunc opens a connection to a "host:port" upstream over the given
// network ("udp" or "tcp").
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Resolver forwards queries to Servers in order, returning the first
// response it gets back whose transaction id matches the query's.
type Resolver struct {
	Servers []string
	Timeout time.Duration
	Dial    DialFunc
	logger  log.Logger
}

// New returns a Resolver that forwards to servers (each "host:port"), one at
// a time in order, giving up after timeout per server.
func New(servers []string, timeout time.Duration, logger log.Logger) *Resolver {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Resolver{
		Servers: servers,
		Timeout: timeout,
		Dial:    (&net.Dialer{}).DialContext,
		logger:  logger,
	}
}

var _ resolver.Handler = (*Resolver)(nil)

func (r *Resolver) Resolve(ctx context.Context, req record.Message, info resolver.RequestInfo) record.Message {
	network := "udp"
	if info.Transport == resolver.TCP {
		network = "tcp"
	}

	var lastErr error
	for _, server := range r.Servers {
		reply, err := r.forward(ctx, network, server, req)
		if err != nil {
			lastErr = err
			r.logger.Debug(map[string]any{"server": server, "error": err.Error()}, "proxyresolver upstream failed")
			continue
		}
		return reply
	}

	r.logger.Warn(map[string]any{"servers": r.Servers, "error": fmt.Sprint(lastErr)}, "proxyresolver: all upstream servers failed")
	servfail := req.Reply()
	servfail.RCode = codes.RCodeServFail
	return *servfail
}

func (r *Resolver) forward(ctx context.Context, network, server string, req record.Message) (record.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	conn, err := r.Dial(ctx, network, server)
	if err != nil {
		return record.Message{}, err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	data, err := req.Pack()
	if err != nil {
		return record.Message{}, err
	}
	if network == "tcp" {
		framed := make([]byte, 2+len(data))
		framed[0], framed[1] = byte(len(data)>>8), byte(len(data))
		copy(framed[2:], data)
		data = framed
	}
	if _, err := conn.Write(data); err != nil {
		return record.Message{}, err
	}

	buf := make([]byte, 65535)
	n, err := conn.Read(buf)
	if err != nil {
		return record.Message{}, err
	}
	resp := buf[:n]
	if network == "tcp" {
		if len(resp) < 2 {
			return record.Message{}, fmt.Errorf("proxyresolver: short tcp response")
		}
		resp = resp[2:]
	}

	reply, err := record.Parse(resp)
	if err != nil {
		return record.Message{}, err
	}
	if reply.ID != req.ID {
		return record.Message{}, fmt.Errorf("proxyresolver: transaction id mismatch (want %d, got %d)", req.ID, reply.ID)
	}
	return *reply, nil
}
