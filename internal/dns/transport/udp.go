package transport

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/kestrel-dns/kestrel/internal/dns/common/log"
	"github.com/kestrel-dns/kestrel/internal/dns/resolver"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/record"
)

// udpReadBufferSize is the largest UDP DNS message this transport will read:
// the 16-bit maximum, well above RFC 1035 §2.3.4's 512-byte limit for
// messages without EDNS0, so any EDNS0-advertised payload size fits.
const udpReadBufferSize = 65535

// UDPTransport implements Server for DNS over UDP (RFC 1035). Adapted from
// the teacher's gateways/transport.UDPTransport: same bind/listen-loop/
// graceful-stop shape, generalized to call resolver.Serve with a
// record.Message instead of decoding into a codec-specific domain.DNSQuery.
type UDPTransport struct {
	addr    string
	handler resolver.Handler
	logger  log.Logger

	mu      sync.RWMutex
	conn    *net.UDPConn
	running bool
	stopCh  chan struct{}
}

// NewUDPTransport returns a UDP transport bound to addr once Start is
// called, dispatching decoded queries to handler.
func NewUDPTransport(addr string, handler resolver.Handler, logger log.Logger) *UDPTransport {
	return &UDPTransport{addr: addr, handler: handler, logger: logger, stopCh: make(chan struct{})}
}

func (t *UDPTransport) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return fmt.Errorf("udp transport already running")
	}

	udpAddr, err := net.ResolveUDPAddr("udp", t.addr)
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address %s: %w", t.addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("failed to bind UDP socket on %s: %w", t.addr, err)
	}

	t.conn = conn
	t.running = true
	t.logger.Info(map[string]any{"transport": "udp", "address": t.addr}, "DNS transport started")

	go t.listenLoop(ctx)
	return nil
}

func (t *UDPTransport) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return nil
	}
	close(t.stopCh)
	var closeErr error
	if t.conn != nil {
		closeErr = t.conn.Close()
	}
	t.running = false
	t.logger.Info(map[string]any{"transport": "udp", "address": t.addr}, "DNS transport stopped")
	return closeErr
}

func (t *UDPTransport) Address() string { return t.addr }

func (t *UDPTransport) listenLoop(ctx context.Context) {
	buf := make([]byte, udpReadBufferSize)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.stopCh:
			return
		default:
		}

		n, peer, err := t.conn.ReadFromUDP(buf)
		if err != nil {
			t.mu.RLock()
			running := t.running
			t.mu.RUnlock()
			if !running {
				return
			}
			t.logger.Warn(map[string]any{"error": err.Error()}, "failed to read UDP packet")
			continue
		}
		packet := make([]byte, n)
		copy(packet, buf[:n])
		go t.handlePacket(ctx, packet, peer)
	}
}

func (t *UDPTransport) handlePacket(ctx context.Context, data []byte, peer *net.UDPAddr) {
	req, err := record.Parse(data)
	if err != nil {
		t.logger.Warn(map[string]any{"peer": peer.String(), "error": err.Error()}, "failed to decode DNS query")
		return
	}

	reply := resolver.Serve(ctx, t.handler, t.logger, *req, resolver.RequestInfo{Peer: peer, Transport: resolver.UDP})

	out, err := reply.Pack()
	if err != nil {
		t.logger.Error(map[string]any{"peer": peer.String(), "error": err.Error()}, "failed to encode DNS response")
		return
	}
	if _, err := t.conn.WriteToUDP(out, peer); err != nil {
		t.logger.Error(map[string]any{"peer": peer.String(), "error": err.Error()}, "failed to send DNS response")
	}
}

var _ Server = (*UDPTransport)(nil)
