package transport

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/kestrel-dns/kestrel/internal/dns/common/log"
	"github.com/kestrel-dns/kestrel/internal/dns/resolver"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/record"
)

// idleTimeout closes a TCP connection that sends no further query within
// this window, per RFC 7766 §6.2.3's guidance to bound idle-connection
// resource use.
const idleTimeout = 120 * time.Second

// maxTCPMessageSize is the largest length a 2-byte RFC 1035 §4.2.2 length
// prefix can express.
const maxTCPMessageSize = 65535

// TCPTransport implements Server for DNS over TCP (RFC 1035 §4.2.2): each
// message is prefixed by its 2-byte big-endian length, one goroutine serves
// each accepted connection, and idle connections are closed after
// idleTimeout. New relative to the teacher, which only shipped UDP; built in
// its idiom (bind/accept-loop/graceful-Stop, resolver.Serve dispatch).
type TCPTransport struct {
	addr    string
	handler resolver.Handler
	logger  log.Logger

	mu       sync.Mutex
	ln       net.Listener
	running  bool
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewTCPTransport returns a TCP transport bound to addr once Start is
// called, dispatching decoded queries to handler.
func NewTCPTransport(addr string, handler resolver.Handler, logger log.Logger) *TCPTransport {
	return &TCPTransport{addr: addr, handler: handler, logger: logger, stopCh: make(chan struct{})}
}

func (t *TCPTransport) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return fmt.Errorf("tcp transport already running")
	}

	ln, err := net.Listen("tcp", t.addr)
	if err != nil {
		return fmt.Errorf("failed to bind TCP socket on %s: %w", t.addr, err)
	}
	t.ln = ln
	t.running = true
	t.logger.Info(map[string]any{"transport": "tcp", "address": t.addr}, "DNS transport started")

	go t.acceptLoop(ctx)
	return nil
}

func (t *TCPTransport) Stop() error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return nil
	}
	close(t.stopCh)
	t.running = false
	closeErr := t.ln.Close()
	t.mu.Unlock()

	t.wg.Wait()
	t.logger.Info(map[string]any{"transport": "tcp", "address": t.addr}, "DNS transport stopped")
	return closeErr
}

func (t *TCPTransport) Address() string { return t.addr }

func (t *TCPTransport) acceptLoop(ctx context.Context) {
	for {
		conn, err := t.ln.Accept()
		if err != nil {
			select {
			case <-t.stopCh:
				return
			default:
			}
			t.logger.Warn(map[string]any{"error": err.Error()}, "failed to accept TCP connection")
			return
		}
		t.wg.Add(1)
		go t.serveConn(ctx, conn)
	}
}

func (t *TCPTransport) serveConn(ctx context.Context, conn net.Conn) {
	defer t.wg.Done()
	defer conn.Close()
	peer := conn.RemoteAddr()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.stopCh:
			return
		default:
		}

		conn.SetReadDeadline(time.Now().Add(idleTimeout))

		var lenBuf [2]byte
		if _, err := io.ReadFull(conn, lenBuf[:]); err != nil {
			return
		}
		msgLen := binary.BigEndian.Uint16(lenBuf[:])

		data := make([]byte, msgLen)
		if _, err := io.ReadFull(conn, data); err != nil {
			t.logger.Warn(map[string]any{"peer": peer.String(), "error": err.Error()}, "failed to read TCP query body")
			return
		}

		req, err := record.Parse(data)
		if err != nil {
			t.logger.Warn(map[string]any{"peer": peer.String(), "error": err.Error()}, "failed to decode DNS query")
			return
		}

		reply := resolver.Serve(ctx, t.handler, t.logger, *req, resolver.RequestInfo{Peer: peer, Transport: resolver.TCP})

		out, err := reply.Pack()
		if err != nil {
			t.logger.Error(map[string]any{"peer": peer.String(), "error": err.Error()}, "failed to encode DNS response")
			return
		}
		if len(out) > maxTCPMessageSize {
			t.logger.Error(map[string]any{"peer": peer.String(), "size": len(out)}, "encoded DNS response exceeds TCP length prefix")
			return
		}

		framed := make([]byte, 2+len(out))
		binary.BigEndian.PutUint16(framed[:2], uint16(len(out)))
		copy(framed[2:], out)
		if _, err := conn.Write(framed); err != nil {
			t.logger.Error(map[string]any{"peer": peer.String(), "error": err.Error()}, "failed to send DNS response")
			return
		}
	}
}

var _ Server = (*TCPTransport)(nil)
