package proxyresolver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/kestrel-dns/kestrel/internal/dns/common/log"
	"github.com/kestrel-dns/kestrel/internal/dns/resolver"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn packs a canned reply and serves it back on Read, ignoring Write.
type fakeConn struct {
	net.Conn
	reply []byte
	read  bool
}

func (c *fakeConn) Write(b []byte) (int, error) { return len(b), nil }
func (c *fakeConn) Read(b []byte) (int, error) {
	if c.read {
		return 0, net.ErrClosed
	}
	c.read = true
	return copy(b, c.reply), nil
}
func (c *fakeConn) Close() error                     { return nil }
func (c *fakeConn) SetDeadline(t time.Time) error     { return nil }
func (c *fakeConn) SetReadDeadline(t time.Time) error { return nil }

func sampleQuery(id uint16) record.Message {
	name, _ := label.Parse("example.com.")
	m := record.Message{ID: id, RD: true}
	m.AddQuestion(record.Question{Name: name, QType: codes.TypeA, Class: codes.ClassIN})
	return m
}

func TestResolveRelaysMatchingReply(t *testing.T) {
	req := sampleQuery(11)
	reply := req.Reply()
	replyBytes, err := reply.Pack()
	require.NoError(t, err)

	r := New([]string{"1.2.3.4:53"}, time.Second, log.NewNoopLogger())
	r.Dial = func(ctx context.Context, network, address string) (net.Conn, error) {
		return &fakeConn{reply: replyBytes}, nil
	}

	got := r.Resolve(context.Background(), req, resolver.RequestInfo{Transport: resolver.UDP})
	assert.Equal(t, uint16(11), got.ID)
}

func TestResolveFallsBackOnMismatchedID(t *testing.T) {
	req := sampleQuery(11)
	badReply := req.Reply()
	badReply.ID = 999
	badBytes, err := badReply.Pack()
	require.NoError(t, err)

	r := New([]string{"1.2.3.4:53"}, time.Second, log.NewNoopLogger())
	r.Dial = func(ctx context.Context, network, address string) (net.Conn, error) {
		return &fakeConn{reply: badBytes}, nil
	}

	got := r.Resolve(context.Background(), req, resolver.RequestInfo{Transport: resolver.UDP})
	assert.Equal(t, uint16(11), got.ID)
	assert.Empty(t, got.Answer)
}

func TestResolveTriesNextServerOnDialFailure(t *testing.T) {
	req := sampleQuery(11)
	reply := req.Reply()
	replyBytes, err := reply.Pack()
	require.NoError(t, err)

	calls := 0
	r := New([]string{"10.0.0.1:53", "10.0.0.2:53"}, time.Second, log.NewNoopLogger())
	r.Dial = func(ctx context.Context, network, address string) (net.Conn, error) {
		calls++
		if address == "10.0.0.1:53" {
			return nil, net.ErrClosed
		}
		return &fakeConn{reply: replyBytes}, nil
	}

	got := r.Resolve(context.Background(), req, resolver.RequestInfo{Transport: resolver.UDP})
	assert.Equal(t, uint16(11), got.ID)
	assert.Equal(t, 2, calls)
}
