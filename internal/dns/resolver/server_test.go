package resolver

import (
	"context"
	"net"
	"testing"

	"github.com/kestrel-dns/kestrel/internal/dns/common/log"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/record"
	"github.com/stretchr/testify/assert"
)

func sampleRequest(id uint16) record.Message {
	name, _ := label.Parse("example.com.")
	m := record.Message{ID: id, RD: true}
	m.AddQuestion(record.Question{Name: name, QType: codes.TypeA, Class: codes.ClassIN})
	return m
}

func TestServeReturnsHandlerReplyWhenIDMatches(t *testing.T) {
	req := sampleRequest(42)
	h := HandlerFunc(func(_ context.Context, r record.Message, _ RequestInfo) record.Message {
		reply := r.Reply()
		reply.RCode = codes.RCodeNoError
		return *reply
	})

	reply := Serve(context.Background(), h, log.NewNoopLogger(), req, RequestInfo{Transport: UDP})
	assert.Equal(t, uint16(42), reply.ID)
	assert.Equal(t, codes.RCodeNoError, reply.RCode)
}

func TestServeSubstitutesServfailOnIDMismatch(t *testing.T) {
	req := sampleRequest(42)
	h := HandlerFunc(func(_ context.Context, r record.Message, _ RequestInfo) record.Message {
		reply := r.Reply()
		reply.ID = 99
		return *reply
	})

	info := RequestInfo{Peer: &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 1234}, Transport: UDP}
	reply := Serve(context.Background(), h, log.NewNoopLogger(), req, info)
	assert.Equal(t, uint16(42), reply.ID)
	assert.Equal(t, codes.RCodeServFail, reply.RCode)
	assert.True(t, reply.QR)
}

func TestTransportString(t *testing.T) {
	assert.Equal(t, "udp", UDP.String())
	assert.Equal(t, "tcp", TCP.String())
}
