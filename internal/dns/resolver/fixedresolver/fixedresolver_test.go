package fixedresolver

import (
	"context"
	"testing"

	"net"

	"github.com/kestrel-dns/kestrel/internal/dns/resolver"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/rdata"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRewritesOwnerToQueriedName(t *testing.T) {
	root := label.Root
	fixed := record.RR{Name: root, Type: codes.TypeA, Class: codes.ClassIN, TTL: 60, RData: rdata.NewA(net.ParseIP("127.0.0.1"))}
	r := New(fixed)

	qname, err := label.Parse("anything.example.")
	require.NoError(t, err)
	req := record.Message{ID: 7}
	req.AddQuestion(record.Question{Name: qname, QType: codes.TypeA, Class: codes.ClassIN})

	reply := r.Resolve(context.Background(), req, resolver.RequestInfo{})
	require.Len(t, reply.Answer, 1)
	assert.True(t, reply.Answer[0].Name.Equal(qname))
	assert.Equal(t, uint16(7), reply.ID)
}

func TestResolveWithNoQuestionReturnsEmptyReply(t *testing.T) {
	r := New()
	req := record.Message{ID: 1}
	reply := r.Resolve(context.Background(), req, resolver.RequestInfo{})
	assert.Empty(t, reply.Answer)
}
