package record

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/rdata"
)

func exampleMessage(t *testing.T) *Message {
	t.Helper()
	name, err := label.Parse("example.com.")
	require.NoError(t, err)

	m := &Message{ID: 0xABCD, RD: true, OpCode: codes.OpQuery}
	m.AddQuestion(Question{Name: name, QType: codes.TypeA, Class: codes.ClassIN})

	reply := m
	reply.QR = true
	reply.RA = true
	reply.AddAnswer(RR{
		Name: name, Type: codes.TypeA, Class: codes.ClassIN, TTL: 300,
		RData: rdata.NewA(net.IPv4(93, 184, 216, 34)),
	})
	return reply
}

func TestPackParseRoundTrip(t *testing.T) {
	m := exampleMessage(t)
	data, err := m.Pack()
	require.NoError(t, err)

	got, err := Parse(data)
	require.NoError(t, err)

	eq, diff := m.Equal(got)
	assert.True(t, eq, diff)
}

func TestReplyPreservesIDAndQuestion(t *testing.T) {
	q, err := label.Parse("www.example.org.")
	require.NoError(t, err)
	query := &Message{ID: 42, RD: true, OpCode: codes.OpQuery}
	query.AddQuestion(Question{Name: q, QType: codes.TypeAAAA, Class: codes.ClassIN})

	resp := query.Reply()
	assert.Equal(t, uint16(42), resp.ID)
	assert.True(t, resp.QR)
	assert.True(t, resp.AA)
	assert.True(t, resp.RA)
	assert.True(t, resp.RD)
	require.Len(t, resp.Questions, 1)
	assert.True(t, resp.Questions[0].Name.Equal(q))
}

func TestParseRejectsTruncatedMessage(t *testing.T) {
	_, err := Parse([]byte{0, 1, 2})
	require.Error(t, err)
	var recErr *Error
	require.ErrorAs(t, err, &recErr)
}

func TestParseRejectsOversizedRDLENGTH(t *testing.T) {
	m := &Message{ID: 1}
	name, _ := label.Parse("a.")
	m.AddQuestion(Question{Name: name, QType: codes.TypeA, Class: codes.ClassIN})
	data, err := m.Pack()
	require.NoError(t, err)

	// Craft a bogus RR: no answers were packed, so appending one with a
	// deliberately wrong RDLENGTH after bumping ANCOUNT should fail parse.
	data[7] = 1 // ANCOUNT = 1
	bogus := append(data, []byte{0, 1, 0, 1, 0, 1, 0, 0, 0, 60, 0xFF, 0xFF}...)
	_, err = Parse(bogus)
	require.Error(t, err)
}

func TestEqualDetectsDifference(t *testing.T) {
	a := exampleMessage(t)
	b := exampleMessage(t)
	b.Answer[0].TTL = 60

	eq, diff := a.Equal(b)
	assert.False(t, eq)
	assert.Contains(t, diff, "ttl")
}

func TestStringRendersDigStyleSections(t *testing.T) {
	m := exampleMessage(t)
	out := m.String()
	assert.Contains(t, out, ";; ->>HEADER<<-")
	assert.Contains(t, out, ";; QUESTION SECTION:")
	assert.Contains(t, out, ";; ANSWER SECTION:")
}

func TestOPTRecordEDNSHelpers(t *testing.T) {
	opt := NewOPTRecord(4096, 0, 0, true)
	assert.Equal(t, uint16(4096), opt.UDPPayloadSize())
	assert.True(t, opt.EDNSDoBit())
	assert.Equal(t, uint8(0), opt.EDNSVersion())
}
