package dig

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/rdata"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/record"
)

func TestParseRoundTripsRenderedMessage(t *testing.T) {
	name, err := label.Parse("example.com.")
	require.NoError(t, err)

	orig := &record.Message{ID: 7, QR: true, RA: true, RD: true, OpCode: codes.OpQuery}
	orig.AddQuestion(record.Question{Name: name, QType: codes.TypeA, Class: codes.ClassIN})
	orig.AddAnswer(record.RR{
		Name: name, Type: codes.TypeA, Class: codes.ClassIN, TTL: 300,
		RData: rdata.NewA(net.IPv4(93, 184, 216, 34)),
	})

	got, err := Parse(orig.String())
	require.NoError(t, err)

	eq, diff := orig.Equal(got)
	assert.True(t, eq, diff)
}

func TestParseHandlesOPTPseudosection(t *testing.T) {
	text := `;; ->>HEADER<<- opcode: QUERY, status: NOERROR, id: 99
;; flags: qr rd ra; QUERY: 1, ANSWER: 0, AUTHORITY: 0, ADDITIONAL: 1

;; QUESTION SECTION:
;example.com.		IN	A

;; OPT PSEUDOSECTION:
; EDNS: version: 0, flags: do; udp: 4096

`
	m, err := Parse(text)
	require.NoError(t, err)
	opt, ok := m.EDNS()
	require.True(t, ok)
	assert.True(t, opt.EDNSDoBit())
	assert.Equal(t, uint16(4096), opt.UDPPayloadSize())
	assert.Equal(t, uint8(0), opt.EDNSVersion())
}

func TestParseTXTWithEmbeddedSpaces(t *testing.T) {
	text := `;; ->>HEADER<<- opcode: QUERY, status: NOERROR, id: 1
;; flags: qr; QUERY: 0, ANSWER: 1, AUTHORITY: 0, ADDITIONAL: 0

;; ANSWER SECTION:
abc.example.com.	300	IN	TXT	"A B C"

`
	m, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, m.Answer, 1)
	txt, ok := m.Answer[0].RData.(rdata.TXT)
	require.True(t, ok)
	assert.Equal(t, []string{"A B C"}, txt.Strings)
}

func TestSplitFieldsKeepsQuotedSpanWhole(t *testing.T) {
	got := splitFields(`abc.example.com. 300 IN TXT "A B C"`)
	assert.Equal(t, []string{"abc.example.com.", "300", "IN", "TXT", `"A B C"`}, got)
}
