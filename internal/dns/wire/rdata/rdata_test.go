package rdata

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
)

func packAndDecode(t *testing.T, rr RDATA) RDATA {
	t.Helper()
	buf := buffer.New()
	w := label.NewWriter()
	require.NoError(t, rr.Pack(buf, w))
	length := buf.Tell()
	require.NoError(t, buf.Seek(0))
	got, err := Decode(rr.Type(), buf, length)
	require.NoError(t, err)
	return got
}

func TestARoundTrip(t *testing.T) {
	rr := NewA(net.IPv4(192, 0, 2, 1))
	got := packAndDecode(t, rr)
	assert.Equal(t, rr.String(), got.String())
}

func TestAAAARoundTrip(t *testing.T) {
	rr := NewAAAA(net.ParseIP("2001:db8::1"))
	got := packAndDecode(t, rr)
	assert.Equal(t, rr.String(), got.String())
}

func TestMXRoundTrip(t *testing.T) {
	name, _ := label.Parse("mail.example.com.")
	rr := NewMX(10, name)
	got := packAndDecode(t, rr)
	assert.Equal(t, rr.String(), got.String())
}

func TestSOARoundTrip(t *testing.T) {
	mname, _ := label.Parse("ns1.example.com.")
	rname, _ := label.Parse("hostmaster.example.com.")
	rr := NewSOA(mname, rname, 2024010100, 3600, 600, 604800, 300)
	got := packAndDecode(t, rr)
	assert.Equal(t, rr.String(), got.String())
}

func TestTXTRoundTrip(t *testing.T) {
	rr := NewTXT("hello world", "second string")
	got := packAndDecode(t, rr)
	assert.Equal(t, rr.String(), got.String())
}

func TestSRVRoundTrip(t *testing.T) {
	target, _ := label.Parse("sipserver.example.com.")
	rr := NewSRV(10, 20, 5060, target)
	got := packAndDecode(t, rr)
	assert.Equal(t, rr.String(), got.String())
}

func TestCAARoundTrip(t *testing.T) {
	rr := NewCAA(0, "issue", "letsencrypt.org")
	got := packAndDecode(t, rr)
	assert.Equal(t, rr.String(), got.String())
}

func TestHTTPSRoundTripWithParams(t *testing.T) {
	target, _ := label.Parse("svc.example.com.")
	rr := NewHTTPS(1, target, SvcParam{Key: 1, Value: encodeAlpnList([]string{"h2", "h3"})})
	got := packAndDecode(t, rr)
	assert.Equal(t, rr.String(), got.String())
}

func TestNSECBitmapRoundTrip(t *testing.T) {
	next, _ := label.Parse("host2.example.com.")
	rr := NSEC{NextDomain: next, Types: []codes.RRType{codes.TypeA, codes.TypeMX, codes.TypeRRSIG, codes.TypeNSEC}}
	got := packAndDecode(t, rr)
	assert.ElementsMatch(t, rr.Types, got.(NSEC).Types)
}

func TestOpaqueFallbackRoundTrip(t *testing.T) {
	rr := NewOpaque(codes.RRType(65280), []byte{0xDE, 0xAD, 0xBE, 0xEF})
	got := packAndDecode(t, rr)
	assert.Equal(t, rr.String(), got.String())
}

func TestOpaqueFromZoneRequiresGenericForm(t *testing.T) {
	_, err := FromZone(codes.RRType(65280), []string{"not", "generic"}, label.Root)
	require.Error(t, err)
}

func TestAFromZoneRejectsGarbage(t *testing.T) {
	_, err := FromZone(codes.TypeA, []string{"not-an-ip"}, label.Root)
	require.Error(t, err)
}
