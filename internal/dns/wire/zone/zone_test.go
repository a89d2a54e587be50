package zone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/rdata"
)

func mustLabel(t *testing.T, s string) label.Label {
	t.Helper()
	l, err := label.Parse(s)
	require.NoError(t, err)
	return l
}

func TestParseSimpleRecord(t *testing.T) {
	p := New("www.example.com. 60 IN A 1.2.3.4\n", label.Root, 0)
	rr, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, rr)

	assert.True(t, rr.Name.Equal(mustLabel(t, "www.example.com.")))
	assert.Equal(t, uint32(60), rr.TTL)
	assert.Equal(t, codes.ClassIN, rr.Class)
	assert.Equal(t, codes.TypeA, rr.Type)
	assert.Equal(t, "1.2.3.4", rr.RData.String())
}

func TestParseZoneWithOriginTTLAndContinuation(t *testing.T) {
	zone := `
$ORIGIN example.com.
$TTL 90m

@           IN  SOA     ns1.example.com. admin.example.com. (
                            2014020901  ; Serial
                            10800   ; Refresh
                            1800    ; Retry
                            604800  ; Expire
                            86400 ) ; Minimum TTL

     1800   IN  NS      ns1.example.com.
            IN  MX      ( 10  mail.example.com. )

abc         IN  A       1.2.3.4
            IN  TXT     "A B C"

ns1   60    IN  A       6.7.8.9
`
	p := New(zone, label.Root, 0)
	rrs, err := p.All()
	require.NoError(t, err)
	require.Len(t, rrs, 6)

	origin := mustLabel(t, "example.com.")
	assert.True(t, rrs[0].Name.Equal(origin))
	assert.Equal(t, codes.TypeSOA, rrs[0].Type)
	assert.Equal(t, uint32(5400), rrs[0].TTL) // inherited $TTL 90m

	assert.True(t, rrs[1].Name.Equal(origin))
	assert.Equal(t, codes.TypeNS, rrs[1].Type)
	assert.Equal(t, uint32(1800), rrs[1].TTL)

	// blank owner reuses "example.com." from the NS line above
	assert.True(t, rrs[2].Name.Equal(origin))
	assert.Equal(t, codes.TypeMX, rrs[2].Type)

	assert.True(t, rrs[3].Name.Equal(mustLabel(t, "abc.example.com.")))
	assert.Equal(t, codes.TypeA, rrs[3].Type)

	// blank owner reuses "abc.example.com." from the A line above
	assert.True(t, rrs[4].Name.Equal(mustLabel(t, "abc.example.com.")))
	assert.Equal(t, codes.TypeTXT, rrs[4].Type)
	txt, ok := rrs[4].RData.(rdata.TXT)
	require.True(t, ok)
	assert.Equal(t, []string{"A B C"}, txt.Strings)

	assert.True(t, rrs[5].Name.Equal(mustLabel(t, "ns1.example.com.")))
	assert.Equal(t, uint32(60), rrs[5].TTL)
}

func TestParseRejectsInclude(t *testing.T) {
	p := New("$INCLUDE other.zone\n", label.Root, 0)
	_, err := p.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "$INCLUDE")
}

func TestParseDefaultsClassToIN(t *testing.T) {
	p := New("host.example.com. 300 A 5.6.7.8\n", label.Root, 0)
	rr, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, codes.ClassIN, rr.Class)
}

func TestParseUsesDefaultTTLWhenOmitted(t *testing.T) {
	p := New("host.example.com. IN A 5.6.7.8\n", label.Root, 3600)
	rr, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, uint32(3600), rr.TTL)
}

func TestParseUnknownTypeUsesGenericForm(t *testing.T) {
	p := New(`example.com. 60 IN TYPE65280 \# 4 DEADBEEF`+"\n", label.Root, 0)
	rr, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, codes.RRType(65280), rr.Type)
}

func TestNextReturnsNilAtEOF(t *testing.T) {
	p := New("", label.Root, 0)
	rr, err := p.Next()
	require.NoError(t, err)
	assert.Nil(t, rr)
}
