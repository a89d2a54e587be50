package zoneresolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kestrel-dns/kestrel/internal/dns/resolver"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testZone = `
$ORIGIN example.com.
$TTL 300
www     IN A     192.0.2.1
mail    IN A     192.0.2.2
@       IN MX 10 mail.example.com.
`

func TestResolveAnswersExactMatch(t *testing.T) {
	r, err := New(testZone, label.Root, 300, false)
	require.NoError(t, err)

	qname, _ := label.Parse("www.example.com.")
	req := record.Message{ID: 1}
	req.AddQuestion(record.Question{Name: qname, QType: codes.TypeA, Class: codes.ClassIN})

	reply := r.Resolve(context.Background(), req, resolver.RequestInfo{})
	require.Len(t, reply.Answer, 1)
	assert.Equal(t, "192.0.2.1", reply.Answer[0].RData.String())
}

func TestResolveAddsGlueForMX(t *testing.T) {
	r, err := New(testZone, label.Root, 300, false)
	require.NoError(t, err)

	qname, _ := label.Parse("example.com.")
	req := record.Message{ID: 1}
	req.AddQuestion(record.Question{Name: qname, QType: codes.TypeMX, Class: codes.ClassIN})

	reply := r.Resolve(context.Background(), req, resolver.RequestInfo{})
	require.Len(t, reply.Answer, 1)
	require.Len(t, reply.Additional, 1)
	assert.Equal(t, "192.0.2.2", reply.Additional[0].RData.String())
}

func TestResolveWithGlobRewritesOwner(t *testing.T) {
	r, err := New(`$ORIGIN example.com.
*  IN A 192.0.2.9
`, label.Root, 60, true)
	require.NoError(t, err)

	qname, _ := label.Parse("anything.example.com.")
	req := record.Message{ID: 1}
	req.AddQuestion(record.Question{Name: qname, QType: codes.TypeA, Class: codes.ClassIN})

	reply := r.Resolve(context.Background(), req, resolver.RequestInfo{})
	require.Len(t, reply.Answer, 1)
	assert.True(t, reply.Answer[0].Name.Equal(qname))
}

func TestResolveNoMatchReturnsEmptyAnswer(t *testing.T) {
	r, err := New(testZone, label.Root, 300, false)
	require.NoError(t, err)

	qname, _ := label.Parse("nope.example.com.")
	req := record.Message{ID: 1}
	req.AddQuestion(record.Question{Name: qname, QType: codes.TypeA, Class: codes.ClassIN})

	reply := r.Resolve(context.Background(), req, resolver.RequestInfo{})
	assert.Empty(t, reply.Answer)
}

func TestLoadDirLoadsMatchingZoneFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "example.com.zone"), []byte(testZone), 0o644))

	r, err := LoadDir(dir, 300, false)
	require.NoError(t, err)
	require.Len(t, r.rrs, 3)
}

func TestLoadDirRejectsRecordsOutsideZoneRoot(t *testing.T) {
	dir := t.TempDir()
	mismatched := `
$ORIGIN other.org.
www IN A 192.0.2.1
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "example.com.zone"), []byte(mismatched), 0o644))

	_, err := LoadDir(dir, 300, false)
	require.Error(t, err)
}
