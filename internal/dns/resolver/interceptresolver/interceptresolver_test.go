package interceptresolver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kestrel-dns/kestrel/internal/dns/common/log"
	"github.com/kestrel-dns/kestrel/internal/dns/resolver"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, delegate resolver.Handler) *Resolver {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "intercept.db")
	r, err := Open(dbPath, delegate, log.NewNoopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func sampleQuery(id uint16, name label.Label, qtype codes.RRType) record.Message {
	m := record.Message{ID: id}
	m.AddQuestion(record.Question{Name: name, QType: qtype, Class: codes.ClassIN})
	return m
}

func TestResolveAnswersFromOverride(t *testing.T) {
	delegateCalled := false
	delegate := resolver.HandlerFunc(func(_ context.Context, r record.Message, _ resolver.RequestInfo) record.Message {
		delegateCalled = true
		return *r.Reply()
	})
	r := newTestResolver(t, delegate)
	require.NoError(t, r.AddOverride("www.example.com. IN A 10.0.0.1\n", 30))

	name, _ := label.Parse("www.example.com.")
	req := sampleQuery(1, name, codes.TypeA)
	reply := r.Resolve(context.Background(), req, resolver.RequestInfo{})

	require.Len(t, reply.Answer, 1)
	assert.Equal(t, "10.0.0.1", reply.Answer[0].RData.String())
	assert.False(t, delegateCalled)
}

func TestResolveFallsBackWhenApexHasNoOverride(t *testing.T) {
	delegateCalled := false
	delegate := resolver.HandlerFunc(func(_ context.Context, r record.Message, _ resolver.RequestInfo) record.Message {
		delegateCalled = true
		return *r.Reply()
	})
	r := newTestResolver(t, delegate)
	require.NoError(t, r.AddOverride("www.example.com. IN A 10.0.0.1\n", 30))

	name, _ := label.Parse("other.org.")
	req := sampleQuery(2, name, codes.TypeA)
	r.Resolve(context.Background(), req, resolver.RequestInfo{})
	assert.True(t, delegateCalled)
}

func TestResolveFallsBackWhenOverrideHasNoMatchingRecord(t *testing.T) {
	delegateCalled := false
	delegate := resolver.HandlerFunc(func(_ context.Context, r record.Message, _ resolver.RequestInfo) record.Message {
		delegateCalled = true
		return *r.Reply()
	})
	r := newTestResolver(t, delegate)
	require.NoError(t, r.AddOverride("www.example.com. IN A 10.0.0.1\n", 30))

	name, _ := label.Parse("mail.example.com.")
	req := sampleQuery(3, name, codes.TypeA)
	r.Resolve(context.Background(), req, resolver.RequestInfo{})
	assert.True(t, delegateCalled)
}

func TestAddOverridePersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "intercept.db")
	delegate := resolver.HandlerFunc(func(_ context.Context, r record.Message, _ resolver.RequestInfo) record.Message {
		return *r.Reply()
	})

	r1, err := Open(dbPath, delegate, log.NewNoopLogger())
	require.NoError(t, err)
	require.NoError(t, r1.AddOverride("api.example.com. IN A 10.0.0.2\n", 30))
	require.NoError(t, r1.Close())

	r2, err := Open(dbPath, delegate, log.NewNoopLogger())
	require.NoError(t, err)
	defer r2.Close()

	name, _ := label.Parse("api.example.com.")
	req := sampleQuery(4, name, codes.TypeA)
	reply := r2.Resolve(context.Background(), req, resolver.RequestInfo{})
	require.Len(t, reply.Answer, 1)
	assert.Equal(t, "10.0.0.2", reply.Answer[0].RData.String())
}
