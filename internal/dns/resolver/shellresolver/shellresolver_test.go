package shellresolver

import (
	"context"
	"errors"
	"testing"

	"github.com/kestrel-dns/kestrel/internal/dns/common/log"
	"github.com/kestrel-dns/kestrel/internal/dns/resolver"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRunsMappedCommand(t *testing.T) {
	name, _ := label.Parse("date.example.")
	r := New([]Route{{Name: name, Cmd: "echo hi"}}, 60, log.NewNoopLogger())
	r.run = func(cmd string) ([]byte, error) { return []byte("hello world\n"), nil }

	req := record.Message{ID: 1}
	req.AddQuestion(record.Question{Name: name, QType: codes.TypeTXT, Class: codes.ClassIN})

	reply := r.Resolve(context.Background(), req, resolver.RequestInfo{})
	require.Len(t, reply.Answer, 1)
	assert.Equal(t, `"hello world"`, reply.Answer[0].RData.String())
	assert.Equal(t, uint32(60), reply.Answer[0].TTL)
}

func TestResolveUnroutedNameReturnsEmptyAnswer(t *testing.T) {
	name, _ := label.Parse("date.example.")
	r := New([]Route{{Name: name, Cmd: "echo hi"}}, 60, log.NewNoopLogger())

	other, _ := label.Parse("other.example.")
	req := record.Message{ID: 1}
	req.AddQuestion(record.Question{Name: other, QType: codes.TypeTXT, Class: codes.ClassIN})

	reply := r.Resolve(context.Background(), req, resolver.RequestInfo{})
	assert.Empty(t, reply.Answer)
}

func TestResolveCommandFailureReturnsEmptyAnswer(t *testing.T) {
	name, _ := label.Parse("date.example.")
	r := New([]Route{{Name: name, Cmd: "false"}}, 60, log.NewNoopLogger())
	r.run = func(cmd string) ([]byte, error) { return nil, errors.New("boom") }

	req := record.Message{ID: 1}
	req.AddQuestion(record.Question{Name: name, QType: codes.TypeTXT, Class: codes.ClassIN})

	reply := r.Resolve(context.Background(), req, resolver.RequestInfo{})
	assert.Empty(t, reply.Answer)
}

func TestResolveTruncatesLongOutput(t *testing.T) {
	name, _ := label.Parse("big.example.")
	r := New([]Route{{Name: name, Cmd: "cat"}}, 60, log.NewNoopLogger())
	big := make([]byte, 1000)
	for i := range big {
		big[i] = 'a'
	}
	r.run = func(cmd string) ([]byte, error) { return big, nil }

	req := record.Message{ID: 1}
	req.AddQuestion(record.Question{Name: name, QType: codes.TypeTXT, Class: codes.ClassIN})

	reply := r.Resolve(context.Background(), req, resolver.RequestInfo{})
	require.Len(t, reply.Answer, 1)
	assert.LessOrEqual(t, len(reply.Answer[0].RData.String()), maxTXTLen+2)
}
