// Package fixedresolver implements a Handler that answers every query with
// the same fixed set of records, regardless of the question asked, with only
// the owner name rewritten to match the query. Grounded on
// original_source/dnslib/fixedresolver.py's FixedResolver.
package fixedresolver

import (
	"context"

	"github.com/kestrel-dns/kestrel/internal/dns/resolver"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/record"
)

// Resolver always answers with a copy of Records, each with its owner name
// replaced by the queried name.
type Resolver struct {
	Records []record.RR
}

// New returns a Resolver that answers every query with rrs, renaming each
// answer's owner to match the question.
func New(rrs ...record.RR) *Resolver {
	return &Resolver{Records: rrs}
}

var _ resolver.Handler = (*Resolver)(nil)

func (r *Resolver) Resolve(_ context.Context, req record.Message, _ resolver.RequestInfo) record.Message {
	reply := req.Reply()
	q, ok := req.Question()
	if !ok {
		return *reply
	}
	for _, rr := range r.Records {
		answer := rr
		answer.Name = q.Name
		reply.AddAnswer(answer)
	}
	return *reply
}
