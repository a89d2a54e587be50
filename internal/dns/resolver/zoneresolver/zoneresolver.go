// Package zoneresolver implements a Handler that answers from an in-memory
// set of resource records loaded from zone-file text. Grounded on
// original_source/dnslib/zoneresolver.py's ZoneResolver, adapted to populate
// record.RR values via wire/zone.Parser instead of the reference's
// cache-oriented tuple list, and to the teacher's repos/zone directory-load
// pattern for LoadDir.
package zoneresolver

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/kestrel-dns/kestrel/internal/dns/resolver"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/record"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/zone"
)

// Resolver answers queries against a fixed set of resource records parsed
// from zone text at construction time.
type Resolver struct {
	rrs  []record.RR
	glob bool
}

// New parses zoneText (RFC 1035 §5.1 master-file format) rooted at origin
// with the given default TTL, and returns a Resolver serving its records. If
// glob is true, owner names are matched with '*' wildcard semantics (RFC
// 1034 §4.3.3) rather than exact equality.
func New(zoneText string, origin label.Label, defaultTTL uint32, glob bool) (*Resolver, error) {
	rrs, err := zone.New(zoneText, origin, defaultTTL).All()
	if err != nil {
		return nil, err
	}
	return &Resolver{rrs: rrs, glob: glob}, nil
}

// LoadDir parses every ".zone" file in dir and merges their records into one
// Resolver, mirroring the teacher's directory-based zone loading. Each file
// is named after the zone root it declares (e.g. "example.com.zone"); every
// record owner parsed from the file must share that name's registrable
// domain, catching a zone file dropped in the wrong directory or one whose
// $ORIGIN names another domain. The file-name root is the initial origin,
// so a file without an $ORIGIN directive is accepted.
func LoadDir(dir string, defaultTTL uint32, glob bool) (*Resolver, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &record.Error{Op: "zoneresolver", Msg: err.Error()}
	}
	r := &Resolver{glob: glob}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".zone") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, &record.Error{Op: "zoneresolver", Msg: err.Error()}
		}
		root := strings.TrimSuffix(e.Name(), ".zone")
		origin, err := label.Parse(ensureTrailingDot(root))
		if err != nil {
			return nil, &record.Error{Op: "zoneresolver", Msg: e.Name() + ": invalid zone root: " + err.Error()}
		}
		rrs, err := zone.New(string(data), origin, defaultTTL).All()
		if err != nil {
			return nil, &record.Error{Op: "zoneresolver", Msg: e.Name() + ": " + err.Error()}
		}
		if err := checkZoneRoot(rrs, root); err != nil {
			return nil, &record.Error{Op: "zoneresolver", Msg: e.Name() + ": " + err.Error()}
		}
		r.rrs = append(r.rrs, rrs...)
	}
	return r, nil
}

func ensureTrailingDot(s string) string {
	if strings.HasSuffix(s, ".") {
		return s
	}
	return s + "."
}

// checkZoneRoot verifies every record owner in rrs shares root's
// registrable domain, per RFC 1034's notion of zone authority.
func checkZoneRoot(rrs []record.RR, root string) error {
	wantApex, err := publicsuffix.EffectiveTLDPlusOne(strings.TrimSuffix(root, "."))
	if err != nil {
		// root has no recognized public suffix (e.g. a bare internal
		// TLD like "lan"); skip the apex check rather than reject it.
		return nil
	}
	for _, rr := range rrs {
		owner := strings.TrimSuffix(rr.Name.String(), ".")
		gotApex, err := publicsuffix.EffectiveTLDPlusOne(owner)
		if err != nil || !strings.EqualFold(gotApex, wantApex) {
			return &record.Error{Op: "zoneresolver", Msg: "record " + owner + " is outside zone root " + root}
		}
	}
	return nil
}

var _ resolver.Handler = (*Resolver)(nil)

func (r *Resolver) Resolve(_ context.Context, req record.Message, _ resolver.RequestInfo) record.Message {
	reply := req.Reply()
	q, ok := req.Question()
	if !ok {
		return *reply
	}
	qtypeName := q.QType.String()

	for _, rr := range r.rrs {
		if !r.matches(q.Name, rr.Name) {
			continue
		}
		rtypeName := rr.Type.String()
		if qtypeName != rtypeName && qtypeName != "ANY" && rtypeName != "CNAME" {
			continue
		}
		answer := rr
		if r.glob {
			answer.Name = q.Name
		}
		reply.AddAnswer(answer)

		// Glue: attach A/AAAA records for the target of CNAME/NS/MX/PTR
		// answers so the client doesn't need a second round trip.
		if target, ok := targetOf(rr); ok {
			for _, ar := range r.rrs {
				if (ar.Type == codes.TypeA || ar.Type == codes.TypeAAAA) && ar.Name.Equal(target) {
					reply.AddAdditional(ar)
				}
			}
		}
	}
	return *reply
}

// targetOf extracts the name a CNAME/NS/MX/PTR answer points at, for glue
// lookup, or reports false for record types with no such target.
func targetOf(rr record.RR) (label.Label, bool) {
	switch rr.Type {
	case codes.TypeCNAME, codes.TypeNS, codes.TypePTR:
		n, err := label.Parse(rr.RData.String())
		return n, err == nil
	case codes.TypeMX:
		fields := strings.Fields(rr.RData.String())
		if len(fields) != 2 {
			return label.Label{}, false
		}
		n, err := label.Parse(fields[1])
		return n, err == nil
	}
	return label.Label{}, false
}

func (r *Resolver) matches(qname, owner label.Label) bool {
	if !r.glob {
		return qname.Equal(owner)
	}
	return matchGlob(qname, owner)
}

// matchGlob reports whether name satisfies pattern, where pattern may use
// '*' as a single-label wildcard component (e.g. "*.example.com." matches
// "foo.example.com." but not "example.com." or "a.b.example.com.").
func matchGlob(name, pattern label.Label) bool {
	np, pp := name.Parts(), pattern.Parts()
	if len(np) != len(pp) {
		return false
	}
	for i := range np {
		if pp[i] == "*" {
			continue
		}
		if !strings.EqualFold(np[i], pp[i]) {
			return false
		}
	}
	return true
}
