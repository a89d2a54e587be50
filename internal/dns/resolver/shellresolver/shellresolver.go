// Package shellresolver implements a Handler that maps DNS labels to shell
// commands and returns each command's stdout as a TXT record. Grounded on
// original_source/dnslib/shellresolver.py's ShellResolver.
package shellresolver

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/kestrel-dns/kestrel/internal/dns/common/log"
	"github.com/kestrel-dns/kestrel/internal/dns/resolver"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/rdata"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/record"
)

// maxTXTLen is one byte under the 255-byte limit RFC 1035 §3.3 sets on a
// single TXT character-string; longer command output is truncated to fit.
const maxTXTLen = 254

// Route maps one queried name to the shell command line whose stdout answers
// it.
type Route struct {
	Name label.Label
	Cmd  string
}

// Resolver runs a fixed shell command per configured route and returns its
// output as a TTL-bounded TXT answer. Queries for names with no configured
// route get an empty (NOERROR, no answers) reply.
type Resolver struct {
	routes map[string]string
	ttl    uint32
	logger log.Logger

	// run executes a shell command line and captures its stdout, swapped out
	// in tests to avoid spawning a real subprocess.
	run func(cmd string) ([]byte, error)
}

// New returns a Resolver serving routes with the given answer TTL.
func New(routes []Route, ttl uint32, logger log.Logger) *Resolver {
	m := make(map[string]string, len(routes))
	for _, r := range routes {
		m[r.Name.String()] = r.Cmd
	}
	return &Resolver{
		routes: m,
		ttl:    ttl,
		logger: logger,
		run:    runShell,
	}
}

func runShell(cmd string) ([]byte, error) {
	out, err := exec.Command("/bin/sh", "-c", cmd).Output()
	return out, err
}

var _ resolver.Handler = (*Resolver)(nil)

func (r *Resolver) Resolve(_ context.Context, req record.Message, _ resolver.RequestInfo) record.Message {
	reply := req.Reply()
	q, ok := req.Question()
	if !ok {
		return *reply
	}
	cmd, ok := r.routes[q.Name.String()]
	if !ok {
		return *reply
	}
	out, err := r.run(cmd)
	if err != nil {
		r.logger.Warn(map[string]any{"name": q.Name.String(), "cmd": cmd, "error": err.Error()}, "shellresolver command failed")
		return *reply
	}
	out = bytes.TrimRight(out, "\n")
	if len(out) > maxTXTLen {
		out = out[:maxTXTLen]
	}
	reply.AddAnswer(record.RR{
		Name:  q.Name,
		Type:  codes.TypeTXT,
		Class: codes.ClassIN,
		TTL:   r.ttl,
		RData: rdata.NewTXT(string(out)),
	})
	return *reply
}
