// Package rdata implements the RDATA bodies of every resource record type
// this module understands natively, plus an Opaque fallback (RFC 3597) for
// everything else. Each concrete type knows how to pack itself to wire
// format, render itself in zone-file text, and render itself for dig-style
// debug output; parsing (wire and zone) is dispatched through this package's
// registry so record.RR and wire/zone never need a type switch.
package rdata

import (
	"fmt"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
)

// Error wraps any failure to decode or encode an RDATA body.
type Error struct {
	Type codes.RRType
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("rdata(%s): %s", e.Type, e.Msg)
}

// RDATA is the behavior every resource record body implements. Pack writes
// only the RDATA bytes; the caller (record.RR.Pack) is responsible for the
// owner name, type/class/ttl fields and the RDLENGTH placeholder/backpatch.
type RDATA interface {
	Type() codes.RRType
	Pack(buf *buffer.Buffer, w *label.Writer) error
	String() string // zone-file presentation of the RDATA fields only
}

// GoStringer is implemented by RDATA types with a richer debug form; types
// that don't implement it fall back to their zone-text String().
type GoStringer interface {
	GoString() string
}

// decodeFunc parses a wire-format RDATA body of exactly rdlength bytes from
// buf's current position. buf is the shared master message buffer, not an
// isolated sub-buffer: names inside RDATA (SOA, MX, NS/CNAME/PTR/DNAME, ...)
// may carry compression pointers, which are offsets into the whole message,
// so decoders must use boundEnd/checkExact to enforce the rdlength boundary
// themselves rather than relying on the buffer being pre-truncated.
type decodeFunc func(buf *buffer.Buffer, rdlength int) (RDATA, error)

// zoneFunc parses a zone-file RDATA token list, in presentation form,
// relative to origin (used to qualify bare names).
type zoneFunc func(tokens []string, origin label.Label) (RDATA, error)

var decoders = map[codes.RRType]decodeFunc{}
var zoneParsers = map[codes.RRType]zoneFunc{}

func register(t codes.RRType, d decodeFunc, z zoneFunc) {
	decoders[t] = d
	zoneParsers[t] = z
}

// Decode parses the RDATA body for rrtype from buf's current position. The
// caller (record.parseRR) has already checked that rdlength bytes remain in
// buf; the decoder itself is responsible for consuming exactly that many
// bytes, since buf is the shared master buffer and compression pointers
// inside a name may temporarily jump the read cursor elsewhere in the
// message. Unregistered types fall back to Opaque.
func Decode(rrtype codes.RRType, buf *buffer.Buffer, rdlength int) (RDATA, error) {
	if d, ok := decoders[rrtype]; ok {
		return d(buf, rdlength)
	}
	return decodeOpaque(rrtype, buf, rdlength)
}

// FromZone parses the RDATA tokens found after TTL/CLASS/TYPE on a zone-file
// line. Unregistered types accept only the RFC 3597 generic "\# <len> <hex>"
// form.
func FromZone(rrtype codes.RRType, tokens []string, origin label.Label) (RDATA, error) {
	if z, ok := zoneParsers[rrtype]; ok {
		return z(tokens, origin)
	}
	return opaqueFromZone(rrtype, tokens)
}

// boundEnd returns the absolute buffer offset at which an RDATA body of
// rdlength bytes, starting at the current cursor, must end.
func boundEnd(buf *buffer.Buffer, rdlength int) int {
	return buf.Tell() + rdlength
}

// checkExact fails if buf's cursor isn't exactly at end, meaning the decoded
// fields didn't consume precisely RDLENGTH bytes - a malformed record.
func checkExact(buf *buffer.Buffer, end int, t codes.RRType) error {
	if buf.Tell() != end {
		return &Error{Type: t, Msg: fmt.Sprintf("rdlength mismatch: consumed to %d, expected %d", buf.Tell(), end)}
	}
	return nil
}

// readUntil reads every remaining byte up to end, used by RDATA types whose
// final field is a variable-length blob bounded only by RDLENGTH (DS digest,
// RRSIG signature, raw key material, and so on).
func readUntil(buf *buffer.Buffer, end int) ([]byte, error) {
	n := end - buf.Tell()
	if n < 0 {
		return nil, &Error{Msg: "rdlength exceeded before reading trailing field"}
	}
	return buf.Read(n)
}
