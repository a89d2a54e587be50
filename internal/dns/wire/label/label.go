// Package label implements DNS domain names: parsing and rendering of the
// presentation ("foo.example.com.") format, wire-format decoding with
// compression-pointer following, and per-message compression on encode.
//
// Ported from dnslib's DNSLabel/DNSBuffer, with one deliberate divergence:
// decode tracks every pointer offset visited (not just the immediately
// preceding one) so that a pointer chain that cycles back to an
// already-visited offset fails immediately instead of looping.
package label

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
)

// maxNameLength is the wire-format limit on an encoded name, RFC 1035 §3.1.
const maxNameLength = 255

// maxLabelLength is the per-label length limit, RFC 1035 §3.1.
const maxLabelLength = 63

// Error reports a malformed name, either in wire or presentation form.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return "label: " + e.Msg }

// Label is an ordered sequence of raw label bytes, root-terminated implicitly
// (the root label is the empty sequence). Bytes are kept exactly as they
// appeared on the wire or in presentation text; comparisons fold ASCII case
// per RFC 4343 but never mutate the stored bytes, so Pack(Parse(x)) == x even
// for mixed-case input.
type Label struct {
	parts []string
}

// Root is the zero-length domain name ".".
var Root = Label{}

// FromLabels builds a Label directly from already-split, unescaped
// components. Each component must be <= 63 bytes.
func FromLabels(parts ...string) (Label, error) {
	for _, p := range parts {
		if len(p) > maxLabelLength {
			return Label{}, &Error{Msg: fmt.Sprintf("label %q exceeds %d bytes", p, maxLabelLength)}
		}
	}
	out := make([]string, len(parts))
	copy(out, parts)
	return Label{parts: out}, nil
}

// Parse reads the presentation form of a domain name, e.g. "www.example.com."
// or "www.example.com" (trailing dot optional), handling the \DDD and \X
// escapes used for bytes that aren't printable ASCII or that are syntactically
// significant ('.', '\\').
func Parse(s string) (Label, error) {
	if s == "" || s == "." {
		return Root, nil
	}
	var parts []string
	var cur strings.Builder
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			if isDigit(s[i+1]) {
				if i+3 >= len(s) || !isDigit(s[i+2]) || !isDigit(s[i+3]) {
					return Label{}, &Error{Msg: fmt.Sprintf("invalid \\DDD escape in %q", s)}
				}
				n, err := strconv.Atoi(s[i+1 : i+4])
				if err != nil || n > 255 {
					return Label{}, &Error{Msg: fmt.Sprintf("invalid \\DDD escape in %q", s)}
				}
				cur.WriteByte(byte(n))
				i += 4
				continue
			}
			cur.WriteByte(s[i+1])
			i += 2
			continue
		case c == '.':
			parts = append(parts, cur.String())
			cur.Reset()
			i++
		default:
			cur.WriteByte(c)
			i++
		}
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return FromLabels(parts...)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Parts returns the raw label components, most-significant label first
// ("www" before "example" before "com").
func (l Label) Parts() []string {
	return l.parts
}

// IsRoot reports whether this is the zero-length root name.
func (l Label) IsRoot() bool {
	return len(l.parts) == 0
}

// WireLen returns the length this name would occupy on the wire, uncompressed
// (sum of 1+len(part) for each label, plus the trailing root byte).
func (l Label) WireLen() int {
	n := 1
	for _, p := range l.parts {
		n += 1 + len(p)
	}
	return n
}

// String renders the presentation form, escaping '.', '\\', and any
// non-printable byte as \DDD, matching BIND/dig conventions.
func (l Label) String() string {
	if l.IsRoot() {
		return "."
	}
	var sb strings.Builder
	for _, p := range l.parts {
		writeEscaped(&sb, p)
		sb.WriteByte('.')
	}
	return sb.String()
}

func writeEscaped(sb *strings.Builder, part string) {
	for i := 0; i < len(part); i++ {
		c := part[i]
		switch {
		case c == '.' || c == '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c < 0x20 || c >= 0x7f:
			sb.WriteString(fmt.Sprintf("\\%03d", c))
		default:
			sb.WriteByte(c)
		}
	}
}

// Add returns a new Label with the given child labels prepended, e.g.
// Parse("example.com.").Add("www") == Parse("www.example.com.").
func (l Label) Add(parts ...string) Label {
	out := make([]string, 0, len(parts)+len(l.parts))
	out = append(out, parts...)
	out = append(out, l.parts...)
	return Label{parts: out}
}

// Parent drops the leftmost label, returning the parent domain. Calling
// Parent on Root returns Root.
func (l Label) Parent() Label {
	if len(l.parts) == 0 {
		return Root
	}
	return Label{parts: l.parts[1:]}
}

// key returns a case-folded join usable as a map key for compression and
// equality, without allocating per-label.
func (l Label) key() string {
	var sb strings.Builder
	for _, p := range l.parts {
		sb.WriteString(strings.ToLower(p))
		sb.WriteByte(0)
	}
	return sb.String()
}

// Equal compares names per RFC 4343: ASCII case-insensitive, byte-for-byte
// otherwise.
func (l Label) Equal(other Label) bool {
	return l.key() == other.key()
}

// Decode reads a domain name from buf at the current cursor, following
// compression pointers (RFC 1035 §4.1.4), and advances buf's cursor by
// exactly the number of bytes the name occupies *in place* - i.e. up to and
// including either the terminating zero byte or the first two-byte pointer
// encountered, whichever comes first. Anything read after following a
// pointer happens on an independent cursor over the same backing bytes, so a
// name embedded mid-record (SOA's mname, for instance) leaves buf positioned
// correctly for the fields that follow it.
//
// Every pointer offset visited is tracked; revisiting one indicates a cycle
// and fails immediately rather than looping or exhausting memory. This is
// stricter than chasing only the immediately preceding pointer.
func Decode(buf *buffer.Buffer) (Label, error) {
	var parts []string
	visited := make(map[int]struct{})

	reader := buffer.NewFromBytes(buf.Bytes())
	if err := reader.Seek(buf.Tell()); err != nil {
		return Label{}, err
	}
	returnPos := -1

	for {
		lenByte, err := reader.ReadUint8()
		if err != nil {
			return Label{}, err
		}
		switch {
		case lenByte == 0:
			if returnPos == -1 {
				returnPos = reader.Tell()
			}
			if err := buf.Seek(returnPos); err != nil {
				return Label{}, err
			}
			return FromLabels(parts...)
		case lenByte&0xC0 == 0xC0:
			lo, err := reader.ReadUint8()
			if err != nil {
				return Label{}, err
			}
			ptr := int(lenByte&0x3F)<<8 | int(lo)
			if returnPos == -1 {
				returnPos = reader.Tell()
			}
			if _, seen := visited[ptr]; seen {
				return Label{}, &buffer.Error{Op: "decode name", Pos: ptr, Msg: "compression pointer cycle"}
			}
			visited[ptr] = struct{}{}
			if err := reader.Seek(ptr); err != nil {
				return Label{}, &Error{Msg: fmt.Sprintf("compression pointer %d out of range", ptr)}
			}
		case lenByte&0xC0 != 0:
			return Label{}, &Error{Msg: fmt.Sprintf("reserved label length bits 0x%02x", lenByte)}
		default:
			data, err := reader.Read(int(lenByte))
			if err != nil {
				return Label{}, err
			}
			parts = append(parts, string(data))
			if len(parts) > 128 {
				return Label{}, &Error{Msg: "name has too many labels"}
			}
		}
	}
}

// Writer tracks the name-compression dictionary for a single outgoing
// message. A fresh Writer must be created per Pack() call; the dictionary is
// never shared across messages, matching RFC 1035's per-message scope.
type Writer struct {
	offsets map[string]int
}

// NewWriter returns an empty compression dictionary.
func NewWriter() *Writer {
	return &Writer{offsets: make(map[string]int)}
}

// EncodeName writes name to buf, compressing against any previously written
// suffix recorded in this Writer's dictionary, and records new suffixes
// written at offsets representable by a 14-bit pointer (< 16384).
func (w *Writer) EncodeName(buf *buffer.Buffer, name Label) error {
	if len(name.parts) > 0 {
		if total := name.WireLen(); total > maxNameLength {
			return &Error{Msg: fmt.Sprintf("name exceeds %d bytes", maxNameLength)}
		}
	}
	return w.encode(buf, name, true)
}

// EncodeNameNoCompress writes name without compressing it and without
// registering it in the dictionary, per RFC 2782's requirement that SRV
// targets (and similarly strict RR types) not be compressed.
func (w *Writer) EncodeNameNoCompress(buf *buffer.Buffer, name Label) error {
	return w.encode(buf, name, false)
}

func (w *Writer) encode(buf *buffer.Buffer, name Label, compress bool) error {
	remaining := name.parts
	for i := 0; i < len(remaining); i++ {
		suffix := Label{parts: remaining[i:]}
		if compress {
			if off, ok := w.offsets[suffix.key()]; ok {
				buf.WriteUint16(uint16(0xC000 | off))
				return nil
			}
		}
		pos := buf.Tell()
		if compress && pos < 0x4000 {
			w.offsets[suffix.key()] = pos
		}
		label := remaining[i]
		if len(label) > maxLabelLength {
			return &Error{Msg: fmt.Sprintf("label %q exceeds %d bytes", label, maxLabelLength)}
		}
		buf.WriteUint8(uint8(len(label)))
		buf.Write([]byte(label))
	}
	buf.WriteUint8(0)
	return nil
}
