// Package record implements the DNS message container: header, question and
// resource record sections, wire pack/parse, a convenience reply builder, and
// dig-style and Go-repr text renderings. It is the top-level type that ties
// together wire/buffer, wire/label, wire/codes and wire/rdata.
package record

import (
	"fmt"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/rdata"
)

// Error wraps any failure to parse or pack a Message.
type Error struct {
	Op  string
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("record: %s: %s", e.Op, e.Msg) }

// Question is a single entry in the question section (RFC 1035 §4.1.2).
type Question struct {
	Name  label.Label
	QType codes.RRType
	Class codes.RRClass
}

// RR is a resource record as carried in the answer, authority or additional
// sections (RFC 1035 §4.1.3). For the OPT pseudo-RR (RFC 6891), Class and TTL
// are repurposed; use the EDNS* helpers below rather than reading them directly.
type RR struct {
	Name  label.Label
	Type  codes.RRType
	Class codes.RRClass
	TTL   uint32
	RData rdata.RDATA
}

// IsOPT reports whether this RR is the EDNS0 pseudo-RR.
func (r RR) IsOPT() bool { return r.Type == codes.TypeOPT }

// UDPPayloadSize returns the OPT record's advertised UDP payload size,
// carried in the Class field per RFC 6891 §6.1.2.
func (r RR) UDPPayloadSize() uint16 { return uint16(r.Class) }

// EDNSExtRCode returns the upper 8 bits of the extended RCODE, carried in the
// top byte of the OPT record's TTL field.
func (r RR) EDNSExtRCode() uint8 { return uint8(r.TTL >> 24) }

// EDNSVersion returns the EDNS version, the second byte of the OPT TTL field.
func (r RR) EDNSVersion() uint8 { return uint8(r.TTL >> 16) }

// EDNSDoBit reports whether the DNSSEC OK bit is set (bit 15 of the lower
// 16 bits of the OPT TTL field).
func (r RR) EDNSDoBit() bool { return r.TTL&0x00008000 != 0 }

// NewOPTRecord builds the EDNS0 pseudo-RR with the given advertised UDP
// payload size, extended RCODE, version and DO bit.
func NewOPTRecord(udpSize uint16, extRCode, version uint8, do bool, opts ...rdata.EDNSOption) RR {
	ttl := uint32(extRCode)<<24 | uint32(version)<<16
	if do {
		ttl |= 0x00008000
	}
	return RR{
		Name:  label.Root,
		Type:  codes.TypeOPT,
		Class: codes.RRClass(udpSize),
		TTL:   ttl,
		RData: rdata.NewOPT(opts...),
	}
}

// Message is a full DNS message: header plus the four sections.
type Message struct {
	ID     uint16
	QR     bool
	OpCode codes.OpCode
	AA     bool
	TC     bool
	RD     bool
	RA     bool
	AD     bool
	CD     bool
	RCode  codes.RCode

	Questions  []Question
	Answer     []RR
	Authority  []RR
	Additional []RR
}

// EDNS returns the OPT pseudo-RR from the additional section, if present.
func (m *Message) EDNS() (RR, bool) {
	for _, rr := range m.Additional {
		if rr.IsOPT() {
			return rr, true
		}
	}
	return RR{}, false
}

// EffectiveRCode combines the header RCODE with the OPT extended RCODE bits,
// per RFC 6891 §6.1.3, when an OPT record is present.
func (m *Message) EffectiveRCode() codes.RCode {
	if opt, ok := m.EDNS(); ok {
		return codes.RCode(uint16(opt.EDNSExtRCode())<<4 | uint16(m.RCode)&0x0F)
	}
	return m.RCode
}

// SetEffectiveRCode splits an extended RCODE across the header RCODE field
// and, if an OPT record is present, its extended RCODE byte.
func (m *Message) SetEffectiveRCode(rc codes.RCode) {
	m.RCode = codes.RCode(uint16(rc) & 0x0F)
	ext := uint8(uint16(rc) >> 4)
	for i := range m.Additional {
		if m.Additional[i].IsOPT() {
			m.Additional[i].TTL = (m.Additional[i].TTL &^ 0xFF000000) | uint32(ext)<<24
		}
	}
}

// AddQuestion appends an entry to the question section.
func (m *Message) AddQuestion(q Question) { m.Questions = append(m.Questions, q) }

// AddAnswer appends a record to the answer section.
func (m *Message) AddAnswer(rr RR) { m.Answer = append(m.Answer, rr) }

// AddAuthority appends a record to the authority section.
func (m *Message) AddAuthority(rr RR) { m.Authority = append(m.Authority, rr) }

// AddAdditional appends a record to the additional section.
func (m *Message) AddAdditional(rr RR) { m.Additional = append(m.Additional, rr) }

// Question returns the first question, for the common single-question case,
// along with whether one was present.
func (m *Message) Question() (Question, bool) {
	if len(m.Questions) == 0 {
		return Question{}, false
	}
	return m.Questions[0], true
}

// Reply builds a response skeleton for this message: same ID, opcode and
// question section, QR/AA/RA set, RD/CD preserved from the query, everything
// else zeroed. Mirrors dnslib's DNSRecord.reply(ra=1, aa=1).
func (m *Message) Reply() *Message {
	r := &Message{
		ID:        m.ID,
		QR:        true,
		AA:        true,
		RA:        true,
		OpCode:    m.OpCode,
		RD:        m.RD,
		CD:        m.CD,
		Questions: append([]Question{}, m.Questions...),
	}
	return r
}
