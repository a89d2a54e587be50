package record

import (
	"fmt"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
)

// Equal compares two messages field-by-field and reports the first
// difference found, mirroring dnslib's DNSRecord.diff: header TTLs on RRs
// are compared too, except on the OPT pseudo-RR where TTL carries EDNS
// flags rather than a cacheable lifetime.
func (m *Message) Equal(other *Message) (bool, string) {
	if m == nil || other == nil {
		if m == other {
			return true, ""
		}
		return false, "one message is nil"
	}
	if m.ID != other.ID {
		return false, fmt.Sprintf("id: %d != %d", m.ID, other.ID)
	}
	if m.OpCode != other.OpCode {
		return false, fmt.Sprintf("opcode: %s != %s", m.OpCode, other.OpCode)
	}
	if m.RCode != other.RCode {
		return false, fmt.Sprintf("rcode: %s != %s", m.RCode, other.RCode)
	}
	if m.QR != other.QR || m.AA != other.AA || m.TC != other.TC || m.RD != other.RD ||
		m.RA != other.RA || m.AD != other.AD || m.CD != other.CD {
		return false, "flags differ"
	}
	if d := diffQuestions(m.Questions, other.Questions); d != "" {
		return false, "questions: " + d
	}
	if d := diffRRs(m.Answer, other.Answer); d != "" {
		return false, "answer: " + d
	}
	if d := diffRRs(m.Authority, other.Authority); d != "" {
		return false, "authority: " + d
	}
	if d := diffRRs(m.Additional, other.Additional); d != "" {
		return false, "additional: " + d
	}
	return true, ""
}

func diffQuestions(a, b []Question) string {
	if len(a) != len(b) {
		return fmt.Sprintf("count %d != %d", len(a), len(b))
	}
	for i := range a {
		if !a[i].Name.Equal(b[i].Name) || a[i].QType != b[i].QType || a[i].Class != b[i].Class {
			return fmt.Sprintf("entry %d: %s/%s/%s != %s/%s/%s", i, a[i].Name, a[i].Class, a[i].QType, b[i].Name, b[i].Class, b[i].QType)
		}
	}
	return ""
}

func diffRRs(a, b []RR) string {
	if len(a) != len(b) {
		return fmt.Sprintf("count %d != %d", len(a), len(b))
	}
	for i := range a {
		if d := diffRR(a[i], b[i]); d != "" {
			return fmt.Sprintf("entry %d: %s", i, d)
		}
	}
	return ""
}

func diffRR(a, b RR) string {
	if !a.Name.Equal(b.Name) {
		return fmt.Sprintf("name %s != %s", a.Name, b.Name)
	}
	if a.Type != b.Type {
		return fmt.Sprintf("type %s != %s", a.Type, b.Type)
	}
	if a.Type != codes.TypeOPT && a.Class != b.Class {
		return fmt.Sprintf("class %s != %s", a.Class, b.Class)
	}
	if a.Type != codes.TypeOPT && a.TTL != b.TTL {
		return fmt.Sprintf("ttl %d != %d", a.TTL, b.TTL)
	}
	if a.RData.String() != b.RData.String() {
		return fmt.Sprintf("rdata %s != %s", a.RData, b.RData)
	}
	return ""
}
