package record

import (
	"fmt"
	"strings"
)

// String renders the message in the same section-by-section text format
// `dig +qr` prints, including the pseudo-header comment line.
func (m *Message) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, ";; ->>HEADER<<- opcode: %s, status: %s, id: %d\n", m.OpCode, m.EffectiveRCode(), m.ID)
	fmt.Fprintf(&sb, ";; flags:%s; QUERY: %d, ANSWER: %d, AUTHORITY: %d, ADDITIONAL: %d\n\n",
		m.flagString(), len(m.Questions), len(m.Answer), len(m.Authority), len(m.Additional))

	if len(m.Questions) > 0 {
		sb.WriteString(";; QUESTION SECTION:\n")
		for _, q := range m.Questions {
			fmt.Fprintf(&sb, ";%s\t\t%s\t%s\n", q.Name, q.Class, q.QType)
		}
		sb.WriteString("\n")
	}

	writeSection(&sb, "ANSWER", m.Answer)
	writeSection(&sb, "AUTHORITY", m.Authority)

	if opt, ok := m.EDNS(); ok {
		sb.WriteString(";; OPT PSEUDOSECTION:\n")
		fmt.Fprintf(&sb, "; EDNS: version: %d, flags:%s; udp: %d\n\n", opt.EDNSVersion(), ednsFlagString(opt), opt.UDPPayloadSize())
	}
	writeNonOPTSection(&sb, "ADDITIONAL", m.Additional)

	return sb.String()
}

func (m *Message) flagString() string {
	var flags []string
	if m.QR {
		flags = append(flags, "qr")
	}
	if m.AA {
		flags = append(flags, "aa")
	}
	if m.TC {
		flags = append(flags, "tc")
	}
	if m.RD {
		flags = append(flags, "rd")
	}
	if m.RA {
		flags = append(flags, "ra")
	}
	if m.AD {
		flags = append(flags, "ad")
	}
	if m.CD {
		flags = append(flags, "cd")
	}
	if len(flags) == 0 {
		return ""
	}
	return " " + strings.Join(flags, " ")
}

func ednsFlagString(opt RR) string {
	if opt.EDNSDoBit() {
		return " do"
	}
	return ""
}

func writeSection(sb *strings.Builder, title string, rrs []RR) {
	if len(rrs) == 0 {
		return
	}
	fmt.Fprintf(sb, ";; %s SECTION:\n", title)
	for _, rr := range rrs {
		writeRR(sb, rr)
	}
	sb.WriteString("\n")
}

// writeNonOPTSection is writeSection but skips the OPT pseudo-RR, which gets
// its own OPT PSEUDOSECTION block instead of appearing under ADDITIONAL.
func writeNonOPTSection(sb *strings.Builder, title string, rrs []RR) {
	var filtered []RR
	for _, rr := range rrs {
		if !rr.IsOPT() {
			filtered = append(filtered, rr)
		}
	}
	writeSection(sb, title, filtered)
}

func writeRR(sb *strings.Builder, rr RR) {
	fmt.Fprintf(sb, "%s\t%d\t%s\t%s\t%s\n", rr.Name, rr.TTL, rr.Class, rr.Type, rr.RData)
}

// GoString renders a Go-syntax-ish debug representation, used for test
// failure output and verbose logging.
func (m *Message) GoString() string {
	return fmt.Sprintf("record.Message{ID: %d, OpCode: %s, RCode: %s, QD: %d, AN: %d, NS: %d, AR: %d}",
		m.ID, m.OpCode, m.EffectiveRCode(), len(m.Questions), len(m.Answer), len(m.Authority), len(m.Additional))
}
