// Package codes defines the small integer vocabularies used throughout the
// DNS wire format: RR types, classes, opcodes and response codes. Each is
// backed by a bimap.Bimap so unknown codes still round-trip using the
// RFC 3597 TYPE<n>/CLASS<n> convention rather than failing outright.
package codes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/bimap"
)

// RRType is a DNS resource record type code (QTYPE when used in a question).
type RRType uint16

// RRClass is a DNS resource record class code.
type RRClass uint16

// OpCode is a DNS header OPCODE.
type OpCode uint8

// RCode is a DNS header RCODE. Widened to uint16 (rather than the 4 bits
// RFC 1035 originally defined) because RFC 6891 §6.1.3 extends it to 12 bits
// by prefixing the header's 4-bit RCODE with the OPT record's 8-bit extended
// RCODE byte.
type RCode uint16

// Well-known RR types this module has native RDATA support for.
const (
	TypeA          RRType = 1
	TypeNS         RRType = 2
	TypeCNAME      RRType = 5
	TypeSOA        RRType = 6
	TypePTR        RRType = 12
	TypeHINFO      RRType = 13
	TypeMX         RRType = 15
	TypeTXT        RRType = 16
	TypeRP         RRType = 17
	TypeAAAA       RRType = 28
	TypeLOC        RRType = 29
	TypeSRV        RRType = 33
	TypeNAPTR      RRType = 35
	TypeDNAME      RRType = 39
	TypeOPT        RRType = 41
	TypeDS         RRType = 43
	TypeSSHFP      RRType = 44
	TypeRRSIG      RRType = 46
	TypeNSEC       RRType = 47
	TypeDNSKEY     RRType = 48
	TypeTLSA       RRType = 52
	TypeSVCB       RRType = 64
	TypeHTTPS      RRType = 65
	TypeCAA        RRType = 257
	TypeANY        RRType = 255
	TypeAXFR       RRType = 252
	TypeIXFR       RRType = 251
)

// Well-known classes.
const (
	ClassIN  RRClass = 1
	ClassCH  RRClass = 3
	ClassHS  RRClass = 4
	ClassANY RRClass = 255
)

// OPCODE values (RFC 1035 §4.1.1).
const (
	OpQuery  OpCode = 0
	OpIQuery OpCode = 1
	OpStatus OpCode = 2
	OpNotify OpCode = 4
	OpUpdate OpCode = 5
)

// RCODE values (RFC 1035 §4.1.1, extended by RFC 2671/6891).
const (
	RCodeNoError  RCode = 0
	RCodeFormErr  RCode = 1
	RCodeServFail RCode = 2
	RCodeNXDomain RCode = 3
	RCodeNotImp   RCode = 4
	RCodeRefused  RCode = 5
	RCodeYXDomain RCode = 6
	RCodeYXRRSet  RCode = 7
	RCodeNXRRSet  RCode = 8
	RCodeNotAuth  RCode = 9
	RCodeNotZone  RCode = 10
)

var typeMap = New16("QTYPE", map[uint16]string{
	1: "A", 2: "NS", 5: "CNAME", 6: "SOA", 12: "PTR", 13: "HINFO",
	15: "MX", 16: "TXT", 17: "RP", 28: "AAAA", 29: "LOC", 33: "SRV",
	35: "NAPTR", 39: "DNAME", 41: "OPT", 43: "DS", 44: "SSHFP",
	46: "RRSIG", 47: "NSEC", 48: "DNSKEY", 52: "TLSA", 64: "SVCB",
	65: "HTTPS", 251: "IXFR", 252: "AXFR", 255: "ANY", 257: "CAA",
}, func(c uint16) string { return fmt.Sprintf("TYPE%d", c) })

var classMap = New16("CLASS", map[uint16]string{
	1: "IN", 3: "CH", 4: "HS", 255: "ANY",
}, func(c uint16) string { return fmt.Sprintf("CLASS%d", c) })

var opcodeMap = New16("OPCODE", map[uint16]string{
	0: "QUERY", 1: "IQUERY", 2: "STATUS", 4: "NOTIFY", 5: "UPDATE",
}, func(c uint16) string { return fmt.Sprintf("OPCODE%d", c) })

var rcodeMap = New16("RCODE", map[uint16]string{
	0: "NOERROR", 1: "FORMERR", 2: "SERVFAIL", 3: "NXDOMAIN", 4: "NOTIMP",
	5: "REFUSED", 6: "YXDOMAIN", 7: "YXRRSET", 8: "NXRRSET", 9: "NOTAUTH",
	10: "NOTZONE",
}, func(c uint16) string { return fmt.Sprintf("RCODE%d", c) })

// New16 is a thin wrapper so this package's tables read naturally above.
func New16(name string, table map[uint16]string, unknownFmt func(uint16) string) *bimap.Bimap {
	return bimap.New(name, table, unknownFmt)
}

func (t RRType) String() string {
	s, _ := typeMap.Name(uint16(t))
	return s
}

// ParseRRType parses a mnemonic or RFC3597 TYPE<n> form.
func ParseRRType(s string) (RRType, error) {
	if c, err := typeMap.Code(s); err == nil {
		return RRType(c), nil
	}
	if n, ok := parseGenericCode(s, "TYPE"); ok {
		return RRType(n), nil
	}
	return 0, fmt.Errorf("unknown RR type %q", s)
}

func (c RRClass) String() string {
	s, _ := classMap.Name(uint16(c))
	return s
}

// ParseRRClass parses a mnemonic or RFC3597 CLASS<n> form.
func ParseRRClass(s string) (RRClass, error) {
	if c, err := classMap.Code(s); err == nil {
		return RRClass(c), nil
	}
	if n, ok := parseGenericCode(s, "CLASS"); ok {
		return RRClass(n), nil
	}
	return 0, fmt.Errorf("unknown RR class %q", s)
}

func (o OpCode) String() string {
	s, _ := opcodeMap.Name(uint16(o))
	return s
}

// ParseOpCode parses an opcode mnemonic.
func ParseOpCode(s string) (OpCode, error) {
	c, err := opcodeMap.Code(s)
	if err != nil {
		return 0, err
	}
	return OpCode(c), nil
}

func (r RCode) String() string {
	s, _ := rcodeMap.Name(uint16(r))
	return s
}

// ParseRCode parses an rcode mnemonic, or the "RCODE<n>" fallback form
// String uses for values (like the RFC 6891 extended codes) with no
// well-known mnemonic.
func ParseRCode(s string) (RCode, error) {
	if c, err := rcodeMap.Code(s); err == nil {
		return RCode(c), nil
	}
	if n, ok := parseGenericCode(s, "RCODE"); ok {
		return RCode(n), nil
	}
	return 0, fmt.Errorf("unknown RCODE %q", s)
}

// parseGenericCode parses the RFC 3597 "<prefix><n>" fallback form, e.g.
// "TYPE65280" or "CLASS32".
func parseGenericCode(s, prefix string) (uint16, bool) {
	upper := strings.ToUpper(s)
	if !strings.HasPrefix(upper, prefix) {
		return 0, false
	}
	n, err := strconv.ParseUint(s[len(prefix):], 10, 16)
	if err != nil {
		return 0, false
	}
	return uint16(n), true
}
