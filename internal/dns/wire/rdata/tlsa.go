package rdata

import (
	"fmt"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
)

// TLSA associates a TLS certificate with a DNS name (RFC 6698).
type TLSA struct {
	CertUsage    uint8
	Selector     uint8
	MatchingType uint8
	CertData     []byte
}

func (r TLSA) Type() codes.RRType { return codes.TypeTLSA }

func (r TLSA) Pack(buf *buffer.Buffer, _ *label.Writer) error {
	buf.WriteUint8(r.CertUsage)
	buf.WriteUint8(r.Selector)
	buf.WriteUint8(r.MatchingType)
	buf.Write(r.CertData)
	return nil
}

func (r TLSA) String() string {
	return fmt.Sprintf("%d %d %d %s", r.CertUsage, r.Selector, r.MatchingType, bytesToHex(r.CertData))
}

func decodeTLSA(buf *buffer.Buffer, rdlength int) (RDATA, error) {
	end := boundEnd(buf, rdlength)
	usage, err := buf.ReadUint8()
	if err != nil {
		return nil, err
	}
	selector, err := buf.ReadUint8()
	if err != nil {
		return nil, err
	}
	matching, err := buf.ReadUint8()
	if err != nil {
		return nil, err
	}
	cert, err := readUntil(buf, end)
	if err != nil {
		return nil, err
	}
	return TLSA{CertUsage: usage, Selector: selector, MatchingType: matching, CertData: cert}, nil
}

func tlsaFromZone(tokens []string, _ label.Label) (RDATA, error) {
	if len(tokens) < 4 {
		return nil, &Error{Type: codes.TypeTLSA, Msg: "expected <usage> <selector> <matchingtype> <certdata>"}
	}
	var usage, selector, matching uint8
	if _, err := fmt.Sscanf(tokens[0], "%d", &usage); err != nil {
		return nil, &Error{Type: codes.TypeTLSA, Msg: "invalid cert usage"}
	}
	if _, err := fmt.Sscanf(tokens[1], "%d", &selector); err != nil {
		return nil, &Error{Type: codes.TypeTLSA, Msg: "invalid selector"}
	}
	if _, err := fmt.Sscanf(tokens[2], "%d", &matching); err != nil {
		return nil, &Error{Type: codes.TypeTLSA, Msg: "invalid matching type"}
	}
	cert, err := hexToBytes(joinRest(tokens[3:]))
	if err != nil {
		return nil, &Error{Type: codes.TypeTLSA, Msg: "invalid cert data hex"}
	}
	return TLSA{CertUsage: usage, Selector: selector, MatchingType: matching, CertData: cert}, nil
}

func init() { register(codes.TypeTLSA, decodeTLSA, tlsaFromZone) }
