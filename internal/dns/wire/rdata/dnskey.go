package rdata

import (
	"encoding/base64"
	"fmt"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
)

// DNSKEY carries a DNSSEC public key (RFC 4034 §2). Key material is stored
// and round-tripped verbatim; this module never validates signatures against it.
type DNSKEY struct {
	Flags     uint16
	Protocol  uint8
	Algorithm uint8
	Key       []byte
}

func (r DNSKEY) Type() codes.RRType { return codes.TypeDNSKEY }

func (r DNSKEY) Pack(buf *buffer.Buffer, _ *label.Writer) error {
	buf.WriteUint16(r.Flags)
	buf.WriteUint8(r.Protocol)
	buf.WriteUint8(r.Algorithm)
	buf.Write(r.Key)
	return nil
}

func (r DNSKEY) String() string {
	return fmt.Sprintf("%d %d %d %s", r.Flags, r.Protocol, r.Algorithm, base64.StdEncoding.EncodeToString(r.Key))
}

func decodeDNSKEY(buf *buffer.Buffer, rdlength int) (RDATA, error) {
	end := boundEnd(buf, rdlength)
	flags, err := buf.ReadUint16()
	if err != nil {
		return nil, err
	}
	proto, err := buf.ReadUint8()
	if err != nil {
		return nil, err
	}
	algo, err := buf.ReadUint8()
	if err != nil {
		return nil, err
	}
	key, err := readUntil(buf, end)
	if err != nil {
		return nil, err
	}
	return DNSKEY{Flags: flags, Protocol: proto, Algorithm: algo, Key: key}, nil
}

func dnskeyFromZone(tokens []string, _ label.Label) (RDATA, error) {
	if len(tokens) < 4 {
		return nil, &Error{Type: codes.TypeDNSKEY, Msg: "expected <flags> <protocol> <algorithm> <key>"}
	}
	var flags uint16
	var proto, algo uint8
	if _, err := fmt.Sscanf(tokens[0], "%d", &flags); err != nil {
		return nil, &Error{Type: codes.TypeDNSKEY, Msg: "invalid flags"}
	}
	if _, err := fmt.Sscanf(tokens[1], "%d", &proto); err != nil {
		return nil, &Error{Type: codes.TypeDNSKEY, Msg: "invalid protocol"}
	}
	if _, err := fmt.Sscanf(tokens[2], "%d", &algo); err != nil {
		return nil, &Error{Type: codes.TypeDNSKEY, Msg: "invalid algorithm"}
	}
	key, err := base64.StdEncoding.DecodeString(joinRest(tokens[3:]))
	if err != nil {
		return nil, &Error{Type: codes.TypeDNSKEY, Msg: "invalid key base64"}
	}
	return DNSKEY{Flags: flags, Protocol: proto, Algorithm: algo, Key: key}, nil
}

func init() { register(codes.TypeDNSKEY, decodeDNSKEY, dnskeyFromZone) }
