package rdata

import (
	"net"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
)

// AAAA is an IPv6 address record (RFC 3596).
type AAAA struct {
	Addr net.IP
}

func (r AAAA) Type() codes.RRType { return codes.TypeAAAA }

func (r AAAA) Pack(buf *buffer.Buffer, _ *label.Writer) error {
	ip16 := r.Addr.To16()
	if ip16 == nil {
		return &Error{Type: codes.TypeAAAA, Msg: "address is not valid IPv6"}
	}
	buf.Write(ip16)
	return nil
}

// String renders the compressed RFC 5952 form that net.IP.String already
// produces for IPv6 addresses.
func (r AAAA) String() string { return r.Addr.String() }

func decodeAAAA(buf *buffer.Buffer, rdlength int) (RDATA, error) {
	if rdlength != 16 {
		return nil, &Error{Type: codes.TypeAAAA, Msg: "RDLENGTH must be 16"}
	}
	b, err := buf.Read(16)
	if err != nil {
		return nil, err
	}
	ip := make(net.IP, 16)
	copy(ip, b)
	return AAAA{Addr: ip}, nil
}

func aaaaFromZone(tokens []string, _ label.Label) (RDATA, error) {
	if len(tokens) != 1 {
		return nil, &Error{Type: codes.TypeAAAA, Msg: "expected a single IPv6 address"}
	}
	ip := net.ParseIP(tokens[0])
	if ip == nil || ip.To4() != nil {
		return nil, &Error{Type: codes.TypeAAAA, Msg: "invalid IPv6 address " + tokens[0]}
	}
	return AAAA{Addr: ip.To16()}, nil
}

func init() { register(codes.TypeAAAA, decodeAAAA, aaaaFromZone) }

// NewAAAA constructs an AAAA record from an IPv6 address.
func NewAAAA(addr net.IP) RDATA { return AAAA{Addr: addr} }
