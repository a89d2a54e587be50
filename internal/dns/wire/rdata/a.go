package rdata

import (
	"net"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
)

// A is an IPv4 address record (RFC 1035 §3.4.1).
type A struct {
	Addr net.IP
}

func (r A) Type() codes.RRType { return codes.TypeA }

func (r A) Pack(buf *buffer.Buffer, _ *label.Writer) error {
	ip4 := r.Addr.To4()
	if ip4 == nil {
		return &Error{Type: codes.TypeA, Msg: "address is not IPv4"}
	}
	buf.Write(ip4)
	return nil
}

func (r A) String() string { return r.Addr.String() }

func decodeA(buf *buffer.Buffer, rdlength int) (RDATA, error) {
	if rdlength != 4 {
		return nil, &Error{Type: codes.TypeA, Msg: "RDLENGTH must be 4"}
	}
	b, err := buf.Read(4)
	if err != nil {
		return nil, err
	}
	return A{Addr: net.IPv4(b[0], b[1], b[2], b[3])}, nil
}

func aFromZone(tokens []string, _ label.Label) (RDATA, error) {
	if len(tokens) != 1 {
		return nil, &Error{Type: codes.TypeA, Msg: "expected a single dotted-quad address"}
	}
	ip := net.ParseIP(tokens[0]).To4()
	if ip == nil {
		return nil, &Error{Type: codes.TypeA, Msg: "invalid IPv4 address " + tokens[0]}
	}
	return A{Addr: ip}, nil
}

func init() { register(codes.TypeA, decodeA, aFromZone) }

// NewA constructs an A record from an IPv4 address.
func NewA(addr net.IP) RDATA { return A{Addr: addr} }
