package rdata

import (
	"fmt"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
)

// SRV is a service location record (RFC 2782). Its target name is never
// compressed, per RFC 2782's explicit requirement.
type SRV struct {
	Priority uint16
	Weight   uint16
	Port     uint16
	Target   label.Label
}

func (r SRV) Type() codes.RRType { return codes.TypeSRV }

func (r SRV) Pack(buf *buffer.Buffer, w *label.Writer) error {
	buf.WriteUint16(r.Priority)
	buf.WriteUint16(r.Weight)
	buf.WriteUint16(r.Port)
	return w.EncodeNameNoCompress(buf, r.Target)
}

func (r SRV) String() string {
	return fmt.Sprintf("%d %d %d %s", r.Priority, r.Weight, r.Port, r.Target)
}

func decodeSRV(buf *buffer.Buffer, rdlength int) (RDATA, error) {
	end := boundEnd(buf, rdlength)
	pri, err := buf.ReadUint16()
	if err != nil {
		return nil, err
	}
	w, err := buf.ReadUint16()
	if err != nil {
		return nil, err
	}
	port, err := buf.ReadUint16()
	if err != nil {
		return nil, err
	}
	target, err := label.Decode(buf)
	if err != nil {
		return nil, err
	}
	if err := checkExact(buf, end, codes.TypeSRV); err != nil {
		return nil, err
	}
	return SRV{Priority: pri, Weight: w, Port: port, Target: target}, nil
}

func srvFromZone(tokens []string, origin label.Label) (RDATA, error) {
	if len(tokens) != 4 {
		return nil, &Error{Type: codes.TypeSRV, Msg: "expected <priority> <weight> <port> <target>"}
	}
	var pri, weight, port uint16
	if _, err := fmt.Sscanf(tokens[0], "%d", &pri); err != nil {
		return nil, &Error{Type: codes.TypeSRV, Msg: "invalid priority"}
	}
	if _, err := fmt.Sscanf(tokens[1], "%d", &weight); err != nil {
		return nil, &Error{Type: codes.TypeSRV, Msg: "invalid weight"}
	}
	if _, err := fmt.Sscanf(tokens[2], "%d", &port); err != nil {
		return nil, &Error{Type: codes.TypeSRV, Msg: "invalid port"}
	}
	target, err := qualify(tokens[3], origin)
	if err != nil {
		return nil, err
	}
	return SRV{Priority: pri, Weight: weight, Port: port, Target: target}, nil
}

func init() { register(codes.TypeSRV, decodeSRV, srvFromZone) }

// NewSRV constructs an SRV record.
func NewSRV(priority, weight, port uint16, target label.Label) RDATA {
	return SRV{Priority: priority, Weight: weight, Port: port, Target: target}
}
