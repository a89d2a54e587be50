package rdata

import (
	"fmt"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
)

// SOA is the start-of-authority record (RFC 1035 §3.3.13).
type SOA struct {
	MName   label.Label
	RName   label.Label
	Serial  uint32
	Refresh uint32
	Retry   uint32
	Expire  uint32
	Minimum uint32
}

func (r SOA) Type() codes.RRType { return codes.TypeSOA }

func (r SOA) Pack(buf *buffer.Buffer, w *label.Writer) error {
	if err := w.EncodeName(buf, r.MName); err != nil {
		return err
	}
	if err := w.EncodeName(buf, r.RName); err != nil {
		return err
	}
	buf.WriteUint32(r.Serial)
	buf.WriteUint32(r.Refresh)
	buf.WriteUint32(r.Retry)
	buf.WriteUint32(r.Expire)
	buf.WriteUint32(r.Minimum)
	return nil
}

func (r SOA) String() string {
	return fmt.Sprintf("%s %s %d %d %d %d %d", r.MName, r.RName, r.Serial, r.Refresh, r.Retry, r.Expire, r.Minimum)
}

func decodeSOA(buf *buffer.Buffer, rdlength int) (RDATA, error) {
	end := boundEnd(buf, rdlength)
	mname, err := label.Decode(buf)
	if err != nil {
		return nil, err
	}
	rname, err := label.Decode(buf)
	if err != nil {
		return nil, err
	}
	var vals [5]uint32
	for i := range vals {
		vals[i], err = buf.ReadUint32()
		if err != nil {
			return nil, err
		}
	}
	if err := checkExact(buf, end, codes.TypeSOA); err != nil {
		return nil, err
	}
	return SOA{MName: mname, RName: rname, Serial: vals[0], Refresh: vals[1], Retry: vals[2], Expire: vals[3], Minimum: vals[4]}, nil
}

func soaFromZone(tokens []string, origin label.Label) (RDATA, error) {
	if len(tokens) != 7 {
		return nil, &Error{Type: codes.TypeSOA, Msg: "expected <mname> <rname> <serial> <refresh> <retry> <expire> <minimum>"}
	}
	mname, err := qualify(tokens[0], origin)
	if err != nil {
		return nil, err
	}
	rname, err := qualify(tokens[1], origin)
	if err != nil {
		return nil, err
	}
	var vals [5]uint32
	for i := 0; i < 5; i++ {
		d, err := parseZoneDuration(tokens[2+i])
		if err != nil {
			return nil, &Error{Type: codes.TypeSOA, Msg: "invalid numeric field: " + tokens[2+i]}
		}
		vals[i] = d
	}
	return SOA{MName: mname, RName: rname, Serial: vals[0], Refresh: vals[1], Retry: vals[2], Expire: vals[3], Minimum: vals[4]}, nil
}

func init() { register(codes.TypeSOA, decodeSOA, soaFromZone) }

// NewSOA constructs an SOA record.
func NewSOA(mname, rname label.Label, serial, refresh, retry, expire, minimum uint32) RDATA {
	return SOA{MName: mname, RName: rname, Serial: serial, Refresh: refresh, Retry: retry, Expire: expire, Minimum: minimum}
}
