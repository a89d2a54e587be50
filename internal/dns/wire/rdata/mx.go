package rdata

import (
	"fmt"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
)

// MX is a mail exchange record (RFC 1035 §3.3.9).
type MX struct {
	Preference uint16
	Exchange   label.Label
}

func (r MX) Type() codes.RRType { return codes.TypeMX }

func (r MX) Pack(buf *buffer.Buffer, w *label.Writer) error {
	buf.WriteUint16(r.Preference)
	return w.EncodeName(buf, r.Exchange)
}

func (r MX) String() string { return fmt.Sprintf("%d %s", r.Preference, r.Exchange) }

func decodeMX(buf *buffer.Buffer, rdlength int) (RDATA, error) {
	end := boundEnd(buf, rdlength)
	pref, err := buf.ReadUint16()
	if err != nil {
		return nil, err
	}
	name, err := label.Decode(buf)
	if err != nil {
		return nil, err
	}
	if err := checkExact(buf, end, codes.TypeMX); err != nil {
		return nil, err
	}
	return MX{Preference: pref, Exchange: name}, nil
}

func mxFromZone(tokens []string, origin label.Label) (RDATA, error) {
	if len(tokens) != 2 {
		return nil, &Error{Type: codes.TypeMX, Msg: "expected <preference> <exchange>"}
	}
	var pref uint16
	if _, err := fmt.Sscanf(tokens[0], "%d", &pref); err != nil {
		return nil, &Error{Type: codes.TypeMX, Msg: "invalid preference"}
	}
	name, err := qualify(tokens[1], origin)
	if err != nil {
		return nil, err
	}
	return MX{Preference: pref, Exchange: name}, nil
}

func init() { register(codes.TypeMX, decodeMX, mxFromZone) }

// NewMX constructs an MX record.
func NewMX(preference uint16, exchange label.Label) RDATA {
	return MX{Preference: preference, Exchange: exchange}
}
