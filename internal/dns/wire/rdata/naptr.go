package rdata

import (
	"fmt"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
)

// NAPTR is a naming authority pointer record (RFC 3403).
type NAPTR struct {
	Order       uint16
	Preference  uint16
	Flags       string
	Service     string
	Regexp      string
	Replacement label.Label
}

func (r NAPTR) Type() codes.RRType { return codes.TypeNAPTR }

func (r NAPTR) Pack(buf *buffer.Buffer, w *label.Writer) error {
	buf.WriteUint16(r.Order)
	buf.WriteUint16(r.Preference)
	if err := writeCharString(buf, r.Flags); err != nil {
		return err
	}
	if err := writeCharString(buf, r.Service); err != nil {
		return err
	}
	if err := writeCharString(buf, r.Regexp); err != nil {
		return err
	}
	return w.EncodeNameNoCompress(buf, r.Replacement)
}

func (r NAPTR) String() string {
	return fmt.Sprintf("%d %d %s %s %s %s",
		r.Order, r.Preference, quoteCharString(r.Flags), quoteCharString(r.Service), quoteCharString(r.Regexp), r.Replacement)
}

func writeCharString(buf *buffer.Buffer, s string) error {
	if len(s) > 255 {
		return &Error{Type: codes.TypeNAPTR, Msg: "character-string exceeds 255 bytes"}
	}
	buf.WriteUint8(uint8(len(s)))
	buf.Write([]byte(s))
	return nil
}

func readCharString(buf *buffer.Buffer) (string, error) {
	n, err := buf.ReadUint8()
	if err != nil {
		return "", err
	}
	b, err := buf.Read(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeNAPTR(buf *buffer.Buffer, rdlength int) (RDATA, error) {
	end := boundEnd(buf, rdlength)
	order, err := buf.ReadUint16()
	if err != nil {
		return nil, err
	}
	pref, err := buf.ReadUint16()
	if err != nil {
		return nil, err
	}
	flags, err := readCharString(buf)
	if err != nil {
		return nil, err
	}
	service, err := readCharString(buf)
	if err != nil {
		return nil, err
	}
	regexp, err := readCharString(buf)
	if err != nil {
		return nil, err
	}
	repl, err := label.Decode(buf)
	if err != nil {
		return nil, err
	}
	if err := checkExact(buf, end, codes.TypeNAPTR); err != nil {
		return nil, err
	}
	return NAPTR{Order: order, Preference: pref, Flags: flags, Service: service, Regexp: regexp, Replacement: repl}, nil
}

func naptrFromZone(tokens []string, origin label.Label) (RDATA, error) {
	if len(tokens) != 6 {
		return nil, &Error{Type: codes.TypeNAPTR, Msg: "expected <order> <preference> <flags> <service> <regexp> <replacement>"}
	}
	var order, pref uint16
	if _, err := fmt.Sscanf(tokens[0], "%d", &order); err != nil {
		return nil, &Error{Type: codes.TypeNAPTR, Msg: "invalid order"}
	}
	if _, err := fmt.Sscanf(tokens[1], "%d", &pref); err != nil {
		return nil, &Error{Type: codes.TypeNAPTR, Msg: "invalid preference"}
	}
	flags, err := unquoteCharString(tokens[2])
	if err != nil {
		return nil, err
	}
	service, err := unquoteCharString(tokens[3])
	if err != nil {
		return nil, err
	}
	regexp, err := unquoteCharString(tokens[4])
	if err != nil {
		return nil, err
	}
	repl, err := qualify(tokens[5], origin)
	if err != nil {
		return nil, err
	}
	return NAPTR{Order: order, Preference: pref, Flags: flags, Service: service, Regexp: regexp, Replacement: repl}, nil
}

func init() { register(codes.TypeNAPTR, decodeNAPTR, naptrFromZone) }
