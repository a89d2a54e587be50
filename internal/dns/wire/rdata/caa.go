package rdata

import (
	"fmt"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
)

// CAA restricts which certificate authorities may issue certificates for a
// name (RFC 6844).
type CAA struct {
	Flags uint8
	Tag   string
	Value string
}

func (r CAA) Type() codes.RRType { return codes.TypeCAA }

func (r CAA) Pack(buf *buffer.Buffer, _ *label.Writer) error {
	buf.WriteUint8(r.Flags)
	if len(r.Tag) > 255 {
		return &Error{Type: codes.TypeCAA, Msg: "tag exceeds 255 bytes"}
	}
	buf.WriteUint8(uint8(len(r.Tag)))
	buf.Write([]byte(r.Tag))
	buf.Write([]byte(r.Value))
	return nil
}

func (r CAA) String() string {
	return fmt.Sprintf("%d %s %s", r.Flags, r.Tag, quoteCharString(r.Value))
}

func decodeCAA(buf *buffer.Buffer, rdlength int) (RDATA, error) {
	end := boundEnd(buf, rdlength)
	flags, err := buf.ReadUint8()
	if err != nil {
		return nil, err
	}
	taglen, err := buf.ReadUint8()
	if err != nil {
		return nil, err
	}
	tag, err := buf.Read(int(taglen))
	if err != nil {
		return nil, err
	}
	value, err := readUntil(buf, end)
	if err != nil {
		return nil, err
	}
	return CAA{Flags: flags, Tag: string(tag), Value: string(value)}, nil
}

func caaFromZone(tokens []string, _ label.Label) (RDATA, error) {
	if len(tokens) != 3 {
		return nil, &Error{Type: codes.TypeCAA, Msg: "expected <flags> <tag> <value>"}
	}
	var flags uint8
	if _, err := fmt.Sscanf(tokens[0], "%d", &flags); err != nil {
		return nil, &Error{Type: codes.TypeCAA, Msg: "invalid flags"}
	}
	value, err := unquoteCharString(tokens[2])
	if err != nil {
		return nil, err
	}
	return CAA{Flags: flags, Tag: tokens[1], Value: value}, nil
}

func init() { register(codes.TypeCAA, decodeCAA, caaFromZone) }

// NewCAA constructs a CAA record.
func NewCAA(flags uint8, tag, value string) RDATA { return CAA{Flags: flags, Tag: tag, Value: value} }
