package rdata

import (
	"fmt"
	"strings"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
)

// EDNSOption is a single OPT pseudo-RR option (RFC 6891 §6.1.2), e.g. a
// client-subnet or cookie option.
type EDNSOption struct {
	Code uint16
	Data []byte
}

// OPT is the RDATA of the EDNS0 pseudo-RR: a sequence of options. The owner
// name, class (repurposed as UDP payload size) and TTL (repurposed to carry
// the extended RCODE, version and DO bit) are handled at the record.RR
// level, matching how RFC 6891 layers EDNS0 onto the existing RR format
// rather than defining a new one.
type OPT struct {
	Options []EDNSOption
}

func (r OPT) Type() codes.RRType { return codes.TypeOPT }

func (r OPT) Pack(buf *buffer.Buffer, _ *label.Writer) error {
	for _, opt := range r.Options {
		buf.WriteUint16(opt.Code)
		buf.WriteUint16(uint16(len(opt.Data)))
		buf.Write(opt.Data)
	}
	return nil
}

func (r OPT) String() string {
	parts := make([]string, len(r.Options))
	for i, opt := range r.Options {
		parts[i] = fmt.Sprintf("%d:%s", opt.Code, bytesToHex(opt.Data))
	}
	return strings.Join(parts, " ")
}

func decodeOPT(buf *buffer.Buffer, rdlength int) (RDATA, error) {
	end := boundEnd(buf, rdlength)
	var opts []EDNSOption
	for buf.Tell() < end {
		code, err := buf.ReadUint16()
		if err != nil {
			return nil, err
		}
		length, err := buf.ReadUint16()
		if err != nil {
			return nil, err
		}
		data, err := buf.Read(int(length))
		if err != nil {
			return nil, err
		}
		opts = append(opts, EDNSOption{Code: code, Data: data})
	}
	if err := checkExact(buf, end, codes.TypeOPT); err != nil {
		return nil, err
	}
	return OPT{Options: opts}, nil
}

// OPT is not parsed from zone-file text: EDNS0 is a wire/session construct,
// never authored in a zone file.
func optFromZone(_ []string, _ label.Label) (RDATA, error) {
	return nil, &Error{Type: codes.TypeOPT, Msg: "OPT is not a zone-file RR type"}
}

func init() { register(codes.TypeOPT, decodeOPT, optFromZone) }

// NewOPT constructs an OPT RDATA body from a set of EDNS options.
func NewOPT(opts ...EDNSOption) RDATA { return OPT{Options: opts} }
