package rdata

import (
	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
)

// Opaque carries the RDATA of any RR type this module has no native
// understanding of, preserving the exact bytes for round-tripping (RFC 3597).
// Its zone-file presentation is the generic "\# <len> <hex>" form.
type Opaque struct {
	rtype codes.RRType
	Data  []byte
}

func (r Opaque) Type() codes.RRType { return r.rtype }

func (r Opaque) Pack(buf *buffer.Buffer, _ *label.Writer) error {
	buf.Write(r.Data)
	return nil
}

func (r Opaque) String() string {
	return genericZoneForm(r.Data)
}

func genericZoneForm(data []byte) string {
	if len(data) == 0 {
		return `\# 0`
	}
	return `\# ` + itoa(len(data)) + " " + bytesToHex(data)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func decodeOpaque(rtype codes.RRType, buf *buffer.Buffer, rdlength int) (RDATA, error) {
	data, err := buf.Read(rdlength)
	if err != nil {
		return nil, err
	}
	return Opaque{rtype: rtype, Data: data}, nil
}

// opaqueFromZone parses the RFC 3597 generic form "\# <len> <hexbytes...>".
// Any other token shape for an unregistered type is a hard error: this
// module never guesses at an unknown RDATA layout.
func opaqueFromZone(rtype codes.RRType, tokens []string) (RDATA, error) {
	if len(tokens) < 2 || tokens[0] != `\#` {
		return nil, &Error{Type: rtype, Msg: `unsupported RR type: expected generic "\# <len> <hex>" form`}
	}
	declared, err := parseZoneDuration(tokens[1])
	if err != nil {
		return nil, &Error{Type: rtype, Msg: "invalid generic RDATA length"}
	}
	data, err := hexToBytes(joinRest(tokens[2:]))
	if err != nil {
		return nil, &Error{Type: rtype, Msg: "invalid generic RDATA hex"}
	}
	if int(declared) != len(data) {
		return nil, &Error{Type: rtype, Msg: "generic RDATA length does not match hex payload"}
	}
	return Opaque{rtype: rtype, Data: data}, nil
}

// NewOpaque constructs an Opaque RDATA body, e.g. for an RR type this module
// doesn't parse natively but a caller still wants to forward verbatim.
func NewOpaque(rtype codes.RRType, data []byte) RDATA { return Opaque{rtype: rtype, Data: data} }
