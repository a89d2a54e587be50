package rdata

import (
	"strings"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
)

// TXT holds one or more length-prefixed character strings (RFC 1035 §3.3.14).
// Most deployments write a single string, but the format always supports a
// sequence of them concatenated for presentation purposes by some resolvers.
type TXT struct {
	Strings []string
}

func (r TXT) Type() codes.RRType { return codes.TypeTXT }

func (r TXT) Pack(buf *buffer.Buffer, _ *label.Writer) error {
	if len(r.Strings) == 0 {
		buf.WriteUint8(0)
		return nil
	}
	for _, s := range r.Strings {
		if len(s) > 255 {
			return &Error{Type: codes.TypeTXT, Msg: "character-string exceeds 255 bytes"}
		}
		buf.WriteUint8(uint8(len(s)))
		buf.Write([]byte(s))
	}
	return nil
}

func (r TXT) String() string {
	parts := make([]string, len(r.Strings))
	for i, s := range r.Strings {
		parts[i] = quoteCharString(s)
	}
	return strings.Join(parts, " ")
}

func decodeTXT(buf *buffer.Buffer, rdlength int) (RDATA, error) {
	end := boundEnd(buf, rdlength)
	var strs []string
	for buf.Tell() < end {
		n, err := buf.ReadUint8()
		if err != nil {
			return nil, err
		}
		b, err := buf.Read(int(n))
		if err != nil {
			return nil, err
		}
		strs = append(strs, string(b))
	}
	if err := checkExact(buf, end, codes.TypeTXT); err != nil {
		return nil, err
	}
	return TXT{Strings: strs}, nil
}

func txtFromZone(tokens []string, _ label.Label) (RDATA, error) {
	strs := make([]string, 0, len(tokens))
	for _, t := range tokens {
		s, err := unquoteCharString(t)
		if err != nil {
			return nil, &Error{Type: codes.TypeTXT, Msg: err.Error()}
		}
		strs = append(strs, s)
	}
	return TXT{Strings: strs}, nil
}

func init() { register(codes.TypeTXT, decodeTXT, txtFromZone) }

// NewTXT constructs a TXT record from one or more character strings.
func NewTXT(strs ...string) RDATA { return TXT{Strings: strs} }
