package rdata

import (
	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
)

// NameRR is the RDATA shape shared by CNAME, NS, PTR and DNAME: a single
// compressible domain name.
type NameRR struct {
	rtype codes.RRType
	Name  label.Label
}

func (r NameRR) Type() codes.RRType { return r.rtype }

func (r NameRR) Pack(buf *buffer.Buffer, w *label.Writer) error {
	return w.EncodeName(buf, r.Name)
}

func (r NameRR) String() string { return r.Name.String() }

func decodeNameRR(rtype codes.RRType) decodeFunc {
	return func(buf *buffer.Buffer, rdlength int) (RDATA, error) {
		end := boundEnd(buf, rdlength)
		name, err := label.Decode(buf)
		if err != nil {
			return nil, err
		}
		if err := checkExact(buf, end, rtype); err != nil {
			return nil, err
		}
		return NameRR{rtype: rtype, Name: name}, nil
	}
}

func nameRRFromZone(rtype codes.RRType) zoneFunc {
	return func(tokens []string, origin label.Label) (RDATA, error) {
		if len(tokens) != 1 {
			return nil, &Error{Type: rtype, Msg: "expected a single name"}
		}
		name, err := qualify(tokens[0], origin)
		if err != nil {
			return nil, err
		}
		return NameRR{rtype: rtype, Name: name}, nil
	}
}

func init() {
	for _, t := range []codes.RRType{codes.TypeCNAME, codes.TypeNS, codes.TypePTR, codes.TypeDNAME} {
		register(t, decodeNameRR(t), nameRRFromZone(t))
	}
}

// NewCNAME, NewNS, NewPTR, NewDNAME are convenience constructors used by
// resolvers and zone tests that build records programmatically.
func NewCNAME(name label.Label) RDATA { return NameRR{rtype: codes.TypeCNAME, Name: name} }
func NewNS(name label.Label) RDATA    { return NameRR{rtype: codes.TypeNS, Name: name} }
func NewPTR(name label.Label) RDATA   { return NameRR{rtype: codes.TypePTR, Name: name} }
func NewDNAME(name label.Label) RDATA { return NameRR{rtype: codes.TypeDNAME, Name: name} }

// qualify resolves a zone-file name token against origin: "@" means origin
// itself, a trailing dot means absolute, anything else is relative.
func qualify(tok string, origin label.Label) (label.Label, error) {
	if tok == "@" {
		return origin, nil
	}
	n, err := label.Parse(tok)
	if err != nil {
		return label.Label{}, err
	}
	if len(tok) > 0 && tok[len(tok)-1] == '.' {
		return n, nil
	}
	return label.FromLabels(append(append([]string{}, n.Parts()...), origin.Parts()...)...)
}
