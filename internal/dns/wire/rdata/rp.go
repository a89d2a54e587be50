package rdata

import (
	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
)

// RP identifies the responsible person for a domain (RFC 1183 §2.2).
type RP struct {
	Mbox label.Label
	TXT  label.Label
}

func (r RP) Type() codes.RRType { return codes.TypeRP }

func (r RP) Pack(buf *buffer.Buffer, w *label.Writer) error {
	if err := w.EncodeNameNoCompress(buf, r.Mbox); err != nil {
		return err
	}
	return w.EncodeNameNoCompress(buf, r.TXT)
}

func (r RP) String() string { return r.Mbox.String() + " " + r.TXT.String() }

func decodeRP(buf *buffer.Buffer, rdlength int) (RDATA, error) {
	end := boundEnd(buf, rdlength)
	mbox, err := label.Decode(buf)
	if err != nil {
		return nil, err
	}
	txt, err := label.Decode(buf)
	if err != nil {
		return nil, err
	}
	if err := checkExact(buf, end, codes.TypeRP); err != nil {
		return nil, err
	}
	return RP{Mbox: mbox, TXT: txt}, nil
}

func rpFromZone(tokens []string, origin label.Label) (RDATA, error) {
	if len(tokens) != 2 {
		return nil, &Error{Type: codes.TypeRP, Msg: "expected <mbox> <txt-domain>"}
	}
	mbox, err := qualify(tokens[0], origin)
	if err != nil {
		return nil, err
	}
	txt, err := qualify(tokens[1], origin)
	if err != nil {
		return nil, err
	}
	return RP{Mbox: mbox, TXT: txt}, nil
}

func init() { register(codes.TypeRP, decodeRP, rpFromZone) }
