package rdata

import (
	"sort"
	"strings"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
)

// NSEC denotes the next owner name in canonical zone order along with the
// RR types present at this owner (RFC 4034 §4). Validation of the NSEC chain
// itself is out of scope.
type NSEC struct {
	NextDomain label.Label
	Types      []codes.RRType
}

func (r NSEC) Type() codes.RRType { return codes.TypeNSEC }

func (r NSEC) Pack(buf *buffer.Buffer, w *label.Writer) error {
	if err := w.EncodeNameNoCompress(buf, r.NextDomain); err != nil {
		return err
	}
	buf.Write(encodeTypeBitmap(r.Types))
	return nil
}

func (r NSEC) String() string {
	names := make([]string, len(r.Types))
	for i, t := range r.Types {
		names[i] = t.String()
	}
	return r.NextDomain.String() + " " + strings.Join(names, " ")
}

// encodeTypeBitmap groups RR type codes into RFC 4034 §4.1.2 windows: each
// window covers 256 consecutive type codes and is emitted only if it has at
// least one bit set, with its bitmap trimmed to the highest set bit.
func encodeTypeBitmap(types []codes.RRType) []byte {
	windows := map[int][]byte{}
	for _, t := range types {
		w := int(t) / 256
		bit := int(t) % 256
		bm, ok := windows[w]
		if !ok {
			bm = make([]byte, 32)
			windows[w] = bm
		}
		bm[bit/8] |= 1 << (7 - uint(bit%8))
	}
	wins := make([]int, 0, len(windows))
	for w := range windows {
		wins = append(wins, w)
	}
	sort.Ints(wins)

	var out []byte
	for _, w := range wins {
		bm := windows[w]
		last := -1
		for i, b := range bm {
			if b != 0 {
				last = i
			}
		}
		if last == -1 {
			continue
		}
		bm = bm[:last+1]
		out = append(out, byte(w), byte(len(bm)))
		out = append(out, bm...)
	}
	return out
}

func decodeTypeBitmap(data []byte) []codes.RRType {
	var types []codes.RRType
	i := 0
	for i+2 <= len(data) {
		win := int(data[i])
		length := int(data[i+1])
		i += 2
		if i+length > len(data) {
			break
		}
		bm := data[i : i+length]
		i += length
		for byteIdx, b := range bm {
			for bit := 0; bit < 8; bit++ {
				if b&(1<<(7-uint(bit))) != 0 {
					types = append(types, codes.RRType(win*256+byteIdx*8+bit))
				}
			}
		}
	}
	return types
}

func decodeNSEC(buf *buffer.Buffer, rdlength int) (RDATA, error) {
	end := boundEnd(buf, rdlength)
	next, err := label.Decode(buf)
	if err != nil {
		return nil, err
	}
	raw, err := readUntil(buf, end)
	if err != nil {
		return nil, err
	}
	return NSEC{NextDomain: next, Types: decodeTypeBitmap(raw)}, nil
}

func nsecFromZone(tokens []string, origin label.Label) (RDATA, error) {
	if len(tokens) < 1 {
		return nil, &Error{Type: codes.TypeNSEC, Msg: "expected <nextdomain> [types...]"}
	}
	next, err := qualify(tokens[0], origin)
	if err != nil {
		return nil, err
	}
	types := make([]codes.RRType, 0, len(tokens)-1)
	for _, tok := range tokens[1:] {
		t, err := codes.ParseRRType(tok)
		if err != nil {
			return nil, &Error{Type: codes.TypeNSEC, Msg: "invalid type in bitmap: " + tok}
		}
		types = append(types, t)
	}
	return NSEC{NextDomain: next, Types: types}, nil
}

func init() { register(codes.TypeNSEC, decodeNSEC, nsecFromZone) }
