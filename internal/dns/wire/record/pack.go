package record

import (
	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
)

// Pack serializes the message to wire format, using a fresh per-message
// compression dictionary (RFC 1035 §4.1.4 scopes compression to one message).
func (m *Message) Pack() ([]byte, error) {
	buf := buffer.New()
	w := label.NewWriter()

	buf.WriteUint16(m.ID)
	buf.WriteUint16(m.packFlags())
	buf.WriteUint16(uint16(len(m.Questions)))
	buf.WriteUint16(uint16(len(m.Answer)))
	buf.WriteUint16(uint16(len(m.Authority)))
	buf.WriteUint16(uint16(len(m.Additional)))

	for _, q := range m.Questions {
		if err := w.EncodeName(buf, q.Name); err != nil {
			return nil, &Error{Op: "pack", Msg: err.Error()}
		}
		buf.WriteUint16(uint16(q.QType))
		buf.WriteUint16(uint16(q.Class))
	}

	for _, section := range [][]RR{m.Answer, m.Authority, m.Additional} {
		for _, rr := range section {
			if err := packRR(buf, w, rr); err != nil {
				return nil, err
			}
		}
	}

	return buf.Bytes(), nil
}

func (m *Message) packFlags() uint16 {
	var f uint16
	if m.QR {
		f |= 1 << 15
	}
	f |= uint16(m.OpCode) << 11
	if m.AA {
		f |= 1 << 10
	}
	if m.TC {
		f |= 1 << 9
	}
	if m.RD {
		f |= 1 << 8
	}
	if m.RA {
		f |= 1 << 7
	}
	if m.AD {
		f |= 1 << 5
	}
	if m.CD {
		f |= 1 << 4
	}
	f |= uint16(m.RCode) & 0x0F
	return f
}

func packRR(buf *buffer.Buffer, w *label.Writer, rr RR) error {
	if err := w.EncodeName(buf, rr.Name); err != nil {
		return &Error{Op: "pack", Msg: err.Error()}
	}
	buf.WriteUint16(uint16(rr.Type))
	buf.WriteUint16(uint16(rr.Class))
	buf.WriteUint32(rr.TTL)

	lenPos := buf.Tell()
	buf.WriteUint16(0) // RDLENGTH placeholder, backpatched below
	bodyStart := buf.Tell()
	if rr.RData != nil {
		if err := rr.RData.Pack(buf, w); err != nil {
			return &Error{Op: "pack", Msg: err.Error()}
		}
	}
	if err := buf.PatchUint16(lenPos, uint16(buf.Tell()-bodyStart)); err != nil {
		return &Error{Op: "pack", Msg: err.Error()}
	}
	return nil
}
