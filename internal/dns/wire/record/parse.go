package record

import (
	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/rdata"
)

// Parse decodes a wire-format DNS message. It never panics: any malformed
// input surfaces as an *Error.
func Parse(data []byte) (*Message, error) {
	buf := buffer.NewFromBytes(data)

	id, err := buf.ReadUint16()
	if err != nil {
		return nil, wrapParseErr(err)
	}
	flags, err := buf.ReadUint16()
	if err != nil {
		return nil, wrapParseErr(err)
	}
	qdcount, err := buf.ReadUint16()
	if err != nil {
		return nil, wrapParseErr(err)
	}
	ancount, err := buf.ReadUint16()
	if err != nil {
		return nil, wrapParseErr(err)
	}
	nscount, err := buf.ReadUint16()
	if err != nil {
		return nil, wrapParseErr(err)
	}
	arcount, err := buf.ReadUint16()
	if err != nil {
		return nil, wrapParseErr(err)
	}

	m := &Message{ID: id}
	m.unpackFlags(flags)

	for i := uint16(0); i < qdcount; i++ {
		q, err := parseQuestion(buf)
		if err != nil {
			return nil, err
		}
		m.Questions = append(m.Questions, q)
	}

	for i := uint16(0); i < ancount; i++ {
		rr, err := parseRR(buf)
		if err != nil {
			return nil, err
		}
		m.Answer = append(m.Answer, rr)
	}
	for i := uint16(0); i < nscount; i++ {
		rr, err := parseRR(buf)
		if err != nil {
			return nil, err
		}
		m.Authority = append(m.Authority, rr)
	}
	for i := uint16(0); i < arcount; i++ {
		rr, err := parseRR(buf)
		if err != nil {
			return nil, err
		}
		m.Additional = append(m.Additional, rr)
	}

	return m, nil
}

func wrapParseErr(err error) error {
	return &Error{Op: "parse", Msg: err.Error()}
}

func (m *Message) unpackFlags(f uint16) {
	m.QR = f&(1<<15) != 0
	m.OpCode = codes.OpCode((f >> 11) & 0x0F)
	m.AA = f&(1<<10) != 0
	m.TC = f&(1<<9) != 0
	m.RD = f&(1<<8) != 0
	m.RA = f&(1<<7) != 0
	m.AD = f&(1<<5) != 0
	m.CD = f&(1<<4) != 0
	m.RCode = codes.RCode(f & 0x0F)
}

func parseQuestion(buf *buffer.Buffer) (Question, error) {
	name, err := label.Decode(buf)
	if err != nil {
		return Question{}, wrapParseErr(err)
	}
	qtype, err := buf.ReadUint16()
	if err != nil {
		return Question{}, wrapParseErr(err)
	}
	qclass, err := buf.ReadUint16()
	if err != nil {
		return Question{}, wrapParseErr(err)
	}
	return Question{Name: name, QType: codes.RRType(qtype), Class: codes.RRClass(qclass)}, nil
}

func parseRR(buf *buffer.Buffer) (RR, error) {
	name, err := label.Decode(buf)
	if err != nil {
		return RR{}, wrapParseErr(err)
	}
	rtype, err := buf.ReadUint16()
	if err != nil {
		return RR{}, wrapParseErr(err)
	}
	rclass, err := buf.ReadUint16()
	if err != nil {
		return RR{}, wrapParseErr(err)
	}
	ttl, err := buf.ReadUint32()
	if err != nil {
		return RR{}, wrapParseErr(err)
	}
	rdlen, err := buf.ReadUint16()
	if err != nil {
		return RR{}, wrapParseErr(err)
	}
	if rdlen > 0 && buf.Remaining() < int(rdlen) {
		return RR{}, &Error{Op: "parse", Msg: "RDLENGTH exceeds remaining message bytes"}
	}
	rd, err := rdata.Decode(codes.RRType(rtype), buf, int(rdlen))
	if err != nil {
		return RR{}, wrapParseErr(err)
	}
	return RR{Name: name, Type: codes.RRType(rtype), Class: codes.RRClass(rclass), TTL: ttl, RData: rd}, nil
}
