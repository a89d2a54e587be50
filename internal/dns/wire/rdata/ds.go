package rdata

import (
	"fmt"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
)

// DS is a delegation signer record (RFC 4034 §5). It carries a child zone's
// key digest without verifying it; signature/hash validation is explicitly
// out of scope for this module.
type DS struct {
	KeyTag     uint16
	Algorithm  uint8
	DigestType uint8
	Digest     []byte
}

func (r DS) Type() codes.RRType { return codes.TypeDS }

func (r DS) Pack(buf *buffer.Buffer, _ *label.Writer) error {
	buf.WriteUint16(r.KeyTag)
	buf.WriteUint8(r.Algorithm)
	buf.WriteUint8(r.DigestType)
	buf.Write(r.Digest)
	return nil
}

func (r DS) String() string {
	return fmt.Sprintf("%d %d %d %s", r.KeyTag, r.Algorithm, r.DigestType, bytesToHex(r.Digest))
}

func decodeDS(buf *buffer.Buffer, rdlength int) (RDATA, error) {
	end := boundEnd(buf, rdlength)
	tag, err := buf.ReadUint16()
	if err != nil {
		return nil, err
	}
	algo, err := buf.ReadUint8()
	if err != nil {
		return nil, err
	}
	dtype, err := buf.ReadUint8()
	if err != nil {
		return nil, err
	}
	digest, err := readUntil(buf, end)
	if err != nil {
		return nil, err
	}
	return DS{KeyTag: tag, Algorithm: algo, DigestType: dtype, Digest: digest}, nil
}

func dsFromZone(tokens []string, _ label.Label) (RDATA, error) {
	if len(tokens) < 4 {
		return nil, &Error{Type: codes.TypeDS, Msg: "expected <keytag> <algorithm> <digesttype> <digest...>"}
	}
	var tag uint16
	var algo, dtype uint8
	if _, err := fmt.Sscanf(tokens[0], "%d", &tag); err != nil {
		return nil, &Error{Type: codes.TypeDS, Msg: "invalid key tag"}
	}
	if _, err := fmt.Sscanf(tokens[1], "%d", &algo); err != nil {
		return nil, &Error{Type: codes.TypeDS, Msg: "invalid algorithm"}
	}
	if _, err := fmt.Sscanf(tokens[2], "%d", &dtype); err != nil {
		return nil, &Error{Type: codes.TypeDS, Msg: "invalid digest type"}
	}
	digest, err := hexToBytes(joinRest(tokens[3:]))
	if err != nil {
		return nil, &Error{Type: codes.TypeDS, Msg: "invalid digest hex"}
	}
	return DS{KeyTag: tag, Algorithm: algo, DigestType: dtype, Digest: digest}, nil
}

func joinRest(tokens []string) string {
	out := ""
	for _, t := range tokens {
		out += t
	}
	return out
}

func init() { register(codes.TypeDS, decodeDS, dsFromZone) }
