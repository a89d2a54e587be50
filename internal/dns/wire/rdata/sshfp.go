package rdata

import (
	"fmt"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
)

// SSHFP is an SSH fingerprint record (RFC 4255).
type SSHFP struct {
	Algorithm   uint8
	FPType      uint8
	Fingerprint []byte
}

func (r SSHFP) Type() codes.RRType { return codes.TypeSSHFP }

func (r SSHFP) Pack(buf *buffer.Buffer, _ *label.Writer) error {
	buf.WriteUint8(r.Algorithm)
	buf.WriteUint8(r.FPType)
	buf.Write(r.Fingerprint)
	return nil
}

func (r SSHFP) String() string {
	return fmt.Sprintf("%d %d %s", r.Algorithm, r.FPType, bytesToHex(r.Fingerprint))
}

func decodeSSHFP(buf *buffer.Buffer, rdlength int) (RDATA, error) {
	end := boundEnd(buf, rdlength)
	algo, err := buf.ReadUint8()
	if err != nil {
		return nil, err
	}
	fptype, err := buf.ReadUint8()
	if err != nil {
		return nil, err
	}
	fp, err := readUntil(buf, end)
	if err != nil {
		return nil, err
	}
	return SSHFP{Algorithm: algo, FPType: fptype, Fingerprint: fp}, nil
}

func sshfpFromZone(tokens []string, _ label.Label) (RDATA, error) {
	if len(tokens) < 3 {
		return nil, &Error{Type: codes.TypeSSHFP, Msg: "expected <algorithm> <fptype> <fingerprint>"}
	}
	var algo, fptype uint8
	if _, err := fmt.Sscanf(tokens[0], "%d", &algo); err != nil {
		return nil, &Error{Type: codes.TypeSSHFP, Msg: "invalid algorithm"}
	}
	if _, err := fmt.Sscanf(tokens[1], "%d", &fptype); err != nil {
		return nil, &Error{Type: codes.TypeSSHFP, Msg: "invalid fingerprint type"}
	}
	fp, err := hexToBytes(joinRest(tokens[2:]))
	if err != nil {
		return nil, &Error{Type: codes.TypeSSHFP, Msg: "invalid fingerprint hex"}
	}
	return SSHFP{Algorithm: algo, FPType: fptype, Fingerprint: fp}, nil
}

func init() { register(codes.TypeSSHFP, decodeSSHFP, sshfpFromZone) }
