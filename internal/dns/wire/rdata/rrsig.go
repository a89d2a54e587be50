package rdata

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
)

const zoneTimeLayout = "20060102150405"

// RRSIG carries a DNSSEC signature over another RRset (RFC 4034 §3). This
// module carries signatures without validating them.
type RRSIG struct {
	TypeCovered codes.RRType
	Algorithm   uint8
	Labels      uint8
	OrigTTL     uint32
	Expiration  time.Time
	Inception   time.Time
	KeyTag      uint16
	SignerName  label.Label
	Signature   []byte
}

func (r RRSIG) Type() codes.RRType { return codes.TypeRRSIG }

func (r RRSIG) Pack(buf *buffer.Buffer, w *label.Writer) error {
	buf.WriteUint16(uint16(r.TypeCovered))
	buf.WriteUint8(r.Algorithm)
	buf.WriteUint8(r.Labels)
	buf.WriteUint32(r.OrigTTL)
	buf.WriteUint32(uint32(r.Expiration.UTC().Unix()))
	buf.WriteUint32(uint32(r.Inception.UTC().Unix()))
	buf.WriteUint16(r.KeyTag)
	// RFC 4034 §3.1.7: the signer name MUST NOT be compressed.
	if err := w.EncodeNameNoCompress(buf, r.SignerName); err != nil {
		return err
	}
	buf.Write(r.Signature)
	return nil
}

func (r RRSIG) String() string {
	return fmt.Sprintf("%s %d %d %d %s %s %d %s %s",
		r.TypeCovered, r.Algorithm, r.Labels, r.OrigTTL,
		r.Expiration.UTC().Format(zoneTimeLayout), r.Inception.UTC().Format(zoneTimeLayout),
		r.KeyTag, r.SignerName, base64.StdEncoding.EncodeToString(r.Signature))
}

func decodeRRSIG(buf *buffer.Buffer, rdlength int) (RDATA, error) {
	end := boundEnd(buf, rdlength)
	covered, err := buf.ReadUint16()
	if err != nil {
		return nil, err
	}
	algo, err := buf.ReadUint8()
	if err != nil {
		return nil, err
	}
	labels, err := buf.ReadUint8()
	if err != nil {
		return nil, err
	}
	origTTL, err := buf.ReadUint32()
	if err != nil {
		return nil, err
	}
	exp, err := buf.ReadUint32()
	if err != nil {
		return nil, err
	}
	inc, err := buf.ReadUint32()
	if err != nil {
		return nil, err
	}
	keytag, err := buf.ReadUint16()
	if err != nil {
		return nil, err
	}
	signer, err := label.Decode(buf)
	if err != nil {
		return nil, err
	}
	sig, err := readUntil(buf, end)
	if err != nil {
		return nil, err
	}
	return RRSIG{
		TypeCovered: codes.RRType(covered),
		Algorithm:   algo,
		Labels:      labels,
		OrigTTL:     origTTL,
		Expiration:  time.Unix(int64(exp), 0).UTC(),
		Inception:   time.Unix(int64(inc), 0).UTC(),
		KeyTag:      keytag,
		SignerName:  signer,
		Signature:   sig,
	}, nil
}

func rrsigFromZone(tokens []string, origin label.Label) (RDATA, error) {
	if len(tokens) < 9 {
		return nil, &Error{Type: codes.TypeRRSIG, Msg: "expected <typecovered> <algorithm> <labels> <origttl> <expiration> <inception> <keytag> <signer> <signature>"}
	}
	covered, err := codes.ParseRRType(tokens[0])
	if err != nil {
		return nil, &Error{Type: codes.TypeRRSIG, Msg: "invalid type covered: " + err.Error()}
	}
	var algo, labels uint8
	var origTTL uint32
	var keytag uint16
	if _, err := fmt.Sscanf(tokens[1], "%d", &algo); err != nil {
		return nil, &Error{Type: codes.TypeRRSIG, Msg: "invalid algorithm"}
	}
	if _, err := fmt.Sscanf(tokens[2], "%d", &labels); err != nil {
		return nil, &Error{Type: codes.TypeRRSIG, Msg: "invalid labels"}
	}
	if v, err := parseZoneDuration(tokens[3]); err == nil {
		origTTL = v
	} else {
		return nil, &Error{Type: codes.TypeRRSIG, Msg: "invalid original TTL"}
	}
	exp, err := time.ParseInLocation(zoneTimeLayout, tokens[4], time.UTC)
	if err != nil {
		return nil, &Error{Type: codes.TypeRRSIG, Msg: "invalid expiration timestamp"}
	}
	inc, err := time.ParseInLocation(zoneTimeLayout, tokens[5], time.UTC)
	if err != nil {
		return nil, &Error{Type: codes.TypeRRSIG, Msg: "invalid inception timestamp"}
	}
	if _, err := fmt.Sscanf(tokens[6], "%d", &keytag); err != nil {
		return nil, &Error{Type: codes.TypeRRSIG, Msg: "invalid key tag"}
	}
	signer, err := qualify(tokens[7], origin)
	if err != nil {
		return nil, err
	}
	sig, err := base64.StdEncoding.DecodeString(joinRest(tokens[8:]))
	if err != nil {
		return nil, &Error{Type: codes.TypeRRSIG, Msg: "invalid signature base64"}
	}
	return RRSIG{
		TypeCovered: covered, Algorithm: algo, Labels: labels, OrigTTL: origTTL,
		Expiration: exp, Inception: inc, KeyTag: keytag, SignerName: signer, Signature: sig,
	}, nil
}

func init() { register(codes.TypeRRSIG, decodeRRSIG, rrsigFromZone) }
