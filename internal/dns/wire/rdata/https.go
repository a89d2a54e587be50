package rdata

import (
	"encoding/base64"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
)

// SvcParam is one key/value pair of an SVCB/HTTPS RDATA (RFC 9460 §2.1).
type SvcParam struct {
	Key   uint16
	Value []byte
}

// svcParamKeys names the registered SvcParamKeys this module understands for
// zone-file presentation; anything else renders/parses as "keyNNNNN=<hex>".
var svcParamKeys = map[uint16]string{
	0: "mandatory", 1: "alpn", 2: "no-default-alpn", 3: "port",
	4: "ipv4hint", 5: "ech", 6: "ipv6hint",
}
var svcParamKeysRev = reverseStrMap(svcParamKeys)

func reverseStrMap(m map[uint16]string) map[string]uint16 {
	out := make(map[string]uint16, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// HTTPS is shared RDATA for both the SVCB (type 64) and HTTPS (type 65)
// records (RFC 9460): a priority, a target name that is never compressed,
// and an ordered set of service parameters.
type HTTPS struct {
	rtype    codes.RRType
	Priority uint16
	Target   label.Label
	Params   []SvcParam
}

func (r HTTPS) Type() codes.RRType { return r.rtype }

func (r HTTPS) Pack(buf *buffer.Buffer, w *label.Writer) error {
	buf.WriteUint16(r.Priority)
	if err := w.EncodeNameNoCompress(buf, r.Target); err != nil {
		return err
	}
	for _, p := range r.Params {
		buf.WriteUint16(p.Key)
		buf.WriteUint16(uint16(len(p.Value)))
		buf.Write(p.Value)
	}
	return nil
}

func (r HTTPS) String() string {
	parts := make([]string, 0, len(r.Params)+2)
	parts = append(parts, fmt.Sprintf("%d", r.Priority), r.Target.String())
	for _, p := range r.Params {
		parts = append(parts, formatSvcParam(p))
	}
	return strings.Join(parts, " ")
}

func formatSvcParam(p SvcParam) string {
	name, known := svcParamKeys[p.Key]
	if !known {
		name = fmt.Sprintf("key%d", p.Key)
	}
	switch p.Key {
	case 2: // no-default-alpn has no value
		return name
	case 3: // port
		if len(p.Value) == 2 {
			return fmt.Sprintf("%s=%d", name, int(p.Value[0])<<8|int(p.Value[1]))
		}
	case 1: // alpn: length-prefixed strings
		return fmt.Sprintf("%s=%s", name, strings.Join(decodeAlpnList(p.Value), ","))
	case 4: // ipv4hint: list of 4-byte IPs
		return fmt.Sprintf("%s=%s", name, strings.Join(decodeIPHints(p.Value, 4), ","))
	case 6: // ipv6hint: list of 16-byte IPs
		return fmt.Sprintf("%s=%s", name, strings.Join(decodeIPHints(p.Value, 16), ","))
	case 5: // ech: opaque base64 blob
		return fmt.Sprintf("%s=%s", name, base64.StdEncoding.EncodeToString(p.Value))
	}
	return fmt.Sprintf("%s=%s", name, bytesToHex(p.Value))
}

func decodeAlpnList(data []byte) []string {
	var out []string
	for i := 0; i < len(data); {
		n := int(data[i])
		i++
		if i+n > len(data) {
			break
		}
		out = append(out, string(data[i:i+n]))
		i += n
	}
	return out
}

func encodeAlpnList(vals []string) []byte {
	var out []byte
	for _, v := range vals {
		out = append(out, byte(len(v)))
		out = append(out, []byte(v)...)
	}
	return out
}

func decodeIPHints(data []byte, size int) []string {
	var out []string
	for i := 0; i+size <= len(data); i += size {
		out = append(out, net.IP(data[i:i+size]).String())
	}
	return out
}

func encodeIPHints(vals []string, size int) ([]byte, error) {
	var out []byte
	for _, v := range vals {
		ip := net.ParseIP(v)
		if ip == nil {
			return nil, fmt.Errorf("invalid IP hint %q", v)
		}
		if size == 4 {
			ip = ip.To4()
		} else {
			ip = ip.To16()
		}
		if ip == nil {
			return nil, fmt.Errorf("IP hint %q wrong family for size %d", v, size)
		}
		out = append(out, ip...)
	}
	return out, nil
}

func decodeHTTPSLike(rtype codes.RRType) decodeFunc {
	return func(buf *buffer.Buffer, rdlength int) (RDATA, error) {
		end := boundEnd(buf, rdlength)
		pri, err := buf.ReadUint16()
		if err != nil {
			return nil, err
		}
		target, err := label.Decode(buf)
		if err != nil {
			return nil, err
		}
		var params []SvcParam
		// RFC 9460 §2.1: SvcParams run to the end of the RDATA, not to any
		// length field of their own - stop exactly at RDLENGTH.
		for buf.Tell() < end {
			key, err := buf.ReadUint16()
			if err != nil {
				return nil, err
			}
			length, err := buf.ReadUint16()
			if err != nil {
				return nil, err
			}
			val, err := buf.Read(int(length))
			if err != nil {
				return nil, err
			}
			params = append(params, SvcParam{Key: key, Value: val})
		}
		if err := checkExact(buf, end, rtype); err != nil {
			return nil, err
		}
		return HTTPS{rtype: rtype, Priority: pri, Target: target, Params: params}, nil
	}
}

func httpsLikeFromZone(rtype codes.RRType) zoneFunc {
	return func(tokens []string, origin label.Label) (RDATA, error) {
		if len(tokens) < 2 {
			return nil, &Error{Type: rtype, Msg: "expected <priority> <target> [params...]"}
		}
		var pri uint16
		if _, err := fmt.Sscanf(tokens[0], "%d", &pri); err != nil {
			return nil, &Error{Type: rtype, Msg: "invalid priority"}
		}
		target, err := qualify(tokens[1], origin)
		if err != nil {
			return nil, err
		}
		params := make([]SvcParam, 0, len(tokens)-2)
		for _, tok := range tokens[2:] {
			p, err := parseSvcParam(rtype, tok)
			if err != nil {
				return nil, err
			}
			params = append(params, p)
		}
		return HTTPS{rtype: rtype, Priority: pri, Target: target, Params: params}, nil
	}
}

func parseSvcParam(rtype codes.RRType, tok string) (SvcParam, error) {
	key, val, hasVal := strings.Cut(tok, "=")
	keyNum, known := svcParamKeysRev[key]
	if !known {
		if strings.HasPrefix(key, "key") {
			n, err := strconv.ParseUint(key[3:], 10, 16)
			if err != nil {
				return SvcParam{}, &Error{Type: rtype, Msg: "invalid SvcParamKey " + key}
			}
			keyNum = uint16(n)
		} else {
			return SvcParam{}, &Error{Type: rtype, Msg: "unknown SvcParamKey " + key}
		}
	}
	switch keyNum {
	case 2: // no-default-alpn: no value
		return SvcParam{Key: keyNum}, nil
	case 3:
		port, err := strconv.ParseUint(val, 10, 16)
		if err != nil {
			return SvcParam{}, &Error{Type: rtype, Msg: "invalid port value"}
		}
		return SvcParam{Key: keyNum, Value: []byte{byte(port >> 8), byte(port)}}, nil
	case 1:
		if !hasVal {
			return SvcParam{}, &Error{Type: rtype, Msg: "alpn requires a value"}
		}
		return SvcParam{Key: keyNum, Value: encodeAlpnList(strings.Split(val, ","))}, nil
	case 4:
		b, err := encodeIPHints(strings.Split(val, ","), 4)
		if err != nil {
			return SvcParam{}, &Error{Type: rtype, Msg: err.Error()}
		}
		return SvcParam{Key: keyNum, Value: b}, nil
	case 6:
		b, err := encodeIPHints(strings.Split(val, ","), 16)
		if err != nil {
			return SvcParam{}, &Error{Type: rtype, Msg: err.Error()}
		}
		return SvcParam{Key: keyNum, Value: b}, nil
	case 5:
		b, err := base64.StdEncoding.DecodeString(val)
		if err != nil {
			return SvcParam{}, &Error{Type: rtype, Msg: "invalid ech base64"}
		}
		return SvcParam{Key: keyNum, Value: b}, nil
	default:
		b, err := hexToBytes(val)
		if err != nil {
			return SvcParam{}, &Error{Type: rtype, Msg: "invalid param value hex"}
		}
		return SvcParam{Key: keyNum, Value: b}, nil
	}
}

func init() {
	register(codes.TypeSVCB, decodeHTTPSLike(codes.TypeSVCB), httpsLikeFromZone(codes.TypeSVCB))
	register(codes.TypeHTTPS, decodeHTTPSLike(codes.TypeHTTPS), httpsLikeFromZone(codes.TypeHTTPS))
}

// NewHTTPS constructs an HTTPS record; NewSVCB builds the SVCB form.
func NewHTTPS(priority uint16, target label.Label, params ...SvcParam) RDATA {
	return HTTPS{rtype: codes.TypeHTTPS, Priority: priority, Target: target, Params: params}
}

// NewSVCB constructs a generic SVCB record.
func NewSVCB(priority uint16, target label.Label, params ...SvcParam) RDATA {
	return HTTPS{rtype: codes.TypeSVCB, Priority: priority, Target: target, Params: params}
}
