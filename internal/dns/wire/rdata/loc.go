package rdata

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
)

// LOC carries geographic location information (RFC 1876). Latitude and
// longitude are stored in thousandths of an arc-second (signed, positive
// north/east); altitude and the precision fields are stored in centimeters.
type LOC struct {
	Version   uint8
	Size      uint32 // centimeters
	HorizPre  uint32 // centimeters
	VertPre   uint32 // centimeters
	Latitude  int64  // thousandths of an arc-second (milliarcseconds)
	Longitude int64
	Altitude  int64 // centimeters above/below the RFC 1876 reference
}

func (r LOC) Type() codes.RRType { return codes.TypeLOC }

func (r LOC) Pack(buf *buffer.Buffer, _ *label.Writer) error {
	buf.WriteUint8(r.Version)
	buf.WriteUint8(encodePrecision(r.Size))
	buf.WriteUint8(encodePrecision(r.HorizPre))
	buf.WriteUint8(encodePrecision(r.VertPre))
	buf.WriteUint32(uint32(r.Latitude + (1 << 31)))
	buf.WriteUint32(uint32(r.Longitude + (1 << 31)))
	buf.WriteUint32(uint32(r.Altitude + 10000000))
	return nil
}

func (r LOC) String() string {
	return fmt.Sprintf("%s %s %.2fm %.2fm %.2fm %.2fm",
		formatCoord(r.Latitude, "N", "S"), formatCoord(r.Longitude, "E", "W"),
		float64(r.Altitude)/100, float64(r.Size)/100, float64(r.HorizPre)/100, float64(r.VertPre)/100)
}

// encodePrecision packs a centimeter value into LOC's base*10^exponent byte.
func encodePrecision(cm uint32) byte {
	exp := 0
	base := uint64(cm)
	for base > 9 && exp < 9 {
		base /= 10
		exp++
	}
	return byte(base<<4 | uint64(exp))
}

func decodePrecision(b byte) uint32 {
	base := uint64(b >> 4)
	exp := uint64(b & 0x0F)
	return uint32(base * pow10(exp))
}

func pow10(n uint64) uint64 {
	v := uint64(1)
	for i := uint64(0); i < n; i++ {
		v *= 10
	}
	return v
}

// formatCoord renders thousandths-of-an-arcsecond as "D M S.SSS H".
func formatCoord(thousandths int64, pos, neg string) string {
	hemi := pos
	if thousandths < 0 {
		hemi = neg
		thousandths = -thousandths
	}
	totalMillis := thousandths // thousandths of a second
	secs := float64(totalMillis) / 1000.0
	deg := int(secs / 3600)
	secs -= float64(deg) * 3600
	min := int(secs / 60)
	secs -= float64(min) * 60
	return fmt.Sprintf("%d %d %.3f %s", deg, min, secs, hemi)
}

// parseCoord parses "D [M [S]] {N|S|E|W}" into thousandths of an arc-second.
func parseCoord(tokens []string, posTok, negTok string) (int64, int, error) {
	var deg, min float64
	var sec float64
	i := 0
	if i >= len(tokens) {
		return 0, i, fmt.Errorf("missing coordinate")
	}
	deg, _ = strconv.ParseFloat(tokens[i], 64)
	i++
	hemi := ""
	numeric := 0
	for i < len(tokens) {
		tok := tokens[i]
		if tok == posTok || tok == negTok {
			hemi = tok
			i++
			break
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			break
		}
		if numeric == 0 {
			min = v
		} else {
			sec = v
		}
		numeric++
		i++
	}
	total := (deg*3600 + min*60 + sec) * 1000
	val := int64(math.Round(total))
	if hemi == negTok {
		val = -val
	}
	return val, i, nil
}

func decodeLOC(buf *buffer.Buffer, rdlength int) (RDATA, error) {
	if rdlength != 16 {
		return nil, &Error{Type: codes.TypeLOC, Msg: "RDLENGTH must be 16"}
	}
	version, err := buf.ReadUint8()
	if err != nil {
		return nil, err
	}
	size, err := buf.ReadUint8()
	if err != nil {
		return nil, err
	}
	hp, err := buf.ReadUint8()
	if err != nil {
		return nil, err
	}
	vp, err := buf.ReadUint8()
	if err != nil {
		return nil, err
	}
	lat, err := buf.ReadUint32()
	if err != nil {
		return nil, err
	}
	lon, err := buf.ReadUint32()
	if err != nil {
		return nil, err
	}
	alt, err := buf.ReadUint32()
	if err != nil {
		return nil, err
	}
	return LOC{
		Version: version, Size: decodePrecision(size), HorizPre: decodePrecision(hp), VertPre: decodePrecision(vp),
		Latitude: int64(lat) - (1 << 31), Longitude: int64(lon) - (1 << 31), Altitude: int64(alt) - 10000000,
	}, nil
}

func locFromZone(tokens []string, _ label.Label) (RDATA, error) {
	lat, n, err := parseCoord(tokens, "N", "S")
	if err != nil {
		return nil, &Error{Type: codes.TypeLOC, Msg: err.Error()}
	}
	tokens = tokens[n:]
	lon, n, err := parseCoord(tokens, "E", "W")
	if err != nil {
		return nil, &Error{Type: codes.TypeLOC, Msg: err.Error()}
	}
	tokens = tokens[n:]

	vals := []float64{0, 1, 10000, 10} // alt defaults to 0m, size 1m, hp 10000m (~10km default per rfc), vp 10m
	for i := 0; i < len(tokens) && i < 4; i++ {
		f, err := strconv.ParseFloat(strings.TrimSuffix(tokens[i], "m"), 64)
		if err != nil {
			return nil, &Error{Type: codes.TypeLOC, Msg: "invalid numeric field " + tokens[i]}
		}
		vals[i] = f
	}
	return LOC{
		Version: 0, Latitude: lat, Longitude: lon,
		Altitude: int64(math.Round(vals[0] * 100)),
		Size:     uint32(math.Round(vals[1] * 100)),
		HorizPre: uint32(math.Round(vals[2] * 100)),
		VertPre:  uint32(math.Round(vals[3] * 100)),
	}, nil
}

func init() { register(codes.TypeLOC, decodeLOC, locFromZone) }
