// Package dig parses the section-oriented debug text `dig +qr` prints (and
// that record.Message.String produces) back into a record.Message, e.g. for
// tests that want to author expected messages as plain text.
//
// Unlike the reference implementation this is ported from, this parser
// understands the "OPT PSEUDOSECTION" block dig prints for EDNS0 responses;
// the original only handled the four RFC 1035 sections.
package dig

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/rdata"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/record"
)

var (
	headerRE = regexp.MustCompile(`^;; ->>HEADER<<- opcode: (\S+), status: (\S+), id: (\d+)`)
	flagsRE  = regexp.MustCompile(`^;; flags:([^;]*);`)
	ednsRE   = regexp.MustCompile(`^; EDNS: version: (\d+), flags:([^;]*); udp: (\d+)`)
)

type section int

const (
	secNone section = iota
	secQuestion
	secAnswer
	secAuthority
	secOPT
	secAdditional
)

// Parse decodes dig-style debug text into a Message. Comment lines it does
// not recognize (dig prints many, e.g. "; <<>> DiG 9.16 <<>>") are ignored.
func Parse(text string) (*record.Message, error) {
	m := &record.Message{}
	cur := secNone
	haveEDNS := false
	var udpSize uint16
	var version uint8
	var do bool

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 4096), 1<<20)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if hm := headerRE.FindStringSubmatch(line); hm != nil {
			op, err := codes.ParseOpCode(hm[1])
			if err != nil {
				return nil, &record.Error{Op: "dig", Msg: err.Error()}
			}
			rc, err := codes.ParseRCode(hm[2])
			if err != nil {
				return nil, &record.Error{Op: "dig", Msg: err.Error()}
			}
			id, err := strconv.ParseUint(hm[3], 10, 16)
			if err != nil {
				return nil, &record.Error{Op: "dig", Msg: err.Error()}
			}
			m.OpCode, m.RCode, m.ID = op, rc, uint16(id)
			continue
		}
		if fm := flagsRE.FindStringSubmatch(line); fm != nil {
			applyFlags(m, fm[1])
			continue
		}
		switch {
		case strings.HasPrefix(trimmed, ";; QUESTION SECTION:"):
			cur = secQuestion
			continue
		case strings.HasPrefix(trimmed, ";; ANSWER SECTION:"):
			cur = secAnswer
			continue
		case strings.HasPrefix(trimmed, ";; AUTHORITY SECTION:"):
			cur = secAuthority
			continue
		case strings.HasPrefix(trimmed, ";; OPT PSEUDOSECTION:"):
			cur = secOPT
			haveEDNS = true
			continue
		case strings.HasPrefix(trimmed, ";; ADDITIONAL SECTION:"):
			cur = secAdditional
			continue
		case strings.HasPrefix(trimmed, ";;"):
			continue
		case strings.HasPrefix(trimmed, ";") && cur != secQuestion && cur != secOPT:
			continue
		}

		switch cur {
		case secQuestion:
			q, err := parseQuestionLine(trimmed)
			if err != nil {
				return nil, err
			}
			m.Questions = append(m.Questions, q)
		case secAnswer:
			rr, err := parseRRLine(trimmed)
			if err != nil {
				return nil, err
			}
			m.Answer = append(m.Answer, rr)
		case secAuthority:
			rr, err := parseRRLine(trimmed)
			if err != nil {
				return nil, err
			}
			m.Authority = append(m.Authority, rr)
		case secAdditional:
			rr, err := parseRRLine(trimmed)
			if err != nil {
				return nil, err
			}
			m.Additional = append(m.Additional, rr)
		case secOPT:
			if em := ednsRE.FindStringSubmatch(trimmed); em != nil {
				v, _ := strconv.ParseUint(em[1], 10, 8)
				version = uint8(v)
				do = strings.Contains(em[2], "do")
				u, _ := strconv.ParseUint(em[3], 10, 16)
				udpSize = uint16(u)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &record.Error{Op: "dig", Msg: err.Error()}
	}

	if haveEDNS {
		extRCode := uint8(uint16(m.RCode) >> 4)
		m.RCode = codes.RCode(uint16(m.RCode) & 0x0F)
		m.Additional = append(m.Additional, record.NewOPTRecord(udpSize, extRCode, version, do))
	}
	return m, nil
}

func applyFlags(m *record.Message, flagStr string) {
	fields := strings.Fields(flagStr)
	for _, f := range fields {
		switch f {
		case "qr":
			m.QR = true
		case "aa":
			m.AA = true
		case "tc":
			m.TC = true
		case "rd":
			m.RD = true
		case "ra":
			m.RA = true
		case "ad":
			m.AD = true
		case "cd":
			m.CD = true
		}
	}
}

func parseQuestionLine(line string) (record.Question, error) {
	line = strings.TrimPrefix(line, ";")
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return record.Question{}, &record.Error{Op: "dig", Msg: "malformed question line: " + line}
	}
	name, err := label.Parse(fields[0])
	if err != nil {
		return record.Question{}, &record.Error{Op: "dig", Msg: err.Error()}
	}
	class, err := codes.ParseRRClass(fields[1])
	if err != nil {
		return record.Question{}, &record.Error{Op: "dig", Msg: err.Error()}
	}
	qtype, err := codes.ParseRRType(fields[2])
	if err != nil {
		return record.Question{}, &record.Error{Op: "dig", Msg: err.Error()}
	}
	return record.Question{Name: name, QType: qtype, Class: class}, nil
}

// parseRRLine parses one resource-record text line: NAME TTL CLASS TYPE RDATA...
func parseRRLine(line string) (record.RR, error) {
	fields := splitFields(line)
	if len(fields) < 4 {
		return record.RR{}, &record.Error{Op: "dig", Msg: "malformed resource record line: " + line}
	}
	name, err := label.Parse(fields[0])
	if err != nil {
		return record.RR{}, &record.Error{Op: "dig", Msg: err.Error()}
	}
	ttl, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return record.RR{}, &record.Error{Op: "dig", Msg: err.Error()}
	}
	class, err := codes.ParseRRClass(fields[2])
	if err != nil {
		return record.RR{}, &record.Error{Op: "dig", Msg: err.Error()}
	}
	rtype, err := codes.ParseRRType(fields[3])
	if err != nil {
		return record.RR{}, &record.Error{Op: "dig", Msg: err.Error()}
	}
	rd, err := rdata.FromZone(rtype, fields[4:], label.Root)
	if err != nil {
		return record.RR{}, &record.Error{Op: "dig", Msg: err.Error()}
	}
	return record.RR{Name: name, Type: rtype, Class: class, TTL: uint32(ttl), RData: rd}, nil
}

// splitFields tokenizes a single line on whitespace like strings.Fields, but
// keeps a double-quoted character-string (as TXT and similar RDATA render
// it) together as one field even if it contains embedded spaces.
func splitFields(line string) []string {
	var out []string
	i := 0
	for i < len(line) {
		for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		if i >= len(line) {
			break
		}
		start := i
		if line[i] == '"' {
			i++
			for i < len(line) {
				if line[i] == '\\' && i+1 < len(line) {
					i += 2
					continue
				}
				if line[i] == '"' {
					i++
					break
				}
				i++
			}
		} else {
			for i < len(line) && line[i] != ' ' && line[i] != '\t' {
				i++
			}
		}
		out = append(out, line[start:i])
	}
	return out
}
