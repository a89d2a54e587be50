// Package zone implements an RFC 1035 master-file (zone file) parser:
// $ORIGIN/$TTL directives, parenthesised multi-line records, blank-owner
// continuation lines, and character-string quoting delegated to each RDATA
// type's own zone-form parser.
package zone

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/codes"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/label"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/rdata"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/record"
)

// secondsPerUnit maps BIND's single-letter duration suffixes to seconds.
var secondsPerUnit = map[byte]uint32{
	's': 1, 'm': 60, 'h': 3600, 'd': 86400, 'w': 604800,
}

func parseDuration(s string) (uint32, error) {
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	last := s[len(s)-1]
	if mult, ok := secondsPerUnit[toLowerByte(last)]; ok {
		n, err := strconv.ParseUint(s[:len(s)-1], 10, 32)
		if err != nil {
			return 0, err
		}
		return uint32(n) * mult, nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}

func toLowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Parser incrementally parses zone-file text into resource records, tracking
// $ORIGIN, $TTL and the "previous owner name" state a real zone file relies
// on for blank-first-field continuation lines.
type Parser struct {
	lex      *lexer
	origin   label.Label
	ttl      uint32
	curLabel label.Label
	prevKind tokenKind
	havePrev bool
	done     bool
}

// New returns a Parser for zone text, seeded with the given initial origin
// and default TTL (overridden by any $ORIGIN/$TTL directive in the text).
func New(zoneText string, origin label.Label, defaultTTL uint32) *Parser {
	return &Parser{lex: newLexer(zoneText), origin: origin, ttl: defaultTTL, curLabel: origin}
}

// All parses every remaining record in the zone text.
func (p *Parser) All() ([]record.RR, error) {
	var out []record.RR
	for {
		rr, err := p.Next()
		if err != nil {
			return nil, err
		}
		if rr == nil {
			return out, nil
		}
		out = append(out, *rr)
	}
}

// Next returns the next resource record, or (nil, nil) once the zone text is
// exhausted.
func (p *Parser) Next() (*record.RR, error) {
	if p.done {
		return nil, nil
	}
	var fields []string
	paren := false

	for {
		tok, ok := p.lex.next()
		if !ok {
			p.done = true
			if len(fields) == 0 {
				return nil, nil
			}
			return p.parseRR(fields)
		}

		switch tok.kind {
		case tokNL:
			if !paren && len(fields) > 0 {
				p.setPrev(tok.kind)
				return p.parseRR(fields)
			}
		case tokSPACE:
			if p.havePrev && p.prevKind == tokNL && !paren {
				fields = append(fields, "")
			}
		case tokATOM:
			switch tok.text {
			case "(":
				paren = true
			case ")":
				paren = false
			case "$ORIGIN":
				arg, ok := p.nextAtom()
				if !ok {
					return nil, &record.Error{Op: "zone", Msg: "$ORIGIN missing argument"}
				}
				origin, err := label.Parse(arg)
				if err != nil {
					return nil, &record.Error{Op: "zone", Msg: err.Error()}
				}
				p.origin = origin
				p.curLabel = origin
			case "$TTL":
				arg, ok := p.nextAtom()
				if !ok {
					return nil, &record.Error{Op: "zone", Msg: "$TTL missing argument"}
				}
				ttl, err := parseDuration(arg)
				if err != nil {
					return nil, &record.Error{Op: "zone", Msg: fmt.Sprintf("invalid $TTL %q: %s", arg, err)}
				}
				p.ttl = ttl
			case "$INCLUDE":
				return nil, &record.Error{Op: "zone", Msg: "$INCLUDE not supported"}
			default:
				fields = append(fields, tok.text)
			}
		}
		p.setPrev(tok.kind)
	}
}

func (p *Parser) setPrev(k tokenKind) {
	p.prevKind = k
	p.havePrev = true
}

// nextAtom skips any whitespace and returns the next ATOM token's text,
// for consuming a directive's single argument.
func (p *Parser) nextAtom() (string, bool) {
	for {
		tok, ok := p.lex.next()
		if !ok {
			return "", false
		}
		if tok.kind == tokSPACE {
			continue
		}
		if tok.kind == tokATOM {
			return tok.text, true
		}
		return "", false
	}
}

func (p *Parser) parseRR(fields []string) (*record.RR, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	owner, err := p.parseOwner(fields[0])
	if err != nil {
		return nil, &record.Error{Op: "zone", Msg: err.Error()}
	}
	rest := fields[1:]
	if len(rest) == 0 {
		return nil, &record.Error{Op: "zone", Msg: fmt.Sprintf("%s: missing TTL/CLASS/TYPE/RDATA", owner)}
	}

	ttl := p.ttl
	if isAllDigits(rest[0]) {
		n, err := parseDuration(rest[0])
		if err != nil {
			return nil, &record.Error{Op: "zone", Msg: err.Error()}
		}
		ttl = n
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return nil, &record.Error{Op: "zone", Msg: fmt.Sprintf("%s: missing CLASS/TYPE/RDATA", owner)}
	}

	class := codes.ClassIN
	if rest[0] == "IN" || rest[0] == "CH" || rest[0] == "HS" {
		c, err := codes.ParseRRClass(rest[0])
		if err != nil {
			return nil, &record.Error{Op: "zone", Msg: err.Error()}
		}
		class = c
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return nil, &record.Error{Op: "zone", Msg: fmt.Sprintf("%s: missing TYPE/RDATA", owner)}
	}

	rtype, err := codes.ParseRRType(rest[0])
	if err != nil {
		return nil, &record.Error{Op: "zone", Msg: err.Error()}
	}
	rest = rest[1:]

	rd, err := rdata.FromZone(rtype, rest, p.origin)
	if err != nil {
		return nil, &record.Error{Op: "zone", Msg: fmt.Sprintf("%s %s: %s", owner, rtype, err)}
	}

	return &record.RR{Name: owner, Type: rtype, Class: class, TTL: ttl, RData: rd}, nil
}

// parseOwner resolves the owner-name field per RFC 1035 §5.1: "" reuses the
// previous record's owner, "@" is $ORIGIN, a trailing dot is absolute,
// anything else is relative to $ORIGIN.
func (p *Parser) parseOwner(tok string) (label.Label, error) {
	switch {
	case tok == "":
		return p.curLabel, nil
	case tok == "@":
		p.curLabel = p.origin
		return p.curLabel, nil
	case strings.HasSuffix(tok, "."):
		n, err := label.Parse(tok)
		if err != nil {
			return label.Label{}, err
		}
		p.curLabel = n
		return n, nil
	default:
		n, err := label.Parse(tok)
		if err != nil {
			return label.Label{}, err
		}
		qualified := p.origin.Add(n.Parts()...)
		p.curLabel = qualified
		return qualified, nil
	}
}
