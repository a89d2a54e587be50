// Package bimap provides a bidirectional lookup between small integer wire
// codes (RR types, classes, opcodes, rcodes) and their mnemonic names. It is
// the Go counterpart of dnslib's Bimap: every DNS code table in this module
// (QTYPE, CLASS, OPCODE, RCODE) is built from one.
package bimap

import "fmt"

// Error is raised when a code or name has no mapping and no fallback applies.
type Error struct {
	Name  string
	Key   any
	Value any
}

func (e *Error) Error() string {
	if e.Key != nil {
		return fmt.Sprintf("bimap(%s): no mapping for code %v", e.Name, e.Key)
	}
	return fmt.Sprintf("bimap(%s): no mapping for name %v", e.Name, e.Value)
}

// Bimap maps uint16 wire codes to string mnemonics and back.
type Bimap struct {
	name    string
	forward map[uint16]string
	reverse map[string]uint16
	// unknownFmt renders a code with no registered name, e.g. "TYPE%d".
	// If nil, lookups for unmapped codes fail with Error.
	unknownFmt func(uint16) string
}

// New builds a Bimap from a code->name table. unknownFmt, if non-nil, is used
// by Name to render codes absent from the table instead of failing.
func New(name string, table map[uint16]string, unknownFmt func(uint16) string) *Bimap {
	b := &Bimap{
		name:       name,
		forward:    make(map[uint16]string, len(table)),
		reverse:    make(map[string]uint16, len(table)),
		unknownFmt: unknownFmt,
	}
	for k, v := range table {
		b.forward[k] = v
		b.reverse[v] = k
	}
	return b
}

// Name returns the mnemonic for a code, falling back to unknownFmt if set.
func (b *Bimap) Name(code uint16) (string, error) {
	if n, ok := b.forward[code]; ok {
		return n, nil
	}
	if b.unknownFmt != nil {
		return b.unknownFmt(code), nil
	}
	return "", &Error{Name: b.name, Key: code}
}

// Code returns the wire code for a mnemonic name (case-sensitive, as stored).
func (b *Bimap) Code(name string) (uint16, error) {
	if c, ok := b.reverse[name]; ok {
		return c, nil
	}
	return 0, &Error{Name: b.name, Value: name}
}

// Has reports whether code has a registered mnemonic.
func (b *Bimap) Has(code uint16) bool {
	_, ok := b.forward[code]
	return ok
}

// HasName reports whether name has a registered code.
func (b *Bimap) HasName(name string) bool {
	_, ok := b.reverse[name]
	return ok
}
