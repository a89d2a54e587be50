// Package buffer implements a bounds-checked cursor over a byte slice, used
// as the foundation for packing and parsing DNS wire format. It mirrors the
// read/write/seek primitives that every higher-level wire type builds on.
package buffer

import (
	"encoding/binary"
	"fmt"
)

// Error is returned for any out-of-bounds or malformed access to a Buffer.
type Error struct {
	Op  string
	Pos int
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("buffer: %s at offset %d: %s", e.Op, e.Pos, e.Msg)
}

func newErr(op string, pos int, msg string) error {
	return &Error{Op: op, Pos: pos, Msg: msg}
}

// Buffer wraps a byte slice with a read/write cursor. The zero value is an
// empty, writable Buffer; New pre-allocates capacity and NewFromBytes wraps
// existing data for reading.
type Buffer struct {
	data   []byte
	offset int
}

// New returns an empty, writable Buffer with a small pre-allocated capacity.
func New() *Buffer {
	return &Buffer{data: make([]byte, 0, 512)}
}

// NewFromBytes wraps an existing slice for reading. The slice is not copied;
// callers must not mutate it concurrently with Buffer use.
func NewFromBytes(b []byte) *Buffer {
	return &Buffer{data: b}
}

// Bytes returns the full underlying slice, regardless of cursor position.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the total length of the underlying data.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Tell returns the current cursor offset.
func (b *Buffer) Tell() int {
	return b.offset
}

// Remaining returns the number of unread bytes from the cursor to the end.
func (b *Buffer) Remaining() int {
	return len(b.data) - b.offset
}

// Seek moves the cursor to an absolute offset. It fails if offset is
// negative or beyond the end of the buffer.
func (b *Buffer) Seek(offset int) error {
	if offset < 0 || offset > len(b.data) {
		return newErr("seek", offset, "offset out of range")
	}
	b.offset = offset
	return nil
}

// Read returns the next n bytes and advances the cursor. The returned slice
// aliases the buffer's backing array; callers that need to retain it across
// further buffer writes must copy it.
func (b *Buffer) Read(n int) ([]byte, error) {
	if n < 0 || b.offset+n > len(b.data) {
		return nil, newErr("read", b.offset, fmt.Sprintf("requested %d bytes, %d remaining", n, b.Remaining()))
	}
	out := b.data[b.offset : b.offset+n]
	b.offset += n
	return out, nil
}

// Write appends bytes at the current write position, growing the buffer.
// Write always appends; it does not support writing in the middle of
// existing data (use PatchUint16 for backpatching a length field).
func (b *Buffer) Write(p []byte) {
	b.data = append(b.data, p...)
	b.offset = len(b.data)
}

// WriteByte appends a single byte.
func (b *Buffer) WriteByte(c byte) {
	b.data = append(b.data, c)
	b.offset = len(b.data)
}

// ReadUint8 reads a single byte as an unsigned integer.
func (b *Buffer) ReadUint8() (uint8, error) {
	v, err := b.Read(1)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

// WriteUint8 writes a single byte.
func (b *Buffer) WriteUint8(v uint8) {
	b.WriteByte(v)
}

// ReadUint16 reads a big-endian 16-bit unsigned integer.
func (b *Buffer) ReadUint16() (uint16, error) {
	v, err := b.Read(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(v), nil
}

// WriteUint16 writes a big-endian 16-bit unsigned integer.
func (b *Buffer) WriteUint16(v uint16) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	b.Write(buf[:])
}

// ReadUint32 reads a big-endian 32-bit unsigned integer.
func (b *Buffer) ReadUint32() (uint32, error) {
	v, err := b.Read(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(v), nil
}

// WriteUint32 writes a big-endian 32-bit unsigned integer.
func (b *Buffer) WriteUint32(v uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	b.Write(buf[:])
}

// PatchUint16 overwrites two bytes already written at offset pos. Used to
// backpatch an RDLENGTH field once the RDATA body has been written.
func (b *Buffer) PatchUint16(pos int, v uint16) error {
	if pos < 0 || pos+2 > len(b.data) {
		return newErr("patch", pos, "offset out of range")
	}
	binary.BigEndian.PutUint16(b.data[pos:pos+2], v)
	return nil
}

// Skip advances the cursor by n bytes without returning them.
func (b *Buffer) Skip(n int) error {
	if n < 0 || b.offset+n > len(b.data) {
		return newErr("skip", b.offset, "out of range")
	}
	b.offset += n
	return nil
}
