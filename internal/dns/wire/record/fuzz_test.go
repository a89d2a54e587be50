package record

import (
	"encoding/hex"
	"errors"
	"testing"
)

// FuzzParse checks the total-parse property (spec property 5): for every
// byte sequence, Parse either succeeds or returns an *Error, and never
// panics or hangs. Seeds come from spec.md §8's concrete scenarios plus the
// HTTPS/SVCB "Issue 43" regression packet (a record whose RDATA parser once
// read past its own RDLENGTH into the next record).
func FuzzParse(f *testing.F) {
	seeds := []string{
		// A-record response for www.google.com with a CNAME chain, spec.md §8.
		"d5ad818000010005000000000377777706676f6f676c6503636f6d0000010001c00c0005000100000005000803777777016cc010c02c0001000100000005000442f95b68c02c0001000100000005000442f95b63c02c0001000100000005000442f95b67c02c0001000100000005000442f95b93",
		// HTTPS RDATA reading past RDLENGTH into the following RRSIG record.
		"93088410000100020000000107646973636f726403636f6d0000410001c00c004100010000012c002b0001000001000c0268330568332d323902683200040014a29f80e9a29f87e8a29f88e8a29f89e8a29f8ae8c00c002e00010000012c005f00410d020000012c632834e5632575c586c907646973636f726403636f6d0044d488ce4a5b9085289c671f0296b2b06cffaca28880c57643befd43d6de433d84ae078b282fc2cdd744f3bea2f201042a7a0d6f3e17ebd887b082bbe30dfda100002904d0000080000000",
		// Standalone HTTPS RDATA fixture (SVCB param decoding).
		"0001000001000c0268330568332d323902683200040008681084e5681085e500060020260647000000000000000000681084e5260647000000000000000000681085e5",
	}
	for _, s := range seeds {
		b, err := hex.DecodeString(s)
		if err != nil {
			f.Fatalf("bad seed hex: %v", err)
		}
		f.Add(b)
	}
	// Degenerate inputs the property explicitly calls out.
	f.Add([]byte{})
	f.Add([]byte{0, 1, 2})
	// A name compression pointer that targets itself (offset 12 pointing to
	// offset 12), which must fail cleanly rather than loop forever.
	f.Add([]byte{
		0, 1, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0,
		0xC0, 0x0C, 0, 1, 0, 1,
	})

	f.Fuzz(func(t *testing.T, data []byte) {
		msg, err := Parse(data)
		if err != nil {
			var recErr *Error
			if !errors.As(err, &recErr) {
				t.Fatalf("Parse returned non-Error failure mode: %v", err)
			}
			return
		}
		if msg == nil {
			t.Fatal("Parse returned nil message with nil error")
		}
	})
}
