package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-dns/kestrel/internal/dns/wire/buffer"
)

func TestParseAndString(t *testing.T) {
	l, err := Parse("www.example.com.")
	require.NoError(t, err)
	assert.Equal(t, []string{"www", "example", "com"}, l.Parts())
	assert.Equal(t, "www.example.com.", l.String())
}

func TestParseWithoutTrailingDot(t *testing.T) {
	l, err := Parse("www.example.com")
	require.NoError(t, err)
	assert.Equal(t, "www.example.com.", l.String())
}

func TestRootName(t *testing.T) {
	l, err := Parse(".")
	require.NoError(t, err)
	assert.True(t, l.IsRoot())
	assert.Equal(t, ".", l.String())
}

func TestEscapedDotInLabel(t *testing.T) {
	l, err := Parse(`foo\.bar.example.com.`)
	require.NoError(t, err)
	assert.Equal(t, []string{"foo.bar", "example", "com"}, l.Parts())
	assert.Equal(t, `foo\.bar.example.com.`, l.String())
}

func TestEqualIsCaseInsensitive(t *testing.T) {
	a, _ := Parse("WWW.Example.COM.")
	b, _ := Parse("www.example.com.")
	assert.True(t, a.Equal(b))
	assert.Equal(t, "WWW.Example.COM.", a.String(), "original casing preserved")
}

func TestEncodeDecodeRoundTripNoCompression(t *testing.T) {
	name, err := Parse("www.example.com.")
	require.NoError(t, err)

	buf := buffer.New()
	w := NewWriter()
	require.NoError(t, w.EncodeName(buf, name))

	require.NoError(t, buf.Seek(0))
	got, err := Decode(buf)
	require.NoError(t, err)
	assert.True(t, name.Equal(got))
}

func TestCompressionReusesSuffix(t *testing.T) {
	a, _ := Parse("www.example.com.")
	b, _ := Parse("mail.example.com.")

	buf := buffer.New()
	w := NewWriter()
	require.NoError(t, w.EncodeName(buf, a))
	secondStart := buf.Tell()
	require.NoError(t, w.EncodeName(buf, b))

	// second name should be shorter than writing "mail.example.com." fresh,
	// since "example.com." is compressed into a 2-byte pointer.
	assert.Less(t, buf.Tell()-secondStart, b.WireLen())

	require.NoError(t, buf.Seek(0))
	gotA, err := Decode(buf)
	require.NoError(t, err)
	assert.True(t, a.Equal(gotA))

	require.NoError(t, buf.Seek(secondStart))
	gotB, err := Decode(buf)
	require.NoError(t, err)
	assert.True(t, b.Equal(gotB))
}

func TestDecodeDetectsPointerCycle(t *testing.T) {
	// Byte 0 is a pointer to itself: 0xC0 0x00.
	buf := buffer.NewFromBytes([]byte{0xC0, 0x00})
	_, err := Decode(buf)
	require.Error(t, err)
	var bufErr *buffer.Error
	require.ErrorAs(t, err, &bufErr)
}

func TestEncodeNameNoCompressDoesNotShareDictionary(t *testing.T) {
	a, _ := Parse("target.example.com.")
	buf := buffer.New()
	w := NewWriter()
	require.NoError(t, w.EncodeNameNoCompress(buf, a))
	// nothing should have been registered for later compression
	assert.Empty(t, w.offsets)
}
