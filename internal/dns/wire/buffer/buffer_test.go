package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWriteUint16(t *testing.T) {
	b := New()
	b.WriteUint16(0xBEEF)
	require.NoError(t, b.Seek(0))
	v, err := b.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), v)
}

func TestReadWriteUint32(t *testing.T) {
	b := New()
	b.WriteUint32(0xDEADBEEF)
	require.NoError(t, b.Seek(0))
	v, err := b.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), v)
}

func TestReadPastEndFails(t *testing.T) {
	b := NewFromBytes([]byte{1, 2, 3})
	_, err := b.Read(4)
	require.Error(t, err)
	var bufErr *Error
	require.ErrorAs(t, err, &bufErr)
	assert.Equal(t, "read", bufErr.Op)
}

func TestSeekOutOfRange(t *testing.T) {
	b := NewFromBytes([]byte{1, 2, 3})
	assert.Error(t, b.Seek(-1))
	assert.Error(t, b.Seek(4))
	assert.NoError(t, b.Seek(3))
}

func TestPatchUint16Backpatch(t *testing.T) {
	b := New()
	pos := b.Tell()
	b.WriteUint16(0) // placeholder RDLENGTH
	b.Write([]byte{1, 2, 3, 4, 5})
	require.NoError(t, b.PatchUint16(pos, 5))

	require.NoError(t, b.Seek(pos))
	v, err := b.ReadUint16()
	require.NoError(t, err)
	assert.EqualValues(t, 5, v)
}

func TestRemainingAndTell(t *testing.T) {
	b := NewFromBytes([]byte{1, 2, 3, 4})
	assert.Equal(t, 4, b.Remaining())
	_, err := b.Read(2)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Tell())
	assert.Equal(t, 2, b.Remaining())
}
