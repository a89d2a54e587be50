package bimap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardAndReverse(t *testing.T) {
	b := New("QTYPE", map[uint16]string{1: "A", 28: "AAAA"}, nil)

	name, err := b.Name(1)
	require.NoError(t, err)
	assert.Equal(t, "A", name)

	code, err := b.Code("AAAA")
	require.NoError(t, err)
	assert.EqualValues(t, 28, code)
}

func TestUnknownCodeWithoutFallbackFails(t *testing.T) {
	b := New("QTYPE", map[uint16]string{1: "A"}, nil)
	_, err := b.Name(999)
	require.Error(t, err)
	var bErr *Error
	require.ErrorAs(t, err, &bErr)
}

func TestUnknownCodeWithFallback(t *testing.T) {
	b := New("QTYPE", map[uint16]string{1: "A"}, func(c uint16) string {
		return fmt.Sprintf("TYPE%d", c)
	})
	name, err := b.Name(65280)
	require.NoError(t, err)
	assert.Equal(t, "TYPE65280", name)
}

func TestUnknownNameFails(t *testing.T) {
	b := New("CLASS", map[uint16]string{1: "IN"}, nil)
	_, err := b.Code("CH")
	require.Error(t, err)
}
