package codes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRRTypeRoundTrip(t *testing.T) {
	assert.Equal(t, "AAAA", TypeAAAA.String())
	tp, err := ParseRRType("AAAA")
	require.NoError(t, err)
	assert.Equal(t, TypeAAAA, tp)
}

func TestRRTypeUnknownFallsBackToGenericForm(t *testing.T) {
	var unknown RRType = 65280
	assert.Equal(t, "TYPE65280", unknown.String())

	tp, err := ParseRRType("TYPE65280")
	require.NoError(t, err)
	assert.Equal(t, unknown, tp)
}

func TestRRClassUnknownFallsBack(t *testing.T) {
	var unknown RRClass = 32
	assert.Equal(t, "CLASS32", unknown.String())
	c, err := ParseRRClass("CLASS32")
	require.NoError(t, err)
	assert.Equal(t, unknown, c)
}

func TestRCodeMnemonics(t *testing.T) {
	assert.Equal(t, "NXDOMAIN", RCodeNXDomain.String())
	rc, err := ParseRCode("SERVFAIL")
	require.NoError(t, err)
	assert.Equal(t, RCodeServFail, rc)
}

func TestRCodeExtendedFallsBackToGenericForm(t *testing.T) {
	var badvers RCode = 16 // RFC 6891 extended RCODE, no mnemonic in the table
	assert.Equal(t, "RCODE16", badvers.String())
	rc, err := ParseRCode("RCODE16")
	require.NoError(t, err)
	assert.Equal(t, badvers, rc)
}
