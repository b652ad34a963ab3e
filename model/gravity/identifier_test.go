package gravity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravityledger/gravity-core/model/gravity"
)

func TestHexStringToIdentifier(t *testing.T) {
	type testcase struct {
		hex         string
		expectError bool
	}

	cases := []testcase{{
		hex:         "0000000000000000000000000000000000000000000000000000000000000000",
		expectError: false,
	}, {
		hex:         "acab0000000000000000000000000000000000000000000000000000000000ff",
		expectError: false,
	}, {
		hex:         "deadbeef",
		expectError: true,
	}, {
		// longer than 64 characters must be rejected, not truncated
		hex:         "acab0000000000000000000000000000000000000000000000000000000000ff00",
		expectError: true,
	}, {
		hex:         "zz0b000000000000000000000000000000000000000000000000000000000000",
		expectError: true,
	}}

	for _, tc := range cases {
		id, err := gravity.HexStringToIdentifier(tc.hex)
		if tc.expectError {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.hex, id.String())
	}
}

func TestIdentifierTextRoundTrip(t *testing.T) {
	id := gravity.MustHexStringToIdentifier(
		"acab0000000000000000000000000000000000000000000000000000000000ff")

	text, err := id.MarshalText()
	require.NoError(t, err)

	var decoded gravity.Identifier
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, id, decoded)
}

func TestIsZero(t *testing.T) {
	assert.True(t, gravity.ZeroID.IsZero())
	assert.False(t, gravity.MustHexStringToIdentifier(
		"0100000000000000000000000000000000000000000000000000000000000000").IsZero())
}
