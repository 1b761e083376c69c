package numbering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatIdentifier(t *testing.T) {
	assert.Equal(t, Identifier("CU001"), FormatIdentifier("CU", 1))
	assert.Equal(t, Identifier("OID042"), FormatIdentifier("OID", 42))
	assert.Equal(t, Identifier("AG999"), FormatIdentifier("AG", 999))
	// Width grows past 999 instead of wrapping.
	assert.Equal(t, Identifier("AG1000"), FormatIdentifier("AG", 1000))
}

func TestIdentifierSequenceRoundTrip(t *testing.T) {
	for _, seq := range []int64{1, 9, 42, 999, 1000, 123456} {
		id := FormatIdentifier("CU", seq)
		got, err := id.Sequence("CU")
		require.NoError(t, err)
		assert.Equal(t, seq, got)
	}
}

func TestIdentifierSequenceErrors(t *testing.T) {
	tests := []struct {
		name   string
		id     Identifier
		prefix Prefix
	}{
		{"wrong prefix", "CU001", "AG"},
		{"no number", "CU", "CU"},
		{"garbage number", "CUxyz", "CU"},
		{"zero sequence", "CU000", "CU"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.id.Sequence(tt.prefix)
			assert.Error(t, err)
		})
	}
}
