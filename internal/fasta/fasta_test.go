package fasta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseString(t *testing.T) {
	records, err := ParseString(">Dme_CPR1 wing\nMKTIIALSY\nIFCLVFA\n\n>Dme_CPR2\nDYKDDDDK\n")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Dme_CPR1 wing", records[0].Header)
	assert.Equal(t, "Dme_CPR1", records[0].ID())
	assert.Equal(t, "MKTIIALSYIFCLVFA", records[0].Sequence)
	assert.Equal(t, "DYKDDDDK", records[1].Sequence)
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"only whitespace", "  \n\n"},
		{"no header", "MKTIIALSY\n"},
		{"header without sequence", ">Dme_CPR1\n"},
		{"second header without sequence", ">a\nMK\n>b\n"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			assert.Error(t, err)
		})
	}

	_, err := ParseString("")
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestParseString_CRLF(t *testing.T) {
	records, err := ParseString(">x\r\nACGT\r\nACGT\r\n")
	require.NoError(t, err)
	assert.Equal(t, "ACGTACGT", records[0].Sequence)
}
