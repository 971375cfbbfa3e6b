package extractor

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsReadableText(t *testing.T) {
	statement := "Barclays Bank UK PLC\nDate Description Money out Balance\n03/01/2025 NETFLIX.COM 9.99 990.01"

	tests := []struct {
		name  string
		pages []string
		want  bool
	}{
		{"statement text", []string{statement}, true},
		{"split across pages", []string{statement[:40], statement[40:]}, true},
		{"too short", []string{"Balance 9.99"}, false},
		{"no pages", nil, false},
		{"garbage glyphs", []string{strings.Repeat("ÀÁÂÃÄÅÆÇÈÉ", 10) + " balance"}, false},
		{"no statement words", []string{strings.Repeat("lorem ipsum dolor sit amet ", 4)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isReadableText(tt.pages))
		})
	}
}

func TestReadableRune(t *testing.T) {
	for _, r := range "aZ9 £.,()" {
		assert.True(t, readableRune(r), string(r))
	}
	for _, r := range "ÀÿЖ\u0000" {
		assert.False(t, readableRune(r), string(r))
	}
}

func TestExtractRejectsNonPDF(t *testing.T) {
	_, err := Extract([]byte("Date,Description,Amount\n2025-01-01,NETFLIX,-9.99\n"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoReadableText))
}

func TestExtractFileMissing(t *testing.T) {
	_, err := ExtractFile("does-not-exist.pdf")
	assert.Error(t, err)
}
