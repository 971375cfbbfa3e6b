package enrich

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"plain", "Happy Hounds", "Happy Hounds"},
		{"whitespace", "  Happy Hounds \n", "Happy Hounds"},
		{"quoted", `"Happy Hounds".`, "Happy Hounds"},
		{"fenced", "```\nHappy Hounds\n```", "Happy Hounds"},
		{"extra lines", "Happy Hounds\nThis is a dog walking business.", "Happy Hounds"},
		{"empty", "   ", ""},
		{"too long", strings.Repeat("word ", 20), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeName(tt.reply))
		})
	}
}
