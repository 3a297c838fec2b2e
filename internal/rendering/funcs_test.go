package rendering

import (
	"testing"

	"github.com/jonathan/site-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-01-05", "January 05, 2025"},
		{"2025-04-07T12:00:00Z", "April 07, 2025"},
		{"2025-04-07T12:00:00", "April 07, 2025"},
		{"yesterday", "yesterday"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDate(tt.in), tt.in)
	}
}

func TestTruncateWords(t *testing.T) {
	assert.Equal(t, "one two...", TruncateWords(2, "one two three"))
	assert.Equal(t, "one two", TruncateWords(2, "one two"))
	assert.Equal(t, "", TruncateWords(5, ""))
}

func TestStyleLookups(t *testing.T) {
	style := &types.StyleProfile{
		Colors:     map[string]any{"primary": map[string]any{"value": "#112233"}, "accent": "#445566"},
		Typography: map[string]any{"body": map[string]any{"family": "Inter"}},
	}

	assert.Equal(t, "#112233", StyleColor("primary", style))
	assert.Equal(t, "#445566", StyleColor("accent", style))
	assert.Equal(t, "#000000", StyleColor("missing", style))
	assert.Equal(t, "#000000", StyleColor("primary", nil))
	assert.Equal(t, "Inter", StyleFont("body", style))
	assert.Equal(t, "system-ui", StyleFont("heading", style))
	assert.Equal(t, "system-ui", StyleFont("body", nil))
}

func TestMarkdown(t *testing.T) {
	out, err := Markdown("# Hello\n\nSome *emphasis* and <script>alert(1)</script>")
	require.NoError(t, err)

	assert.Contains(t, string(out), `<h1 id="hello">Hello</h1>`)
	assert.Contains(t, string(out), "<em>emphasis</em>")
	assert.NotContains(t, string(out), "<script>")
}
