package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakethbandi007/email-chat-agent/internal/format"
)

func TestHTML2MD(t *testing.T) {
	cases := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "basic markup",
			html:     "<p>Hello <b>world</b></p>",
			expected: "Hello **world**",
		},
		{
			name:     "link",
			html:     `<a href="https://example.com">example</a>`,
			expected: "[example](https://example.com)",
		},
		{
			name:     "layout table unwrapped to plain lines",
			html:     "<table><tr><td><p>First</p></td></tr><tr><td><p>Second</p></td></tr></table>",
			expected: "First\n\nSecond",
		},
	}

	cnv := format.Converter{}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := cnv.HTML2MD([]byte(tc.html))
			require.NoError(t, err)

			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestUnwrapLayoutTables(t *testing.T) {
	cases := []struct {
		name        string
		html        string
		contains    []string
		notContains []string
	}{
		{
			name:        "single column layout table removed",
			html:        "<table><tr><td>content</td></tr></table>",
			contains:    []string{"content"},
			notContains: []string{"<table>", "<td>"},
		},
		{
			name:        "nested layout tables removed",
			html:        "<table><tr><td><table><tr><td>deep</td></tr></table></td></tr></table>",
			contains:    []string{"deep"},
			notContains: []string{"<table>"},
		},
		{
			name:     "data table with headers kept",
			html:     "<table><tr><th>Name</th></tr><tr><td>Ann</td></tr></table>",
			contains: []string{"<table>", "<th>Name</th>"},
		},
		{
			name:     "multi column table kept",
			html:     "<table><tr><td>a</td><td>b</td></tr></table>",
			contains: []string{"<table>", "<td>a</td>"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := string(format.UnwrapLayoutTables([]byte(tc.html)))

			for _, s := range tc.contains {
				assert.Contains(t, result, s)
			}
			for _, s := range tc.notContains {
				assert.NotContains(t, result, s)
			}
		})
	}
}
