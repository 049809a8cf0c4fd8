// Package format converts HTML email bodies into readable plain text.
package format

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// Converter turns HTML email bodies into Markdown suitable for a terminal.
type Converter struct{}

// HTML2MD converts HTML to Markdown. Layout tables common in marketing
// emails are unwrapped first so the converter doesn't render them as data
// tables.
func (c Converter) HTML2MD(raw []byte) (string, error) {
	simplified := UnwrapLayoutTables(raw)

	md, err := htmltomarkdown.ConvertString(string(simplified))
	if err != nil {
		return "", fmt.Errorf("htmltomarkdown.ConvertString failed: %w", err)
	}

	return strings.TrimSpace(md), nil
}
