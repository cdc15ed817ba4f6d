package research

import (
	"strings"
)

const (
	// NoContent is written for results that carry neither content nor snippet.
	NoContent = "No content available"

	// Separator joins formatted result blocks.
	Separator = "\n\n---\n\n"

	untitled = "Untitled"
)

// Formatter renders search results as one markdown research document.
type Formatter struct {
	converter Converter
}

// NewFormatter returns a Formatter using c to convert result bodies.
// A nil converter falls back to HTMLConverter.
func NewFormatter(c Converter) *Formatter {
	if c == nil {
		c = HTMLConverter{}
	}
	return &Formatter{converter: c}
}

var defaultFormatter = NewFormatter(nil)

// Format renders results with the default HTML converter.
func Format(results []SearchResult) string {
	return defaultFormatter.Format(results)
}

// Format renders every result as a block, in input order, joined by a
// horizontal rule. An empty sequence yields an empty string. The output
// depends only on the input.
func (f *Formatter) Format(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = f.Block(r)
	}
	return strings.Join(blocks, Separator)
}

// Block renders a single result: heading, source line, then the body.
func (f *Formatter) Block(r SearchResult) string {
	// Heading and source line must each stay on one line
	title := singleLine(r.Title)
	if title == "" {
		title = untitled
	}

	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(title)
	sb.WriteString("\n\nSource: ")
	sb.WriteString(singleLine(r.URL))
	sb.WriteString("\n\n")
	sb.WriteString(f.body(r))
	return sb.String()
}

// body prefers converted content, then the snippet, then NoContent.
func (f *Formatter) body(r SearchResult) string {
	if strings.TrimSpace(r.Content) != "" {
		if md := strings.TrimSpace(f.converter.Convert(r.Content)); md != "" {
			return md
		}
	}
	if snippet := strings.TrimSpace(r.Snippet); snippet != "" {
		return snippet
	}
	return NoContent
}

// singleLine collapses every whitespace run, newlines included, to one space.
func singleLine(s string) string {
	return strings.TrimSpace(collapseSpace(s))
}
