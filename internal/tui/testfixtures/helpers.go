// Package testfixtures holds shared helpers for TUI tests.
package testfixtures

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"

	"github.com/mark3labs/stylewiz/internal/research"
)

// Initialize test environment
func init() {
	// Ascii profile keeps rendered output free of escape sequences
	lipgloss.Writer.Profile = colorprofile.Ascii
}

// Canonical terminal size for all tests
const (
	TestTermWidth  = 120
	TestTermHeight = 40
)

// Results returns a small result set for a single keyword.
func Results(keyword string) []research.SearchResult {
	return []research.SearchResult{
		{
			Title:         "Writing Guide | Example",
			URL:           "https://example.com/guide",
			Snippet:       "Short sentences win. Readers skim.",
			SearchKeyword: keyword,
		},
		{
			Title:         "Style Notes",
			URL:           "https://example.com/notes",
			Content:       "<p>Use <strong>active</strong> voice.</p>",
			SearchKeyword: keyword,
		},
	}
}

// Render draws content onto a canonical-size screen buffer and returns the
// text with escape sequences stripped.
func Render(content string) string {
	canvas := uv.NewScreenBuffer(TestTermWidth, TestTermHeight)
	uv.NewStyledString(content).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: TestTermWidth, Y: TestTermHeight},
	})
	return ansi.Strip(canvas.Render())
}

// RequireContains fails the test when s lacks any of the substrings.
func RequireContains(t *testing.T, s string, substrs ...string) {
	t.Helper()
	for _, sub := range substrs {
		if !strings.Contains(s, sub) {
			t.Fatalf("expected output to contain %q\n\nOutput:\n%s", sub, s)
		}
	}
}
