package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mark3labs/stylewiz/internal/research"
	"github.com/mark3labs/stylewiz/internal/tui/theme"
	"github.com/mark3labs/stylewiz/internal/wizard"
)

const maxPreviewResults = 5

// SearchStep collects the keyword and the results file produced by the
// search collaborator.
type SearchStep struct {
	keyword textinput.Model
	path    textinput.Model
	focus   int // 0 keyword, 1 path
	results []research.SearchResult
	loaded  string // path the results were loaded from
	load    func(string) ([]research.SearchResult, error)
	width   int
	height  int
	err     string
}

// NewSearchStep creates the search step. Preloaded results are kept until
// a different file path is submitted.
func NewSearchStep(keyword, path string, results []research.SearchResult) *SearchStep {
	kw := textinput.New()
	kw.Placeholder = "defaults to the keyword stored in the results"
	kw.CharLimit = 200
	kw.SetWidth(50)
	kw.SetValue(keyword)
	kw.Focus()

	p := textinput.New()
	p.Placeholder = "results.json or results.yaml"
	p.CharLimit = 500
	p.SetWidth(50)
	p.SetValue(path)

	return &SearchStep{
		keyword: kw,
		path:    p,
		results: results,
		loaded:  strings.TrimSpace(path),
		load:    research.LoadResults,
	}
}

// Init initializes the search step.
func (s *SearchStep) Init() tea.Cmd {
	if s.focus == 1 {
		return s.path.Focus()
	}
	return s.keyword.Focus()
}

// Update handles messages for the search step.
func (s *SearchStep) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyPressMsg); ok {
		switch msg.String() {
		case "enter":
			return s.Submit()
		case "tab", "shift+tab", "up", "down":
			s.toggleFocus()
			return nil
		default:
			s.err = ""
		}
	}

	var cmd tea.Cmd
	if s.focus == 0 {
		s.keyword, cmd = s.keyword.Update(msg)
	} else {
		s.path, cmd = s.path.Update(msg)
	}
	return cmd
}

func (s *SearchStep) toggleFocus() {
	if s.focus == 0 {
		s.keyword.Blur()
		s.path.Focus()
		s.focus = 1
	} else {
		s.path.Blur()
		s.keyword.Focus()
		s.focus = 0
	}
}

// Submit loads the results file when needed and sends the search output.
func (s *SearchStep) Submit() tea.Cmd {
	path := strings.TrimSpace(s.path.Value())
	if path != "" && path != s.loaded {
		results, err := s.load(path)
		if err != nil {
			s.err = err.Error()
			return nil
		}
		s.results = results
		s.loaded = path
	}

	if len(s.results) == 0 {
		s.err = "no search results loaded"
		return nil
	}

	s.err = ""
	out := wizard.SearchOutput{
		Keyword: strings.TrimSpace(s.keyword.Value()),
		Results: s.results,
	}
	return func() tea.Msg {
		return NextMsg{Output: out}
	}
}

// View renders the search step.
func (s *SearchStep) View() string {
	st := theme.Current().S()

	keywordBox, pathBox := st.InputActive, st.Input
	if s.focus == 1 {
		keywordBox, pathBox = st.Input, st.InputActive
	}

	parts := []string{
		st.Text.Render("Point the wizard at the research gathered for your keyword:"),
		"",
		st.Label.Render("Keyword"),
		keywordBox.Render(s.keyword.View()),
		st.Label.Render("Results file"),
		pathBox.Render(s.path.View()),
	}

	if len(s.results) > 0 {
		parts = append(parts, "", st.Muted.Render(fmt.Sprintf("%d results loaded", len(s.results))))
		parts = append(parts, s.renderPreview())
	}
	if s.err != "" {
		parts = append(parts, st.Error.Render("✗ "+s.err))
	}
	parts = append(parts, "", renderHintBar("tab", "switch field", "enter", "continue", "esc", "back"))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderPreview lists the first results with their title segment and the
// opening sentence of the snippet.
func (s *SearchStep) renderPreview() string {
	st := theme.Current().S()
	var b strings.Builder
	for i, r := range s.results {
		if i == maxPreviewResults {
			b.WriteString(st.Muted.Render(fmt.Sprintf("  … and %d more", len(s.results)-maxPreviewResults)))
			break
		}
		title := research.TitleSegment(r.Title)
		if title == "" {
			title = r.URL
		}
		b.WriteString(st.Value.Render("• " + title))
		if summary := research.Summary(r.Snippet, 1); summary != "" {
			b.WriteString(st.Muted.Render("  " + truncate(summary, max(s.width-len(title)-6, 20))))
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Results returns the loaded results.
func (s *SearchStep) Results() []research.SearchResult {
	return s.results
}

// SetSize updates the size of the search step.
func (s *SearchStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.keyword.SetWidth(max(width-6, 10))
	s.path.SetWidth(max(width-6, 10))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
