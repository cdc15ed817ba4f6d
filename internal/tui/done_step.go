package tui

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/mark3labs/stylewiz/internal/tui/theme"
)

// DoneStep offers the finished analysis for export.
type DoneStep struct {
	viewport viewport.Model
	text     string
	status   string
	failed   bool
	width    int
	height   int
}

// NewDoneStep creates the done step.
func NewDoneStep() *DoneStep {
	vp := viewport.New(
		viewport.WithWidth(60),
		viewport.WithHeight(10),
	)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3
	return &DoneStep{viewport: vp, width: 60, height: 20}
}

// Init initializes the done step.
func (s *DoneStep) Init() tea.Cmd {
	return nil
}

// SetAnalysis sets the analysis shown in the preview.
func (s *DoneStep) SetAnalysis(text string) {
	if text == s.text {
		return
	}
	s.text = text
	s.viewport.SetContent(renderMarkdown(text, s.width))
	s.viewport.GotoTop()
}

// SetStatus shows the outcome of the last export.
func (s *DoneStep) SetStatus(msg string, failed bool) {
	s.status = msg
	s.failed = failed
}

// Update handles messages for the done step.
func (s *DoneStep) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyPressMsg); ok {
		switch msg.String() {
		case "c":
			return func() tea.Msg { return CopyMsg{} }
		case "s":
			return func() tea.Msg { return SaveMsg{} }
		case "q":
			return tea.Quit
		}
	}
	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return cmd
}

// View renders the done step.
func (s *DoneStep) View() string {
	st := theme.Current().S()

	var b strings.Builder
	b.WriteString(st.Success.Render("✓ Style analysis complete"))
	b.WriteString("\n\n")
	b.WriteString(s.viewport.View())
	b.WriteString("\n\n")
	if s.status != "" {
		if s.failed {
			b.WriteString(st.Error.Render("✗ " + s.status))
		} else {
			b.WriteString(st.Success.Render("✓ " + s.status))
		}
		b.WriteString("\n")
	}
	b.WriteString(renderHintBar("↑↓", "scroll", "c", "copy", "s", "save", "esc", "back", "q", "quit"))
	return b.String()
}

// SetSize updates the size of the done step.
func (s *DoneStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.viewport.SetWidth(width)
	s.viewport.SetHeight(max(height-6, 3))
	s.viewport.SetContent(renderMarkdown(s.text, width))
}
