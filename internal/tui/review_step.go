package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/mark3labs/stylewiz/internal/tui/theme"
	"github.com/mark3labs/stylewiz/internal/wizard"
)

// ReviewStep shows the review prompt built from the research.
type ReviewStep struct {
	pane   *PromptPane
	width  int
	height int
}

// NewReviewStep creates the review step.
func NewReviewStep() *ReviewStep {
	return &ReviewStep{pane: NewPromptPane(wizard.StepReview)}
}

// Init initializes the review step.
func (s *ReviewStep) Init() tea.Cmd {
	return nil
}

// Pane returns the prompt pane.
func (s *ReviewStep) Pane() *PromptPane {
	return s.pane
}

// Update handles messages for the review step.
func (s *ReviewStep) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyPressMsg); ok && msg.String() == "enter" {
		return func() tea.Msg {
			return NextMsg{Output: wizard.ReviewOutput{}}
		}
	}
	return s.pane.Update(msg)
}

// View renders the review step.
func (s *ReviewStep) View() string {
	st := theme.Current().S()

	var b strings.Builder
	b.WriteString(st.Text.Render("Review the prompt that summarizes the research:"))
	b.WriteString("\n")
	b.WriteString(s.pane.Header())
	b.WriteString("\n\n")
	b.WriteString(s.pane.View())
	b.WriteString("\n\n")

	hints := append([]string{"↑↓", "scroll"}, s.pane.Hints()...)
	hints = append(hints, "enter", "continue", "esc", "back")
	b.WriteString(renderHintBar(hints...))
	return b.String()
}

// SetSize updates the size of the review step.
func (s *ReviewStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	// title, header, two blank lines and the hint bar
	s.pane.SetSize(width, height-6)
}
