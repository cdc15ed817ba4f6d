package tui

import (
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/mark3labs/stylewiz/internal/tui/theme"
	"github.com/mark3labs/stylewiz/internal/wizard"
)

// AnalysisStep runs the generator on the analysis prompt and shows the
// result.
type AnalysisStep struct {
	pane       *PromptPane
	result     viewport.Model
	spinner    spinner.Model
	text       string
	stale      bool
	generating bool
	showPrompt bool
	err        string
	width      int
	height     int
}

// NewAnalysisStep creates the analysis step.
func NewAnalysisStep() *AnalysisStep {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(
		viewport.WithWidth(60),
		viewport.WithHeight(10),
	)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	return &AnalysisStep{
		pane:       NewPromptPane(wizard.StepAnalysis),
		result:     vp,
		spinner:    sp,
		showPrompt: true,
		width:      60,
		height:     20,
	}
}

// Init initializes the analysis step.
func (s *AnalysisStep) Init() tea.Cmd {
	return nil
}

// Pane returns the prompt pane.
func (s *AnalysisStep) Pane() *PromptPane {
	return s.pane
}

// SetGenerating toggles the spinner. It returns the tick command when a
// generation starts.
func (s *AnalysisStep) SetGenerating(on bool) tea.Cmd {
	s.generating = on
	if on {
		s.err = ""
		return s.spinner.Tick
	}
	return nil
}

// SetResult shows the latest analysis. Empty text clears it.
func (s *AnalysisStep) SetResult(text string, stale bool) {
	s.stale = stale
	if text == s.text {
		return
	}
	s.text = text
	if text != "" {
		s.showPrompt = false
	}
	s.result.SetContent(renderMarkdown(text, s.width))
	s.result.GotoTop()
}

// SetError shows a generation error. The previous result stays visible.
func (s *AnalysisStep) SetError(err error) {
	if err == nil {
		s.err = ""
		return
	}
	s.err = err.Error()
}

// Update handles messages for the analysis step.
func (s *AnalysisStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !s.generating {
			return nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd
	case tea.KeyPressMsg:
		switch msg.String() {
		case "g":
			if s.generating {
				return nil
			}
			return func() tea.Msg { return GenerateMsg{} }
		case "enter":
			return func() tea.Msg {
				return NextMsg{Output: wizard.AnalysisOutput{}}
			}
		case "v":
			if s.text != "" {
				s.showPrompt = !s.showPrompt
			}
			return nil
		}
		if !s.showPrompt {
			var cmd tea.Cmd
			s.result, cmd = s.result.Update(msg)
			return cmd
		}
	}
	return s.pane.Update(msg)
}

// View renders the analysis step.
func (s *AnalysisStep) View() string {
	st := theme.Current().S()

	var b strings.Builder
	switch {
	case s.generating:
		b.WriteString(s.spinner.View() + " " + st.Text.Render("Generating style analysis..."))
	case s.text == "":
		b.WriteString(st.Text.Render("Press g to generate the style analysis."))
	case s.stale:
		b.WriteString(st.Warning.Render("⚠ research changed since this analysis was generated, press g to regenerate"))
	default:
		b.WriteString(st.Success.Render("✓ Analysis ready"))
	}
	b.WriteString("\n")
	if s.err != "" {
		b.WriteString(st.Error.Render("✗ " + s.err))
		b.WriteString("\n")
	}

	if s.showPrompt {
		b.WriteString(s.pane.Header())
		b.WriteString("\n\n")
		b.WriteString(s.pane.View())
	} else {
		b.WriteString(st.Subtitle.Render("Analysis"))
		b.WriteString("\n\n")
		b.WriteString(s.result.View())
	}
	b.WriteString("\n\n")
	b.WriteString(renderHintBar(s.hints()...))
	return b.String()
}

func (s *AnalysisStep) hints() []string {
	hints := []string{"↑↓", "scroll"}
	if !s.generating {
		hints = append(hints, "g", "generate")
	}
	if s.text != "" {
		if s.showPrompt {
			hints = append(hints, "v", "view result")
		} else {
			hints = append(hints, "v", "view prompt")
		}
	}
	if s.showPrompt {
		hints = append(hints, s.pane.Hints()...)
	}
	return append(hints, "enter", "continue", "esc", "back")
}

// SetSize updates the size of the analysis step.
func (s *AnalysisStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	// status, error, header, blank lines and the hint bar
	h := max(height-7, 3)
	s.pane.SetSize(width, h)
	s.result.SetWidth(width)
	s.result.SetHeight(h)
	s.result.SetContent(renderMarkdown(s.text, width))
}
