package tui

import (
	"fmt"
	"os"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/editor"

	"github.com/mark3labs/stylewiz/internal/logger"
	"github.com/mark3labs/stylewiz/internal/template"
	"github.com/mark3labs/stylewiz/internal/tui/theme"
	"github.com/mark3labs/stylewiz/internal/wizard"
)

// PromptPane shows the prompt of a Review or Analysis step and turns the
// editing keys into messages for the root model.
type PromptPane struct {
	step     wizard.Step
	state    wizard.StepState
	viewport viewport.Model
	width    int
	height   int
	tmpFile  string

	// diff view against the derived prompt
	diff     string
	showDiff bool
}

// NewPromptPane creates a pane for step.
func NewPromptPane(step wizard.Step) *PromptPane {
	vp := viewport.New(
		viewport.WithWidth(60),
		viewport.WithHeight(10),
	)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	return &PromptPane{
		step:     step,
		viewport: vp,
		width:    60,
		height:   10,
	}
}

// SetState replaces the displayed prompt state.
func (p *PromptPane) SetState(st wizard.StepState) {
	changed := st.Prompt != p.state.Prompt
	p.state = st
	if changed {
		p.showDiff = false
		p.refresh()
		p.viewport.GotoTop()
	}
}

// ShowDiff switches the pane to a unified diff from the derived prompt.
// An empty diff means the prompt is unedited.
func (p *PromptPane) ShowDiff(diff string) {
	p.diff = diff
	p.showDiff = true
	p.refresh()
	p.viewport.GotoTop()
}

// HideDiff switches the pane back to the rendered prompt.
func (p *PromptPane) HideDiff() {
	p.showDiff = false
	p.refresh()
}

// DiffVisible reports whether the diff view is shown.
func (p *PromptPane) DiffVisible() bool {
	return p.showDiff
}

func (p *PromptPane) refresh() {
	if p.showDiff {
		p.viewport.SetContent(highlightDiff(p.diff))
		return
	}
	p.viewport.SetContent(renderMarkdown(p.state.Prompt, p.width))
}

// State returns the displayed prompt state.
func (p *PromptPane) State() wizard.StepState {
	return p.state
}

// SetSize updates the dimensions of the pane.
func (p *PromptPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.viewport.SetWidth(width)
	p.viewport.SetHeight(max(height, 3))
	p.refresh()
}

// Update handles the editing keys and forwards the rest to the viewport.
func (p *PromptPane) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		step := p.step
		switch msg.String() {
		case "e":
			if os.Getenv("EDITOR") != "" {
				return p.openEditor()
			}
			return nil
		case "r":
			return func() tea.Msg { return PromptResetMsg{Step: step} }
		case "t":
			return func() tea.Msg { return ContentTypeMsg{Step: step, Next: true} }
		case "T":
			return func() tea.Msg { return ContentTypeMsg{Step: step} }
		case "p":
			return func() tea.Msg { return ApplyProfileMsg{Step: step} }
		case "d":
			if p.showDiff {
				p.HideDiff()
				return nil
			}
			return func() tea.Msg { return PromptDiffMsg{Step: step} }
		}
	case PromptEditedMsg:
		p.cleanup()
		return nil
	case EditorErrorMsg:
		p.cleanup()
		return nil
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return cmd
}

// openEditor launches $EDITOR on a temp file holding the prompt.
func (p *PromptPane) openEditor() tea.Cmd {
	tmpfile, err := os.CreateTemp("", "stylewiz_prompt_*.md")
	if err != nil {
		return editorError(fmt.Errorf("creating temp file: %w", err))
	}
	if _, err := tmpfile.WriteString(p.state.Prompt); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(tmpfile.Name())
		return editorError(fmt.Errorf("writing temp file: %w", err))
	}
	_ = tmpfile.Close()
	p.tmpFile = tmpfile.Name()

	cmd, err := editor.Command("stylewiz", tmpfile.Name())
	if err != nil {
		p.cleanup()
		return editorError(fmt.Errorf("preparing editor: %w", err))
	}

	step := p.step
	path := tmpfile.Name()
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		if err != nil {
			return EditorErrorMsg{Err: fmt.Errorf("editor exited: %w", err)}
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return EditorErrorMsg{Err: fmt.Errorf("reading edited prompt: %w", err)}
		}
		return PromptEditedMsg{Step: step, Content: string(content)}
	})
}

func (p *PromptPane) cleanup() {
	if p.tmpFile == "" {
		return
	}
	if err := os.Remove(p.tmpFile); err != nil && !os.IsNotExist(err) {
		logger.Warn("Failed to remove temp file %s: %v", p.tmpFile, err)
	}
	p.tmpFile = ""
}

func editorError(err error) tea.Cmd {
	return func() tea.Msg { return EditorErrorMsg{Err: err} }
}

// Header renders the content type badge and prompt status line.
func (p *PromptPane) Header() string {
	st := theme.Current().S()
	profile := template.GetProfile(p.state.ContentType)

	parts := []string{st.Badge.Render(profile.Name)}
	if p.state.Edited {
		parts = append(parts, st.Muted.Render("edited"))
	}
	if pending := template.Placeholders(p.state.Prompt); len(pending) > 0 {
		parts = append(parts, st.Warning.Render("unresolved "+strings.Join(pending, " ")))
	}
	if p.showDiff {
		parts = append(parts, st.Muted.Render("diff"))
	}
	if p.state.UpstreamChanged {
		parts = append(parts, st.Warning.Render("⚠ research changed since this prompt was edited, press r to re-derive"))
	}
	return strings.Join(parts, "  ")
}

// View renders the prompt viewport.
func (p *PromptPane) View() string {
	if p.showDiff && p.diff == "" {
		return theme.Current().S().Muted.Render("(no changes from the derived prompt)")
	}
	if !p.showDiff && strings.TrimSpace(p.state.Prompt) == "" {
		return theme.Current().S().Muted.Render("(empty prompt)")
	}
	return p.viewport.View()
}

// Hints returns the hint pairs for the editing keys.
func (p *PromptPane) Hints() []string {
	var hints []string
	if os.Getenv("EDITOR") != "" {
		hints = append(hints, "e", "edit")
	}
	return append(hints, "r", "reset", "t", "type", "p", "apply profile", "d", "diff")
}
