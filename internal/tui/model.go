// Package tui is the interactive front end of the style analysis wizard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/mark3labs/stylewiz/internal/config"
	"github.com/mark3labs/stylewiz/internal/export"
	"github.com/mark3labs/stylewiz/internal/logger"
	"github.com/mark3labs/stylewiz/internal/research"
	"github.com/mark3labs/stylewiz/internal/template"
	"github.com/mark3labs/stylewiz/internal/tui/theme"
	"github.com/mark3labs/stylewiz/internal/wizard"
)

// Modal layout constants
const (
	maxModalWidth = 100
	minModalWidth = 40
	modalChromeX  = 6 // padding and border on both sides
	modalChromeY  = 8 // padding, border, title and error line
)

// Export targets reported to the controller.
const (
	TargetClipboard = "clipboard"
)

// Options configures the wizard UI.
type Options struct {
	Controller  *wizard.Controller
	Config      *config.Config
	Keyword     string
	ResultsPath string
	Results     []research.SearchResult
	Clipboard   export.Clipboard
}

// Model is the root BubbleTea model. Every state change goes through the
// controller; the step components only render and emit messages.
type Model struct {
	ctx       context.Context
	ctrl      *wizard.Controller
	cfg       *config.Config
	clipboard export.Clipboard

	width  int
	height int
	err    string

	configStep   *ConfigStep
	searchStep   *SearchStep
	reviewStep   *ReviewStep
	analysisStep *AnalysisStep
	doneStep     *DoneStep
}

// NewModel creates the root model. The step components live for the whole
// session so their inputs survive navigating back and forth.
func NewModel(ctx context.Context, opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Defaults()
	}
	cb := opts.Clipboard
	if cb == nil {
		cb = export.SystemClipboard{}
	}

	wctx := opts.Controller.Context()
	model := wctx.Model
	if model.ID == "" {
		model.ID = cfg.Model
	}
	keyword := opts.Keyword
	if keyword == "" {
		keyword = wctx.Keyword
	}
	results := opts.Results
	if len(results) == 0 {
		results = wctx.SearchResults
	}

	m := &Model{
		ctx:          ctx,
		ctrl:         opts.Controller,
		cfg:          cfg,
		clipboard:    cb,
		configStep:   NewConfigStep(model),
		searchStep:   NewSearchStep(keyword, opts.ResultsPath, results),
		reviewStep:   NewReviewStep(),
		analysisStep: NewAnalysisStep(),
		doneStep:     NewDoneStep(),
	}
	m.sync()
	return m
}

// Run starts the interactive wizard and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	m := NewModel(ctx, opts)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("wizard failed: %w", err)
	}
	return nil
}

// Init initializes the current step.
func (m *Model) Init() tea.Cmd {
	return m.initCurrentStep()
}

// Update handles messages for the wizard.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			m.ctrl.Cancel()
			return m, tea.Quit
		case "esc":
			if m.ctrl.Step() == wizard.StepConfig {
				return m, tea.Quit
			}
			return m, func() tea.Msg { return BackMsg{} }
		}
		m.err = ""

	case NextMsg:
		if err := m.ctrl.Advance(msg.Output); err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.err = ""
		m.sync()
		return m, m.initCurrentStep()

	case BackMsg:
		if err := m.ctrl.Back(); err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.err = ""
		m.analysisStep.SetGenerating(m.ctrl.Generating())
		m.sync()
		return m, m.initCurrentStep()

	case PromptEditedMsg:
		cmd := m.paneFor(msg.Step).Update(msg)
		if err := m.ctrl.SetPrompt(msg.Step, msg.Content); err != nil {
			m.err = err.Error()
		}
		m.sync()
		return m, cmd

	case EditorErrorMsg:
		logger.Warn("Editor failed: %v", msg.Err)
		m.err = msg.Err.Error()
		if pane := m.currentPane(); pane != nil {
			return m, pane.Update(msg)
		}
		return m, nil

	case PromptResetMsg:
		if err := m.ctrl.ResetPrompt(msg.Step); err != nil {
			m.err = err.Error()
		}
		m.sync()
		return m, nil

	case ContentTypeMsg:
		st, err := m.ctrl.Prompt(msg.Step)
		if err == nil {
			err = m.ctrl.SetContentType(msg.Step, cycleContentType(st.ContentType, msg.Next))
		}
		if err != nil {
			m.err = err.Error()
		}
		m.sync()
		return m, nil

	case ApplyProfileMsg:
		if err := m.ctrl.ApplyProfile(msg.Step); err != nil {
			m.err = err.Error()
		}
		m.sync()
		return m, nil

	case PromptDiffMsg:
		derived, err := m.ctrl.DerivedPrompt(msg.Step)
		if err != nil {
			m.err = err.Error()
			return m, nil
		}
		pane := m.paneFor(msg.Step)
		pane.ShowDiff(promptDiff(derived, pane.State().Prompt))
		return m, nil

	case GenerateMsg:
		if m.ctrl.Generating() {
			return m, nil
		}
		return m, tea.Batch(m.analysisStep.SetGenerating(true), m.generate())

	case GenerationDoneMsg:
		m.analysisStep.SetGenerating(m.ctrl.Generating())
		switch {
		case errors.Is(msg.Err, wizard.ErrGenerationCancelled), errors.Is(msg.Err, wizard.ErrGenerationInFlight):
		case msg.Err != nil:
			m.analysisStep.SetError(msg.Err)
		}
		m.sync()
		return m, nil

	case CopyMsg:
		return m, m.copyAnalysis()

	case SaveMsg:
		return m, m.saveAnalysis()

	case ExportDoneMsg:
		switch {
		case msg.Err != nil:
			m.doneStep.SetStatus(msg.Err.Error(), true)
		case msg.Target == TargetClipboard:
			m.doneStep.SetStatus("Copied to clipboard", false)
		default:
			m.doneStep.SetStatus("Saved to "+msg.Target, false)
		}
		return m, nil

	case spinner.TickMsg:
		return m, m.analysisStep.Update(msg)
	}

	return m, m.updateCurrentStep(msg)
}

// generate runs the controller's generation off the UI goroutine.
func (m *Model) generate() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		res, err := ctrl.Generate(ctx)
		return GenerationDoneMsg{Result: res, Err: err}
	}
}

func (m *Model) analysisText() string {
	wctx := m.ctrl.Context()
	if !wctx.HasResult() {
		return ""
	}
	return wctx.AnalysisResult.Text
}

// copyAnalysis and saveAnalysis report to the controller from the command
// goroutine so observers never block the UI.
func (m *Model) copyAnalysis() tea.Cmd {
	text, cb, ctrl := m.analysisText(), m.clipboard, m.ctrl
	return func() tea.Msg {
		err := export.Copy(cb, text)
		ctrl.Exported(TargetClipboard, err)
		return ExportDoneMsg{Target: TargetClipboard, Err: err}
	}
}

func (m *Model) saveAnalysis() tea.Cmd {
	text, dir, keyword, ctrl := m.analysisText(), m.cfg.ExportDir, m.ctrl.Context().Keyword, m.ctrl
	return func() tea.Msg {
		path, err := export.Save(dir, keyword, text)
		if err != nil {
			path = export.FileName(keyword)
		}
		ctrl.Exported(path, err)
		return ExportDoneMsg{Target: path, Err: err}
	}
}

// sync copies controller state into the step components.
func (m *Model) sync() {
	if st, err := m.ctrl.Prompt(wizard.StepReview); err == nil {
		m.reviewStep.Pane().SetState(st)
	}
	if st, err := m.ctrl.Prompt(wizard.StepAnalysis); err == nil {
		m.analysisStep.Pane().SetState(st)
	}
	wctx := m.ctrl.Context()
	text := ""
	if wctx.HasResult() {
		text = wctx.AnalysisResult.Text
	}
	m.analysisStep.SetResult(text, wctx.Stale)
	m.doneStep.SetAnalysis(text)
}

func cycleContentType(cur template.ContentType, forward bool) template.ContentType {
	types := template.ContentTypes()
	idx := 0
	for i, t := range types {
		if t == cur {
			idx = i
			break
		}
	}
	if forward {
		idx = (idx + 1) % len(types)
	} else {
		idx = (idx + len(types) - 1) % len(types)
	}
	return types[idx]
}

func (m *Model) paneFor(step wizard.Step) *PromptPane {
	if step == wizard.StepAnalysis {
		return m.analysisStep.Pane()
	}
	return m.reviewStep.Pane()
}

func (m *Model) currentPane() *PromptPane {
	switch m.ctrl.Step() {
	case wizard.StepReview:
		return m.reviewStep.Pane()
	case wizard.StepAnalysis:
		return m.analysisStep.Pane()
	}
	return nil
}

// initCurrentStep initializes the current step component.
func (m *Model) initCurrentStep() tea.Cmd {
	switch m.ctrl.Step() {
	case wizard.StepConfig:
		return m.configStep.Init()
	case wizard.StepSearch:
		return m.searchStep.Init()
	case wizard.StepReview:
		return m.reviewStep.Init()
	case wizard.StepAnalysis:
		return m.analysisStep.Init()
	case wizard.StepDone:
		return m.doneStep.Init()
	}
	return nil
}

// updateCurrentStep forwards a message to the current step.
func (m *Model) updateCurrentStep(msg tea.Msg) tea.Cmd {
	switch m.ctrl.Step() {
	case wizard.StepConfig:
		return m.configStep.Update(msg)
	case wizard.StepSearch:
		return m.searchStep.Update(msg)
	case wizard.StepReview:
		return m.reviewStep.Update(msg)
	case wizard.StepAnalysis:
		return m.analysisStep.Update(msg)
	case wizard.StepDone:
		return m.doneStep.Update(msg)
	}
	return nil
}

// contentSize returns the dimensions available inside the modal.
func (m *Model) contentSize() (width, height int) {
	width = min(m.width-4, maxModalWidth)
	width = max(width, minModalWidth) - modalChromeX
	height = max(m.height-2, 20) - modalChromeY
	return width, height
}

func (m *Model) updateSizes() {
	w, h := m.contentSize()
	m.configStep.SetSize(w, h)
	m.searchStep.SetSize(w, h)
	m.reviewStep.SetSize(w, h)
	m.analysisStep.SetSize(w, h)
	m.doneStep.SetSize(w, h)
}

func (m *Model) renderCurrentStep() string {
	switch m.ctrl.Step() {
	case wizard.StepConfig:
		return m.configStep.View()
	case wizard.StepSearch:
		return m.searchStep.View()
	case wizard.StepReview:
		return m.reviewStep.View()
	case wizard.StepAnalysis:
		return m.analysisStep.View()
	case wizard.StepDone:
		return m.doneStep.View()
	}
	return ""
}

// render builds the modal for the current step.
func (m *Model) render() string {
	st := theme.Current().S()
	step := m.ctrl.Step()

	var b strings.Builder
	b.WriteString(st.Title.Render("Style Wizard"))
	b.WriteString("  ")
	b.WriteString(st.Muted.Render(fmt.Sprintf("Step %d/%d · %s", int(step)+1, len(wizard.Steps()), step.Title())))
	b.WriteString("\n\n")
	b.WriteString(m.renderCurrentStep())
	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(st.Error.Render("✗ " + m.err))
	}

	w, _ := m.contentSize()
	return st.Modal.Width(w + modalChromeX).Render(b.String())
}

// View renders the wizard.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if m.width == 0 || m.height == 0 {
		view.Content = lipgloss.NewLayer("")
		return view
	}

	centered := lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.render())

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(centered).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}
