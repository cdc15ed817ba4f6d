package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/stylewiz/internal/config"
	"github.com/mark3labs/stylewiz/internal/generator"
	"github.com/mark3labs/stylewiz/internal/template"
	"github.com/mark3labs/stylewiz/internal/tui/testfixtures"
	"github.com/mark3labs/stylewiz/internal/wizard"
)

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

type recordingObserver struct {
	events []wizard.Event
}

func (r *recordingObserver) Observe(ev wizard.Event) {
	r.events = append(r.events, ev)
}

func newTestModel(t *testing.T, gen generator.Generator, obs wizard.Observer) (*Model, *fakeClipboard) {
	t.Helper()
	cfg := config.Defaults()
	cfg.Model = "test-model"
	cfg.ExportDir = t.TempDir()

	var opts []wizard.Option
	if obs != nil {
		opts = append(opts, wizard.WithObserver(obs))
	}
	cb := &fakeClipboard{}
	m := NewModel(context.Background(), Options{
		Controller: wizard.New(gen, opts...),
		Config:     cfg,
		Keyword:    "style guide",
		Results:    testfixtures.Results("style guide"),
		Clipboard:  cb,
	})
	m.Update(tea.WindowSizeMsg{Width: testfixtures.TestTermWidth, Height: testfixtures.TestTermHeight})
	return m, cb
}

// press sends a key and feeds the resulting messages back into the model.
// Commands returned after a step change or a generation request are not
// run; they only focus inputs or start timers.
func press(m *Model, k string) {
	var msg tea.Msg = key(k)
	for range 5 {
		_, cmd := m.Update(msg)
		switch msg.(type) {
		case NextMsg, BackMsg, GenerateMsg:
			return
		}
		if cmd == nil {
			return
		}
		msg = cmd()
		switch msg.(type) {
		case nil, tea.QuitMsg:
			return
		}
	}
}

func viewString(m *Model) string {
	return m.render()
}

func TestModel_FullFlow(t *testing.T) {
	obs := &recordingObserver{}
	m, cb := newTestModel(t, &generator.Stub{Delay: -1, Text: "# Style\n\nShort and direct."}, obs)

	assert.Equal(t, wizard.StepConfig, m.ctrl.Step())
	testfixtures.RequireContains(t, testfixtures.Render(viewString(m)), "Step 1/5", "Model Configuration")

	press(m, "enter")
	require.Equal(t, wizard.StepSearch, m.ctrl.Step())
	assert.Equal(t, "test-model", m.ctrl.Context().Model.ID)

	press(m, "enter")
	require.Equal(t, wizard.StepReview, m.ctrl.Step())
	assert.Equal(t, "style guide", m.ctrl.Context().Keyword)
	assert.NotEmpty(t, m.reviewStep.Pane().State().Prompt)

	press(m, "enter")
	require.Equal(t, wizard.StepAnalysis, m.ctrl.Step())

	// Advancing without a result is rejected and shown
	press(m, "enter")
	assert.Equal(t, wizard.StepAnalysis, m.ctrl.Step())
	assert.Contains(t, m.err, "no analysis generated yet")

	_, cmd := m.Update(GenerateMsg{})
	require.NotNil(t, cmd)
	assert.True(t, m.analysisStep.generating)
	m.Update(m.generate()())
	assert.False(t, m.analysisStep.generating)
	assert.Equal(t, "# Style\n\nShort and direct.", m.ctrl.Context().AnalysisResult.Text)

	press(m, "enter")
	require.Equal(t, wizard.StepDone, m.ctrl.Step())
	testfixtures.RequireContains(t, testfixtures.Render(viewString(m)), "Style analysis complete", "Short and direct")

	press(m, "c")
	assert.Equal(t, "# Style\n\nShort and direct.", cb.text)
	assert.Equal(t, "Copied to clipboard", m.doneStep.status)

	press(m, "s")
	saved := filepath.Join(m.cfg.ExportDir, "style-guide.md")
	data, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, "# Style\n\nShort and direct.", string(data))
	assert.Equal(t, "Saved to "+saved, m.doneStep.status)

	var exports int
	for _, ev := range obs.events {
		if ev.Kind == wizard.EventExport {
			exports++
			assert.NoError(t, ev.Err)
		}
	}
	assert.Equal(t, 2, exports)
}

func TestModel_BackPreservesEdits(t *testing.T) {
	m, _ := newTestModel(t, &generator.Stub{Delay: -1}, nil)
	press(m, "enter")
	press(m, "enter")
	require.Equal(t, wizard.StepReview, m.ctrl.Step())

	m.Update(PromptEditedMsg{Step: wizard.StepReview, Content: "My own review prompt"})
	st := m.reviewStep.Pane().State()
	assert.Equal(t, "My own review prompt", st.Prompt)
	assert.True(t, st.Edited)

	press(m, "esc")
	require.Equal(t, wizard.StepSearch, m.ctrl.Step())
	press(m, "enter")
	require.Equal(t, wizard.StepReview, m.ctrl.Step())
	assert.Equal(t, "My own review prompt", m.reviewStep.Pane().State().Prompt)

	press(m, "r")
	st = m.reviewStep.Pane().State()
	assert.False(t, st.Edited)
	assert.NotEqual(t, "My own review prompt", st.Prompt)
}

func TestModel_PromptDiff(t *testing.T) {
	m, _ := newTestModel(t, &generator.Stub{Delay: -1}, nil)
	press(m, "enter")
	press(m, "enter")
	require.Equal(t, wizard.StepReview, m.ctrl.Step())

	m.Update(PromptEditedMsg{Step: wizard.StepReview, Content: "My own review prompt\n"})
	press(m, "d")
	pane := m.reviewStep.Pane()
	require.True(t, pane.DiffVisible())
	testfixtures.RequireContains(t, testfixtures.Render(pane.View()), "+My own review prompt")

	press(m, "d")
	assert.False(t, pane.DiffVisible())
}

func TestModel_ContentTypeAndProfile(t *testing.T) {
	m, _ := newTestModel(t, &generator.Stub{Delay: -1}, nil)
	press(m, "enter")
	press(m, "enter")

	press(m, "t")
	assert.Equal(t, template.Cluster, m.reviewStep.Pane().State().ContentType)
	press(m, "T")
	press(m, "T")
	assert.Equal(t, template.Comparison, m.reviewStep.Pane().State().ContentType)

	press(m, "p")
	st := m.reviewStep.Pane().State()
	assert.True(t, st.Edited)
	assert.Contains(t, st.Prompt, template.GetProfile(template.Comparison).Annotation())
}

func TestModel_GenerationFailureKeepsStep(t *testing.T) {
	m, _ := newTestModel(t, &generator.Stub{Delay: -1, FailWith: errors.New("backend down")}, nil)
	press(m, "enter")
	press(m, "enter")
	press(m, "enter")
	require.Equal(t, wizard.StepAnalysis, m.ctrl.Step())

	m.Update(GenerateMsg{})
	m.Update(m.generate()())
	assert.Contains(t, m.analysisStep.err, "backend down")
	assert.False(t, m.ctrl.Context().HasResult())
	assert.Equal(t, wizard.StepAnalysis, m.ctrl.Step())
}

func TestModel_CopyFailure(t *testing.T) {
	m, cb := newTestModel(t, &generator.Stub{Delay: -1}, nil)
	cb.err = errors.New("no clipboard")
	for range 3 {
		press(m, "enter")
	}
	m.Update(GenerateMsg{})
	m.Update(m.generate()())
	press(m, "enter")
	require.Equal(t, wizard.StepDone, m.ctrl.Step())

	press(m, "c")
	assert.True(t, m.doneStep.failed)
	assert.Contains(t, m.doneStep.status, "no clipboard")
}

func TestModel_EscOnFirstStepQuits(t *testing.T) {
	m, _ := newTestModel(t, &generator.Stub{Delay: -1}, nil)
	_, cmd := m.Update(key("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_ViewBeforeSize(t *testing.T) {
	m := NewModel(context.Background(), Options{Controller: wizard.New(&generator.Stub{Delay: -1})})
	v := m.View()
	assert.True(t, v.AltScreen)
}

func TestCycleContentType(t *testing.T) {
	assert.Equal(t, template.Cluster, cycleContentType(template.Pillar, true))
	assert.Equal(t, template.Comparison, cycleContentType(template.Pillar, false))
	assert.Equal(t, template.Pillar, cycleContentType(template.Comparison, true))
	assert.Equal(t, template.Cluster, cycleContentType("unknown", true))
}
