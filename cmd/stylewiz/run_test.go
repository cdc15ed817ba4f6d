package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/stylewiz/internal/config"
	"github.com/mark3labs/stylewiz/internal/generator"
	"github.com/mark3labs/stylewiz/internal/research"
	"github.com/mark3labs/stylewiz/internal/state"
	"github.com/mark3labs/stylewiz/internal/template"
	"github.com/mark3labs/stylewiz/internal/wizard"
)

func testResults() []research.SearchResult {
	return []research.SearchResult{
		{Title: "Guide", URL: "https://example.com", Snippet: "Short sentences.", SearchKeyword: "style guide"},
	}
}

func TestParseBinding(t *testing.T) {
	b, err := parseBinding("[TOPIC]=go=fast")
	require.NoError(t, err)
	assert.Equal(t, template.Bind("[TOPIC]", "go=fast"), b)

	b, err = parseBinding("[EMPTY]=")
	require.NoError(t, err)
	assert.Equal(t, "", b.Value)

	_, err = parseBinding("no-equals")
	assert.Error(t, err)
	_, err = parseBinding("=value")
	assert.Error(t, err)
}

func TestRunHeadless(t *testing.T) {
	cfg := config.Defaults()
	cfg.ExportDir = t.TempDir()
	cfg.DataDir = t.TempDir()

	var exports []wizard.Event
	ctrl := wizard.New(&generator.Stub{Delay: -1, Text: "analysis body"},
		wizard.WithObserver(wizard.ObserverFunc(func(ev wizard.Event) {
			if ev.Kind == wizard.EventExport {
				exports = append(exports, ev)
			}
		})))

	runFlags.save = true
	t.Cleanup(func() { runFlags.save = false })

	err := runHeadless(context.Background(), ctrl, cfg, generator.ModelConfig{ID: "m"}, "", testResults())
	require.NoError(t, err)

	assert.Equal(t, wizard.StepDone, ctrl.Step())
	assert.Equal(t, "style guide", ctrl.Context().Keyword)

	data, err := os.ReadFile(filepath.Join(cfg.ExportDir, "style-guide.md"))
	require.NoError(t, err)
	assert.Equal(t, "analysis body", string(data))
	require.Len(t, exports, 1)
	assert.NoError(t, exports[0].Err)
}

func TestRunHeadless_MissingModel(t *testing.T) {
	cfg := config.Defaults()
	cfg.DataDir = t.TempDir()
	ctrl := wizard.New(&generator.Stub{Delay: -1})

	err := runHeadless(context.Background(), ctrl, cfg, generator.ModelConfig{}, "", testResults())
	require.ErrorIs(t, err, wizard.ErrMissingPrerequisite)
	assert.Equal(t, wizard.StepConfig, ctrl.Step())
}

func TestRunHeadless_ResumesFromSnapshot(t *testing.T) {
	cfg := config.Defaults()
	cfg.DataDir = t.TempDir()

	first := wizard.New(&generator.Stub{Delay: -1})
	require.NoError(t, first.Advance(wizard.ConfigOutput{Model: generator.ModelConfig{ID: "m"}}))
	require.NoError(t, first.Advance(wizard.SearchOutput{Results: testResults()}))
	require.NoError(t, first.SetPrompt(wizard.StepAnalysis, "custom analysis prompt"))

	gen := &generator.Stub{Delay: -1, Text: "resumed"}
	ctrl := wizard.New(gen)
	require.NoError(t, ctrl.Restore(first.Snapshot()))

	require.NoError(t, runHeadless(context.Background(), ctrl, cfg, generator.ModelConfig{}, "", nil))
	wctx := ctrl.Context()
	assert.Equal(t, "m", wctx.Model.ID)
	assert.Equal(t, "custom analysis prompt", wctx.AnalysisPrompt)
	assert.Equal(t, "resumed", wctx.AnalysisResult.Text)
}

func TestRunHeadless_RejectsDraftWithoutAnalysis(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, state.Save(dir, &state.Draft{
		Run:    "run-1",
		Wizard: wizard.Snapshot{Step: wizard.StepDone, Context: wizard.Context{Keyword: "kw"}},
	}))

	draft, err := state.Load(dir)
	require.NoError(t, err)
	require.NotNil(t, draft)

	ctrl := wizard.New(&generator.Stub{Delay: -1})
	require.ErrorIs(t, ctrl.Restore(draft.Wizard), wizard.ErrInvalidTransition)
	assert.Equal(t, wizard.StepConfig, ctrl.Step())
}

func TestFinishInteractive(t *testing.T) {
	dir := t.TempDir()

	// Nothing entered yet: no draft
	ctrl := wizard.New(&generator.Stub{Delay: -1})
	require.NoError(t, finishInteractive(ctrl, dir, "run-1"))
	d, err := state.Load(dir)
	require.NoError(t, err)
	assert.Nil(t, d)

	require.NoError(t, ctrl.Advance(wizard.ConfigOutput{Model: generator.ModelConfig{ID: "m"}}))
	require.NoError(t, finishInteractive(ctrl, dir, "run-1"))
	d, err = state.Load(dir)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "run-1", d.Run)
	assert.Equal(t, wizard.StepSearch, d.Wizard.Step)

	cfg := config.Defaults()
	cfg.DataDir = dir
	require.NoError(t, runHeadless(context.Background(), ctrl, cfg, generator.ModelConfig{}, "kw", testResults()))
	require.NoError(t, finishInteractive(ctrl, dir, "run-1"))
	d, err = state.Load(dir)
	require.NoError(t, err)
	assert.Nil(t, d)
}
