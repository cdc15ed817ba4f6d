package wizard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepString(t *testing.T) {
	assert.Equal(t, "config", StepConfig.String())
	assert.Equal(t, "done", StepDone.String())
	assert.Equal(t, "step(9)", Step(9).String())
	assert.Equal(t, "Review Prompt", StepReview.Title())
	assert.Len(t, Steps(), 5)
}

func TestStepOutputs(t *testing.T) {
	outputs := map[Step]Output{
		StepConfig:   ConfigOutput{},
		StepSearch:   SearchOutput{},
		StepReview:   ReviewOutput{},
		StepAnalysis: AnalysisOutput{},
	}
	for step, out := range outputs {
		assert.Equal(t, step, out.Step())
	}
}

func TestSnapshotJSON(t *testing.T) {
	snap := Snapshot{
		Step:    StepReview,
		Context: Context{Keyword: "kw", ResearchText: "text"},
		Prompts: map[Step]StepState{
			StepReview:   {Prompt: "review", Edited: true},
			StepAnalysis: {Prompt: "analysis"},
		},
	}

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"step":"review"`)
	assert.Contains(t, string(data), `"analysis":{"prompt":"analysis"}`)

	var got Snapshot
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, snap, got)
}

func TestStepUnmarshalUnknown(t *testing.T) {
	var s Step
	assert.Error(t, s.UnmarshalText([]byte("bogus")))
	_, err := Step(-1).MarshalText()
	assert.Error(t, err)
}
