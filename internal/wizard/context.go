package wizard

import (
	"slices"

	"github.com/mark3labs/stylewiz/internal/generator"
	"github.com/mark3labs/stylewiz/internal/research"
	"github.com/mark3labs/stylewiz/internal/template"
)

// Context is the data accumulated across the wizard. Callers always receive
// copies; only the Controller mutates the live value.
type Context struct {
	Model          generator.ModelConfig   `json:"model"`
	Keyword        string                  `json:"keyword"`
	SearchResults  []research.SearchResult `json:"searchResults"`
	ResearchText   string                  `json:"researchText"`
	ReviewPrompt   string                  `json:"reviewPrompt,omitempty"`
	AnalysisPrompt string                  `json:"analysisPrompt,omitempty"`
	AnalysisResult *generator.Result       `json:"analysisResult,omitempty"`
	Stale          bool                    `json:"stale,omitempty"`
}

// HasResult reports whether an analysis has been generated.
func (c Context) HasResult() bool {
	return c.AnalysisResult != nil
}

func (c Context) clone() Context {
	c.SearchResults = slices.Clone(c.SearchResults)
	if c.AnalysisResult != nil {
		r := *c.AnalysisResult
		c.AnalysisResult = &r
	}
	return c
}

// StepState is the editable prompt of a step.
type StepState struct {
	Prompt string `json:"prompt"`
	// Edited is set once the user changes the prompt by hand. Edited prompts
	// are never overwritten by upstream changes.
	Edited bool `json:"edited,omitempty"`
	// UpstreamChanged is set when research changed after the user edited
	// the prompt. ResetPrompt clears it.
	UpstreamChanged bool                 `json:"upstreamChanged,omitempty"`
	ContentType     template.ContentType `json:"contentType,omitempty"`
}

// promptSteps are the steps that own an editable prompt.
var promptSteps = []Step{StepReview, StepAnalysis}

func hasPrompt(s Step) bool {
	return slices.Contains(promptSteps, s)
}
