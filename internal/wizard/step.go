// Package wizard implements the step-by-step style-analysis workflow:
// configure a model, collect research, review the prompt, generate an
// analysis. The Controller owns all workflow state; front-ends only send it
// step outputs and read copies back.
package wizard

import (
	"fmt"
	"strings"

	"github.com/mark3labs/stylewiz/internal/generator"
	"github.com/mark3labs/stylewiz/internal/research"
)

// Step identifies a wizard step.
type Step int

const (
	StepConfig Step = iota
	StepSearch
	StepReview
	StepAnalysis
	StepDone
)

var stepNames = [...]string{"config", "search", "review", "analysis", "done"}

// Steps returns every step in workflow order.
func Steps() []Step {
	return []Step{StepConfig, StepSearch, StepReview, StepAnalysis, StepDone}
}

func (s Step) String() string {
	if s < StepConfig || s > StepDone {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// Title is the human-readable step name.
func (s Step) Title() string {
	switch s {
	case StepConfig:
		return "Model Configuration"
	case StepSearch:
		return "Research"
	case StepReview:
		return "Review Prompt"
	case StepAnalysis:
		return "Style Analysis"
	case StepDone:
		return "Done"
	}
	return s.String()
}

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	return s >= StepConfig && s <= StepDone
}

// MarshalText implements encoding.TextMarshaler.
func (s Step) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid step %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Step) UnmarshalText(b []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(b)))
	for i, n := range stepNames {
		if n == name {
			*s = Step(i)
			return nil
		}
	}
	return fmt.Errorf("unknown step %q", name)
}

// Output is what a step hands to Controller.Advance.
type Output interface {
	Step() Step
}

// ConfigOutput leaves the Config step.
type ConfigOutput struct {
	Model generator.ModelConfig
}

// Step implements Output.
func (ConfigOutput) Step() Step { return StepConfig }

// SearchOutput leaves the Search step. An empty Keyword defaults to the
// search keyword carried by the results.
type SearchOutput struct {
	Keyword string
	Results []research.SearchResult
}

// Step implements Output.
func (SearchOutput) Step() Step { return StepSearch }

// ReviewOutput leaves the Review step, committing the staged review prompt.
type ReviewOutput struct{}

// Step implements Output.
func (ReviewOutput) Step() Step { return StepReview }

// AnalysisOutput leaves the Analysis step once a fresh result exists.
type AnalysisOutput struct{}

// Step implements Output.
func (AnalysisOutput) Step() Step { return StepAnalysis }
