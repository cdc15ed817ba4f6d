package wizard

import (
	"fmt"

	"github.com/mark3labs/stylewiz/internal/logger"
)

// Snapshot is a serializable copy of the wizard state, used to resume a run.
type Snapshot struct {
	Step    Step               `json:"step"`
	Context Context            `json:"context"`
	Prompts map[Step]StepState `json:"prompts"`
}

// Snapshot captures the current state. An in-flight generation is not part
// of it.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Step:    c.step,
		Context: c.wctx.clone(),
		Prompts: make(map[Step]StepState, len(c.prompts)),
	}
	for step, st := range c.prompts {
		s.Prompts[step] = *st
	}
	return s
}

// Restore replaces the state with s, cancelling any in-flight generation.
// A snapshot whose context lacks what its step requires is rejected with
// ErrInvalidTransition.
func (c *Controller) Restore(s Snapshot) error {
	if err := s.validate(); err != nil {
		return err
	}

	c.mu.Lock()
	c.cancelLocked()
	from := c.step
	c.step = s.Step
	c.wctx = s.Context.clone()
	for _, step := range promptSteps {
		st, ok := s.Prompts[step]
		if !ok {
			st = StepState{ContentType: c.prompts[step].ContentType, Prompt: c.derive(step)}
		}
		c.prompts[step] = &st
	}
	ev := Event{Kind: EventRestore, From: from, To: c.step, Context: c.wctx.clone()}
	c.mu.Unlock()

	logger.Info("Restored wizard at %s step (keyword %q)", s.Step, s.Context.Keyword)
	c.notify(ev)
	return nil
}

// validate checks that every step before s.Step has produced its output.
func (s Snapshot) validate() error {
	if !s.Step.Valid() {
		return fmt.Errorf("snapshot has invalid step %d: %w", int(s.Step), ErrInvalidTransition)
	}
	for step := range s.Prompts {
		if !hasPrompt(step) {
			return fmt.Errorf("snapshot has prompt for %s step: %w", step, ErrInvalidTransition)
		}
	}

	wctx := s.Context
	switch {
	case s.Step > StepConfig && wctx.Model.ID == "":
		return fmt.Errorf("snapshot at %s step has no model: %w", s.Step, ErrInvalidTransition)
	case s.Step > StepSearch && (len(wctx.SearchResults) == 0 || wctx.ResearchText == "" || wctx.Keyword == ""):
		return fmt.Errorf("snapshot at %s step has no research: %w", s.Step, ErrInvalidTransition)
	case s.Step > StepAnalysis && (!wctx.HasResult() || wctx.AnalysisResult.Text == "" || wctx.Stale):
		return fmt.Errorf("snapshot at %s step has no current analysis: %w", s.Step, ErrInvalidTransition)
	}
	return nil
}
