package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/stylewiz/internal/generator"
	"github.com/mark3labs/stylewiz/internal/logger"
	"github.com/mark3labs/stylewiz/internal/research"
	"github.com/mark3labs/stylewiz/internal/template"
)

// Controller drives the wizard state machine. It is safe for use from one
// UI goroutine plus the goroutine running Generate.
type Controller struct {
	mu sync.Mutex

	step    Step
	wctx    Context
	prompts map[Step]*StepState

	templates template.Set
	formatter *research.Formatter
	gen       generator.Generator
	observers []Observer

	generating bool
	cancel     context.CancelFunc
	genID      uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithTemplates sets the prompt templates. Defaults to template.DefaultSet.
func WithTemplates(set template.Set) Option {
	return func(c *Controller) { c.templates = set }
}

// WithFormatter sets the research formatter.
func WithFormatter(f *research.Formatter) Option {
	return func(c *Controller) { c.formatter = f }
}

// WithObserver registers an observer. Observers are called in the order
// they were registered.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// WithContentType sets the initial content type of every prompt step.
func WithContentType(ct template.ContentType) Option {
	return func(c *Controller) {
		for _, s := range promptSteps {
			c.prompts[s].ContentType = ct
		}
	}
}

// New creates a Controller at the Config step.
func New(gen generator.Generator, opts ...Option) *Controller {
	c := &Controller{
		step:      StepConfig,
		prompts:   make(map[Step]*StepState, len(promptSteps)),
		templates: template.DefaultSet(),
		formatter: research.NewFormatter(nil),
		gen:       gen,
	}
	for _, s := range promptSteps {
		c.prompts[s] = &StepState{ContentType: template.Pillar}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Step returns the current step.
func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Context returns a copy of the wizard context.
func (c *Controller) Context() Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wctx.clone()
}

// Prompt returns a copy of the prompt state of a Review or Analysis step.
func (c *Controller) Prompt(step Step) (StepState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, err := c.promptState(step)
	if err != nil {
		return StepState{}, err
	}
	return *st, nil
}

// Generating reports whether a generation is in flight.
func (c *Controller) Generating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generating
}

// Advance validates the output of the current step and moves forward.
// On error the step and context are unchanged.
func (c *Controller) Advance(out Output) error {
	c.mu.Lock()

	if out == nil || out.Step() != c.step || c.step == StepDone {
		cur := c.step
		c.mu.Unlock()
		got := "nil"
		if out != nil {
			got = out.Step().String()
		}
		return fmt.Errorf("%s output while on %s step: %w", got, cur, ErrInvalidTransition)
	}

	var err error
	switch o := out.(type) {
	case ConfigOutput:
		err = c.advanceConfig(o)
	case SearchOutput:
		err = c.advanceSearch(o)
	case ReviewOutput:
		err = c.advanceReview()
	case AnalysisOutput:
		err = c.advanceAnalysis()
	default:
		err = fmt.Errorf("unsupported output %T: %w", out, ErrInvalidTransition)
	}
	if err != nil {
		c.mu.Unlock()
		logger.Debug("Advance from %s rejected: %v", out.Step(), err)
		return err
	}

	from := c.step
	c.step++
	ev := Event{Kind: EventStep, From: from, To: c.step, Context: c.wctx.clone()}
	c.mu.Unlock()

	logger.Info("Wizard advanced %s -> %s", from, ev.To)
	c.notify(ev)
	return nil
}

func (c *Controller) advanceConfig(o ConfigOutput) error {
	model := o.Model
	model.ID = strings.TrimSpace(model.ID)
	if model.ID == "" {
		return fmt.Errorf("model id is required: %w", ErrMissingPrerequisite)
	}
	c.wctx.Model = model
	return nil
}

func (c *Controller) advanceSearch(o SearchOutput) error {
	if len(o.Results) == 0 {
		return fmt.Errorf("at least one search result is required: %w", ErrMissingPrerequisite)
	}
	keyword := strings.TrimSpace(o.Keyword)
	if keyword == "" {
		keyword = research.KeywordOf(o.Results)
	}
	if keyword == "" {
		return fmt.Errorf("keyword is required: %w", ErrMissingPrerequisite)
	}

	if c.wctx.ResearchText != "" && keyword == c.wctx.Keyword && research.Equal(o.Results, c.wctx.SearchResults) {
		logger.Debug("Search input unchanged, keeping research and prompts")
		return nil
	}

	c.wctx.Keyword = keyword
	c.wctx.SearchResults = append([]research.SearchResult(nil), o.Results...)
	c.wctx.ResearchText = c.formatter.Format(c.wctx.SearchResults)
	if c.wctx.AnalysisResult != nil {
		c.wctx.Stale = true
	}

	for _, s := range promptSteps {
		st := c.prompts[s]
		if st.Edited {
			st.UpstreamChanged = true
			continue
		}
		st.Prompt = c.derive(s)
		st.UpstreamChanged = false
	}
	logger.Debug("Research updated for %q: %d results, %d bytes", keyword, len(o.Results), len(c.wctx.ResearchText))
	return nil
}

func (c *Controller) advanceReview() error {
	if c.wctx.ResearchText == "" {
		return fmt.Errorf("research text is empty: %w", ErrMissingPrerequisite)
	}
	prompt := c.prompts[StepReview].Prompt
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("review prompt is empty: %w", ErrMissingPrerequisite)
	}
	c.wctx.ReviewPrompt = prompt
	return nil
}

func (c *Controller) advanceAnalysis() error {
	if c.generating {
		return fmt.Errorf("wait for the running generation: %w", ErrMissingPrerequisite)
	}
	if c.wctx.AnalysisResult == nil {
		return fmt.Errorf("no analysis generated yet: %w", ErrMissingPrerequisite)
	}
	if c.wctx.Stale {
		return fmt.Errorf("analysis is stale, regenerate it: %w", ErrMissingPrerequisite)
	}
	return nil
}

// Back moves to the previous step keeping every context field and prompt.
// Leaving the Analysis step cancels an in-flight generation.
func (c *Controller) Back() error {
	c.mu.Lock()
	if c.step == StepConfig {
		c.mu.Unlock()
		return fmt.Errorf("already on the first step: %w", ErrInvalidTransition)
	}

	from := c.step
	if from == StepAnalysis {
		c.cancelLocked()
	}
	c.step--
	ev := Event{Kind: EventStep, From: from, To: c.step, Context: c.wctx.clone()}
	c.mu.Unlock()

	logger.Info("Wizard went back %s -> %s", from, ev.To)
	c.notify(ev)
	return nil
}

// Cancel aborts an in-flight generation, if any. Its result is discarded.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
}

func (c *Controller) cancelLocked() {
	if !c.generating {
		return
	}
	logger.Info("Cancelling in-flight generation")
	c.cancel()
	c.cancel = nil
	c.generating = false
	c.genID++
}

// SetPrompt replaces the prompt of a Review or Analysis step and marks it
// as edited.
func (c *Controller) SetPrompt(step Step, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, err := c.promptState(step)
	if err != nil {
		return err
	}
	if st.Prompt == text {
		return nil
	}
	st.Prompt = text
	st.Edited = true
	return nil
}

// ResetPrompt re-derives a prompt from the current research, discarding
// user edits.
func (c *Controller) ResetPrompt(step Step) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, err := c.promptState(step)
	if err != nil {
		return err
	}
	st.Prompt = c.derive(step)
	st.Edited = false
	st.UpstreamChanged = false
	return nil
}

// DerivedPrompt returns the prompt the templates produce for step from the
// current research, ignoring user edits.
func (c *Controller) DerivedPrompt(step Step) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.promptState(step); err != nil {
		return "", err
	}
	return c.derive(step), nil
}

// SetContentType selects the content type shown alongside a prompt. It does
// not change the prompt text.
func (c *Controller) SetContentType(step Step, ct template.ContentType) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, err := c.promptState(step)
	if err != nil {
		return err
	}
	st.ContentType = ct
	return nil
}

// ApplyProfile appends the content type annotation to the prompt. This is a
// user edit.
func (c *Controller) ApplyProfile(step Step) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, err := c.promptState(step)
	if err != nil {
		return err
	}
	ann := template.GetProfile(st.ContentType).Annotation()
	if strings.TrimSpace(st.Prompt) == "" {
		st.Prompt = ann
	} else {
		st.Prompt = strings.TrimRight(st.Prompt, "\n") + "\n\n" + ann
	}
	st.Edited = true
	return nil
}

// Generate runs the generator on the Analysis prompt. Only one generation
// runs at a time. On failure the previous result is kept.
func (c *Controller) Generate(ctx context.Context) (generator.Result, error) {
	c.mu.Lock()
	if c.step != StepAnalysis {
		step := c.step
		c.mu.Unlock()
		return generator.Result{}, fmt.Errorf("cannot generate on %s step: %w", step, ErrInvalidTransition)
	}
	if c.generating {
		c.mu.Unlock()
		return generator.Result{}, ErrGenerationInFlight
	}
	prompt := c.prompts[StepAnalysis].Prompt
	if strings.TrimSpace(prompt) == "" {
		c.mu.Unlock()
		return generator.Result{}, fmt.Errorf("analysis prompt is empty: %w", ErrMissingPrerequisite)
	}
	model := c.wctx.Model

	genCtx, cancel := context.WithCancel(ctx)
	c.generating = true
	c.cancel = cancel
	c.genID++
	id := c.genID
	c.mu.Unlock()

	logger.Info("Generating analysis with model %s", model.ID)
	res, err := c.gen.Generate(genCtx, prompt, model)
	cancel()

	c.mu.Lock()
	if id != c.genID {
		c.mu.Unlock()
		logger.Debug("Discarding result of cancelled generation")
		return generator.Result{}, ErrGenerationCancelled
	}
	c.generating = false
	c.cancel = nil

	ev := Event{Kind: EventGeneration, From: StepAnalysis, To: StepAnalysis}
	if err == nil && strings.TrimSpace(res.Text) == "" {
		err = errors.New("empty analysis")
	}
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrGenerationFailed, err)
		ev.Err = err
	} else {
		c.wctx.AnalysisPrompt = prompt
		c.wctx.AnalysisResult = &res
		c.wctx.Stale = false
	}
	ev.Context = c.wctx.clone()
	c.mu.Unlock()

	if err != nil {
		logger.Error("Generation failed: %v", err)
	} else {
		logger.Info("Generated analysis (%d bytes)", len(res.Text))
	}
	c.notify(ev)
	return res, err
}

// Exported reports an export of the analysis to the observers. Exports never
// change the context.
func (c *Controller) Exported(target string, err error) {
	c.mu.Lock()
	ev := Event{Kind: EventExport, From: c.step, To: c.step, Context: c.wctx.clone(), Target: target, Err: err}
	c.mu.Unlock()
	c.notify(ev)
}

// derive renders the default prompt for step from the current context.
// Callers hold c.mu.
func (c *Controller) derive(step Step) string {
	if c.wctx.ResearchText == "" {
		return ""
	}
	switch step {
	case StepReview:
		return c.templates.ReviewPrompt(c.wctx.Keyword, c.wctx.ResearchText)
	case StepAnalysis:
		return c.templates.AnalysisPrompt(c.wctx.Keyword, c.wctx.ResearchText)
	}
	return ""
}

func (c *Controller) promptState(step Step) (*StepState, error) {
	if !hasPrompt(step) {
		return nil, fmt.Errorf("%s step has no prompt: %w", step, ErrInvalidTransition)
	}
	return c.prompts[step], nil
}

func (c *Controller) notify(ev Event) {
	for _, o := range c.observers {
		o.Observe(ev)
	}
}
