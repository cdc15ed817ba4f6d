package generator

import (
	"context"
	"time"
)

// DefaultStubDelay is how long the stub pretends to think.
const DefaultStubDelay = 2 * time.Second

// StubText is the placeholder analysis returned by Stub.
const StubText = `# Writing Style Analysis

This is a placeholder analysis. Configure an HTTP generator to produce a real
writing style report from the collected research.

## Tone
- Not analyzed

## Structure
- Not analyzed

## Vocabulary
- Not analyzed
`

// Stub waits for Delay and returns a fixed analysis. A zero Delay uses
// DefaultStubDelay; a negative Delay returns immediately.
type Stub struct {
	Delay time.Duration
	// Text overrides StubText when set.
	Text string
	// FailWith makes every call fail with this error after the delay.
	FailWith error
}

// Generate implements Generator.
func (s *Stub) Generate(ctx context.Context, prompt string, model ModelConfig) (Result, error) {
	delay := s.Delay
	if delay == 0 {
		delay = DefaultStubDelay
	}

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if s.FailWith != nil {
		return Result{}, s.FailWith
	}

	text := s.Text
	if text == "" {
		text = StubText
	}
	return Result{Text: text}, nil
}
