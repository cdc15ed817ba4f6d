// Package runlog keeps an append-only history of wizard runs in JetStream.
// Every transition, generation and export is stored as an event; a run's
// summary is rebuilt by replaying its events.
package runlog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/mark3labs/stylewiz/internal/logger"
	"github.com/mark3labs/stylewiz/internal/nats"
)

// Event is a single entry in the run history.
type Event struct {
	ID        string          `json:"id"`        // stream sequence when not set by the publisher
	Timestamp time.Time       `json:"timestamp"` // when the event occurred
	Run       string          `json:"run"`       // run ID
	Type      string          `json:"type"`      // step, generation, export, run
	Action    string          `json:"action"`    // advance, back, restore, success, failure, start, ...
	Meta      json.RawMessage `json:"meta"`      // action-specific metadata
	Data      string          `json:"data"`      // primary content (keyword, analysis text, export target)
}

// Store publishes and replays run events.
type Store struct {
	js     jetstream.JetStream
	stream jetstream.Stream
}

// NewStore creates a Store on the given JetStream context and stream.
func NewStore(js jetstream.JetStream, stream jetstream.Stream) *Store {
	return &Store{js: js, stream: stream}
}

// PublishEvent appends an event to the run history on
// stylewiz.runs.{run}.{type}.
func (s *Store) PublishEvent(ctx context.Context, event Event) (*jetstream.PubAck, error) {
	if event.Run == "" {
		return nil, fmt.Errorf("event has no run ID")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := nats.SubjectForEvent(event.Run, event.Type)
	logger.Debug("Publishing event: run=%s type=%s action=%s", event.Run, event.Type, event.Action)

	ack, err := s.js.Publish(ctx, subject, data)
	if err != nil {
		logger.Error("Failed to publish event to subject %s: %v", subject, err)
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}
	return ack, nil
}

// Events replays every event matching filter in stream order.
func (s *Store) Events(ctx context.Context, filter string) ([]Event, error) {
	consumer, err := nats.CreateConsumer(ctx, s.stream, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	info, err := s.stream.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read stream info: %w", err)
	}
	if info.State.Msgs == 0 {
		return nil, nil
	}

	const batchSize = 500
	var events []Event
	malformed := 0
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			break
		}

		count := 0
		var lastSeq uint64
		for msg := range msgs.Messages() {
			count++
			meta, _ := msg.Metadata()
			if meta != nil {
				lastSeq = meta.Sequence.Stream
			}

			var event Event
			if err := json.Unmarshal(msg.Data(), &event); err != nil {
				malformed++
				logger.Warn("Skipping malformed event (seq=%d): %v", lastSeq, err)
				continue
			}
			if event.ID == "" {
				event.ID = strconv.FormatUint(lastSeq, 10)
			}
			events = append(events, event)
		}

		if count < batchSize || lastSeq >= info.State.LastSeq {
			break
		}
	}

	if malformed > 0 {
		logger.Warn("Skipped %d malformed events", malformed)
	}
	return events, nil
}

// LoadRun rebuilds the summary of one run.
func (s *Store) LoadRun(ctx context.Context, run string) (*Run, error) {
	events, err := s.Events(ctx, nats.SubjectForRun(run))
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("run %q not found", run)
	}

	r := &Run{ID: run}
	for _, ev := range events {
		r.Apply(ev)
	}
	logger.Debug("Loaded run %s from %d events", run, len(events))
	return r, nil
}

// ListRuns summarizes every run in the history, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]*Run, error) {
	events, err := s.Events(ctx, nats.SubjectAllRuns)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*Run)
	for _, ev := range events {
		r, ok := byID[ev.Run]
		if !ok {
			r = &Run{ID: ev.Run}
			byID[ev.Run] = r
		}
		r.Apply(ev)
	}

	runs := make([]*Run, 0, len(byID))
	for _, r := range byID {
		runs = append(runs, r)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].UpdatedAt.Equal(runs[j].UpdatedAt) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].UpdatedAt.After(runs[j].UpdatedAt)
	})
	return runs, nil
}

// Run is the reduced state of one wizard run.
type Run struct {
	ID          string    `json:"id"`
	Keyword     string    `json:"keyword"`
	Model       string    `json:"model"`
	Step        string    `json:"step"`
	StartedAt   time.Time `json:"started_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Generations int       `json:"generations"`
	Failures    int       `json:"failures"`
	Analysis    string    `json:"analysis,omitempty"`
	Exports     []string  `json:"exports,omitempty"`
	Complete    bool      `json:"complete"`
}

// stepMeta is the metadata of step events.
type stepMeta struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Model string `json:"model,omitempty"`
}

// Apply applies an event to the run, implementing the reduce pattern.
func (r *Run) Apply(event Event) {
	if r.StartedAt.IsZero() || event.Timestamp.Before(r.StartedAt) {
		r.StartedAt = event.Timestamp
	}
	if event.Timestamp.After(r.UpdatedAt) {
		r.UpdatedAt = event.Timestamp
	}

	switch event.Type {
	case nats.EventTypeRun:
		if event.Action == "start" && event.Data != "" {
			r.Keyword = event.Data
		}
	case nats.EventTypeStep:
		var meta stepMeta
		_ = json.Unmarshal(event.Meta, &meta)
		r.Step = meta.To
		if meta.Model != "" {
			r.Model = meta.Model
		}
		if event.Data != "" {
			r.Keyword = event.Data
		}
		r.Complete = meta.To == "done"
	case nats.EventTypeGeneration:
		switch event.Action {
		case "success":
			r.Generations++
			r.Analysis = event.Data
		case "failure":
			r.Failures++
		}
	case nats.EventTypeExport:
		if event.Action == "success" {
			r.Exports = append(r.Exports, event.Data)
		}
	}
}

// Summary is a one-line description for listings.
func (r *Run) Summary() string {
	var parts []string
	if r.Keyword != "" {
		parts = append(parts, fmt.Sprintf("%q", r.Keyword))
	}
	if r.Step != "" {
		parts = append(parts, "step="+r.Step)
	}
	if r.Model != "" {
		parts = append(parts, "model="+r.Model)
	}
	parts = append(parts, fmt.Sprintf("generations=%d", r.Generations))
	if len(r.Exports) > 0 {
		parts = append(parts, fmt.Sprintf("exports=%d", len(r.Exports)))
	}
	return strings.Join(parts, " ")
}
