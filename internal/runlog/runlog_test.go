package runlog

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/stylewiz/internal/generator"
	"github.com/mark3labs/stylewiz/internal/nats"
	"github.com/mark3labs/stylewiz/internal/research"
	"github.com/mark3labs/stylewiz/internal/wizard"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	bus, err := nats.Open(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = bus.Close() })
	return NewStore(bus.JetStream, bus.Stream)
}

func TestNewRunID(t *testing.T) {
	id := NewRunID("Go Generics: A Guide")
	assert.Regexp(t, regexp.MustCompile(`^go-generics-a-guide-[0-9a-f]{8}$`), id)

	assert.Regexp(t, regexp.MustCompile(`^run-[0-9a-f]{8}$`), NewRunID(""))
	assert.NotEqual(t, NewRunID("kw"), NewRunID("kw"))
}

func TestPublishRequiresRun(t *testing.T) {
	store := setupStore(t)
	_, err := store.PublishEvent(context.Background(), Event{Type: nats.EventTypeStep})
	assert.Error(t, err)
}

func TestLoadRunNotFound(t *testing.T) {
	store := setupStore(t)
	_, err := store.LoadRun(context.Background(), "missing")
	assert.Error(t, err)
}

func TestRunApply(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	meta, _ := json.Marshal(stepMeta{From: "analysis", To: "done", Model: "m1"})

	r := &Run{ID: "r"}
	r.Apply(Event{Timestamp: t0, Type: nats.EventTypeRun, Action: "start", Data: "kw"})
	r.Apply(Event{Timestamp: t0.Add(time.Minute), Type: nats.EventTypeGeneration, Action: "failure"})
	r.Apply(Event{Timestamp: t0.Add(2 * time.Minute), Type: nats.EventTypeGeneration, Action: "success", Data: "analysis"})
	r.Apply(Event{Timestamp: t0.Add(3 * time.Minute), Type: nats.EventTypeExport, Action: "success", Data: "kw.md"})
	r.Apply(Event{Timestamp: t0.Add(3 * time.Minute), Type: nats.EventTypeExport, Action: "failure", Data: "clipboard"})
	r.Apply(Event{Timestamp: t0.Add(4 * time.Minute), Type: nats.EventTypeStep, Action: "advance", Meta: meta, Data: "kw"})

	assert.Equal(t, "kw", r.Keyword)
	assert.Equal(t, "m1", r.Model)
	assert.Equal(t, "done", r.Step)
	assert.True(t, r.Complete)
	assert.Equal(t, 1, r.Generations)
	assert.Equal(t, 1, r.Failures)
	assert.Equal(t, "analysis", r.Analysis)
	assert.Equal(t, []string{"kw.md"}, r.Exports)
	assert.Equal(t, t0, r.StartedAt)
	assert.Equal(t, t0.Add(4*time.Minute), r.UpdatedAt)
	assert.Equal(t, `"kw" step=done model=m1 generations=1 exports=1`, r.Summary())
}

func TestRecorderRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	rec := NewRecorder(store, "run-1", "")
	c := wizard.New(&generator.Stub{Delay: -1, Text: "the analysis"}, wizard.WithObserver(rec))

	require.NoError(t, c.Advance(wizard.ConfigOutput{Model: generator.ModelConfig{ID: "model-x"}}))
	require.NoError(t, c.Advance(wizard.SearchOutput{Results: []research.SearchResult{
		{Title: "A", URL: "u1", Snippet: "s1", SearchKeyword: "kw"},
	}}))
	require.NoError(t, c.Advance(wizard.ReviewOutput{}))
	_, err := c.Generate(ctx)
	require.NoError(t, err)
	c.Exported("kw.md", nil)
	c.Exported("clipboard", errors.New("no clipboard"))
	require.NoError(t, c.Back())

	run, err := store.LoadRun(ctx, rec.Run())
	require.NoError(t, err)
	assert.Equal(t, "kw", run.Keyword)
	assert.Equal(t, "model-x", run.Model)
	assert.Equal(t, "review", run.Step)
	assert.Equal(t, 1, run.Generations)
	assert.Equal(t, "the analysis", run.Analysis)
	assert.Equal(t, []string{"kw.md"}, run.Exports)
	assert.False(t, run.Complete)

	events, err := store.Events(ctx, nats.SubjectForRun(rec.Run()))
	require.NoError(t, err)
	require.Len(t, events, 8)
	assert.Equal(t, nats.EventTypeRun, events[0].Type)
	assert.Equal(t, "back", events[7].Action)
	assert.NotEmpty(t, events[0].ID)
}

func TestListRuns(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	t0 := time.Now().Add(-time.Hour)

	publish := func(run string, at time.Time, data string) {
		_, err := store.PublishEvent(ctx, Event{Run: run, Timestamp: at, Type: nats.EventTypeRun, Action: "start", Data: data})
		require.NoError(t, err)
	}
	publish("older", t0, "first")
	publish("newer", t0.Add(time.Minute), "second")

	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "newer", runs[0].ID)
	assert.Equal(t, "second", runs[0].Keyword)
	assert.Equal(t, "older", runs[1].ID)
}

func TestListRunsEmpty(t *testing.T) {
	store := setupStore(t)
	runs, err := store.ListRuns(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs)
}

type failingPublisher struct{ calls int }

func (f *failingPublisher) PublishEvent(ctx context.Context, event Event) (*jetstream.PubAck, error) {
	f.calls++
	return nil, errors.New("unavailable")
}

func TestRecorderToleratesPublishErrors(t *testing.T) {
	pub := &failingPublisher{}
	rec := NewRecorder(pub, "r", "kw")
	rec.Observe(wizard.Event{Kind: wizard.EventExport, Target: "x.md"})
	assert.Equal(t, 2, pub.calls)
}
