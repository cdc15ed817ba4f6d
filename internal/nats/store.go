package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	streamName = "stylewiz_runs"

	// Event types
	EventTypeStep       = "step"
	EventTypeGeneration = "generation"
	EventTypeExport     = "export"
	EventTypeRun        = "run"
)

// SubjectAllRuns matches every event of every run.
const SubjectAllRuns = "stylewiz.runs.>"

// SubjectForRun returns the wildcard subject pattern for all events in a run.
// Example: "stylewiz.runs.go-generics-1a2b3c.>"
func SubjectForRun(run string) string {
	return fmt.Sprintf("stylewiz.runs.%s.>", run)
}

// SubjectForEvent returns the specific subject for an event type in a run.
// Example: "stylewiz.runs.go-generics-1a2b3c.step"
func SubjectForEvent(run, eventType string) string {
	return fmt.Sprintf("stylewiz.runs.%s.%s", run, eventType)
}

// SetupStream creates or updates the JetStream stream holding run history,
// with 90-day retention.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{SubjectAllRuns},
		Storage:  jetstream.FileStorage,
		MaxAge:   90 * 24 * time.Hour,
	})
}

// CreateConsumer creates an ephemeral ordered consumer that replays every
// event matching filter from the beginning of the stream.
func CreateConsumer(ctx context.Context, stream jetstream.Stream, filter string) (jetstream.Consumer, error) {
	return stream.OrderedConsumer(ctx, jetstream.OrderedConsumerConfig{
		FilterSubjects: []string{filter},
		DeliverPolicy:  jetstream.DeliverAllPolicy,
	})
}
