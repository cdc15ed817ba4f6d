package runlog

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mark3labs/stylewiz/internal/logger"
	"github.com/mark3labs/stylewiz/internal/nats"
	"github.com/mark3labs/stylewiz/internal/wizard"
)

const publishTimeout = 2 * time.Second

// Publisher is the part of Store the Recorder needs.
type Publisher interface {
	PublishEvent(ctx context.Context, event Event) (*jetstream.PubAck, error)
}

// NewRunID returns a unique run ID usable as a subject token. A non-empty
// hint (usually the keyword) is slugged into the prefix.
func NewRunID(hint string) string {
	short := uuid.NewString()[:8]
	prefix := slug.Make(hint)
	if len(prefix) > 40 {
		prefix = strings.TrimRight(prefix[:40], "-")
	}
	if prefix == "" {
		prefix = "run"
	}
	return prefix + "-" + short
}

// Recorder records wizard events for one run. It implements wizard.Observer.
type Recorder struct {
	pub Publisher
	run string
}

// NewRecorder creates a Recorder for run and records its start.
func NewRecorder(pub Publisher, run, keyword string) *Recorder {
	r := &Recorder{pub: pub, run: run}
	r.publish(Event{Type: nats.EventTypeRun, Action: "start", Data: keyword})
	return r
}

// Run returns the run ID.
func (r *Recorder) Run() string {
	return r.run
}

// Observe implements wizard.Observer.
func (r *Recorder) Observe(ev wizard.Event) {
	switch ev.Kind {
	case wizard.EventStep, wizard.EventRestore:
		action := "advance"
		if ev.Kind == wizard.EventRestore {
			action = "restore"
		} else if ev.To < ev.From {
			action = "back"
		}
		meta, _ := json.Marshal(stepMeta{From: ev.From.String(), To: ev.To.String(), Model: ev.Context.Model.ID})
		r.publish(Event{Type: nats.EventTypeStep, Action: action, Meta: meta, Data: ev.Context.Keyword})

	case wizard.EventGeneration:
		if ev.Err != nil {
			meta, _ := json.Marshal(map[string]string{"error": ev.Err.Error()})
			r.publish(Event{Type: nats.EventTypeGeneration, Action: "failure", Meta: meta})
			return
		}
		text := ""
		if ev.Context.AnalysisResult != nil {
			text = ev.Context.AnalysisResult.Text
		}
		r.publish(Event{Type: nats.EventTypeGeneration, Action: "success", Data: text})

	case wizard.EventExport:
		action := "success"
		var meta json.RawMessage
		if ev.Err != nil {
			action = "failure"
			meta, _ = json.Marshal(map[string]string{"error": ev.Err.Error()})
		}
		r.publish(Event{Type: nats.EventTypeExport, Action: action, Meta: meta, Data: ev.Target})
	}
}

func (r *Recorder) publish(ev Event) {
	if r.pub == nil {
		return
	}
	ev.Run = r.run
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if _, err := r.pub.PublishEvent(ctx, ev); err != nil {
		logger.Warn("Failed to record %s event for run %s: %v", ev.Type, r.run, err)
	}
}
