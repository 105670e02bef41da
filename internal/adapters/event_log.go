package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"package-visibility/internal/types"
)

// EventLogAdapter appends one line per committed store mutation to a
// log file, giving operators a replayable record of install/remove
// traffic.
type EventLogAdapter struct {
	mu   sync.Mutex
	path string
}

func NewEventLogAdapter(path string) *EventLogAdapter {
	return &EventLogAdapter{path: path}
}

func (a *EventLogAdapter) Record(_ context.Context, event types.MutationEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(a.path), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create event log directory").
			WithCause(err)
	}
	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to open event log").
			WithCause(err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s %s %s generation=%d\n", event.ID, event.Op, event.Package, event.Generation)
	if _, err := f.WriteString(line); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to append event").
			WithCause(err)
	}
	return nil
}

// NopEventSink discards events; used when no event log is configured.
type NopEventSink struct{}

func (NopEventSink) Record(context.Context, types.MutationEvent) error {
	return nil
}
