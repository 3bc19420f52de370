package eventmock

import (
	"context"
	"sync"

	"realestate-backend/internal/domain/event"
)

var _ event.Publisher = (*Recorder)(nil)

// Recorder keeps every published event; Err, when set, is returned from Publish.
type Recorder struct {
	mu     sync.Mutex
	Events []event.Event
	Err    error
}

func (r *Recorder) Publish(_ context.Context, e event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, e)
	return r.Err
}

// Count returns how many events of type kind were published.
func (r *Recorder) Count(kind string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.Events {
		if e.Type == kind {
			n++
		}
	}
	return n
}
