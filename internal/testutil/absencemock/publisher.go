package absencemock

import (
	"context"
	"sync"

	domain "github.com/channor/open-manage/internal/domain/absence"
)

var _ domain.Publisher = (*Recorder)(nil)

// Recorder keeps every published event. Err, when set, is returned from Publish
// after the events are recorded.
type Recorder struct {
	mu     sync.Mutex
	events []domain.Event
	Err    error
}

func (r *Recorder) Publish(_ context.Context, events ...domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return r.Err
}

func (r *Recorder) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfType returns the recorded events with the given type.
func (r *Recorder) OfType(t domain.EventType) []domain.Event {
	var out []domain.Event
	for _, e := range r.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
