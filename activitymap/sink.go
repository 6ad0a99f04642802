package activitymap

import (
	"context"
	"io"
	"sync"

	"github.com/bizzai/go-session"
	"github.com/goccy/go-json"
)

// JSONLines writes every event as one normalized JSON document per line.
type JSONLines struct {
	mu   sync.Mutex
	w    io.Writer
	opts []Option
}

var _ session.ActivitySink = (*JSONLines)(nil)

// NewJSONLines returns a sink writing to w.
func NewJSONLines(w io.Writer, opts ...Option) *JSONLines {
	return &JSONLines{w: w, opts: opts}
}

// Record implements session.ActivitySink.
func (s *JSONLines) Record(_ context.Context, event session.ActivityEvent) error {
	raw, err := json.Marshal(Normalize(event, s.opts...))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.w.Write(append(raw, '\n'))
	return err
}
