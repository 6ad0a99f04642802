package session

import (
	"context"
	"time"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventRestored      ActivityEventType = "session.restored"
	ActivityEventRestoreFailed ActivityEventType = "session.restore.failed"
	ActivityEventSignUpSuccess ActivityEventType = "auth.signup.success"
	ActivityEventSignUpFailure ActivityEventType = "auth.signup.failure"
	ActivityEventSignInSuccess ActivityEventType = "auth.signin.success"
	ActivityEventSignInFailure ActivityEventType = "auth.signin.failure"
	ActivityEventSignedOut     ActivityEventType = "session.signed_out"
)

// ActivityEvent describes a session lifecycle change.
type ActivityEvent struct {
	EventType  ActivityEventType
	UserID     string
	From       State
	To         State
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

// ActivitySinks fans an event out to every sink, returning the first error.
type ActivitySinks []ActivitySink

// Record implements ActivitySink.
func (s ActivitySinks) Record(ctx context.Context, event ActivityEvent) error {
	var first error
	for _, sink := range s {
		if sink == nil {
			continue
		}
		if err := sink.Record(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}
