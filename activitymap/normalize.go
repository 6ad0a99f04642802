// Package activitymap turns session activity events into a flat record for
// audit logs and downstream systems.
package activitymap

import (
	"strings"
	"time"

	"github.com/bizzai/go-session"
)

const (
	// MetadataKeyFromState stores the state the session left.
	MetadataKeyFromState = "from_state"
	// MetadataKeyToState stores the state the session entered.
	MetadataKeyToState = "to_state"
)

const (
	defaultChannel    = "session"
	defaultObjectType = "session"
	defaultActorID    = "anonymous"
)

// Normalized is a transport-agnostic activity shape for downstream systems.
type Normalized struct {
	ActorID    string         `json:"actor_id"`
	Verb       string         `json:"verb"`
	ObjectType string         `json:"object_type,omitempty"`
	ObjectID   string         `json:"object_id,omitempty"`
	Channel    string         `json:"channel,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Option customizes normalization behavior.
type Option func(*normalizeOptions)

type normalizeOptions struct {
	channel          string
	objectType       string
	actorFallback    string
	objectIDResolver func(session.ActivityEvent) string
	redact           []string
}

// Normalize converts a session.ActivityEvent into the normalized shape.
func Normalize(event session.ActivityEvent, opts ...Option) Normalized {
	options := buildOptions(opts)

	actorID := firstNonEmpty(
		strings.TrimSpace(event.UserID),
		options.actorFallback,
	)

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	return Normalized{
		ActorID:    actorID,
		Verb:       string(event.EventType),
		ObjectType: options.objectType,
		ObjectID:   resolveObjectID(event, options.objectIDResolver),
		Channel:    options.channel,
		Metadata:   normalizeMetadata(event, options.redact),
		OccurredAt: occurredAt,
	}
}

// WithDefaultChannel sets the default channel for normalized records.
func WithDefaultChannel(channel string) Option {
	return func(opts *normalizeOptions) {
		opts.channel = strings.TrimSpace(channel)
	}
}

// WithDefaultObjectType sets the default object type for normalized records.
func WithDefaultObjectType(objectType string) Option {
	return func(opts *normalizeOptions) {
		opts.objectType = strings.TrimSpace(objectType)
	}
}

// WithObjectIDResolver overrides object-id extraction from ActivityEvent.
func WithObjectIDResolver(resolver func(session.ActivityEvent) string) Option {
	return func(opts *normalizeOptions) {
		opts.objectIDResolver = resolver
	}
}

// WithActorFallback sets the actor id used when the event has no user.
func WithActorFallback(actorID string) Option {
	return func(opts *normalizeOptions) {
		opts.actorFallback = strings.TrimSpace(actorID)
	}
}

// WithRedactedKeys removes metadata keys from the record, e.g. "email".
func WithRedactedKeys(keys ...string) Option {
	return func(opts *normalizeOptions) {
		opts.redact = append(opts.redact, keys...)
	}
}

func buildOptions(opts []Option) normalizeOptions {
	options := normalizeOptions{
		channel:       defaultChannel,
		objectType:    defaultObjectType,
		actorFallback: defaultActorID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	return options
}

func resolveObjectID(event session.ActivityEvent, resolver func(session.ActivityEvent) string) string {
	if resolver != nil {
		return strings.TrimSpace(resolver(event))
	}
	return strings.TrimSpace(event.UserID)
}

func normalizeMetadata(event session.ActivityEvent, redact []string) map[string]any {
	metadata := cloneMap(event.Metadata)
	for _, key := range redact {
		delete(metadata, key)
	}

	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata[MetadataKeyFromState] = event.From.String()
	metadata[MetadataKeyToState] = event.To.String()

	return metadata
}

func cloneMap(in map[string]any) map[string]any {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
