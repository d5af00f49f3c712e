package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
)

// Event is one audit record.
type Event struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource,omitempty"`
	ResourceID string         `json:"resource_id,omitempty"`
	Actor      string         `json:"actor,omitempty"`
	TenantID   string         `json:"tenant_id,omitempty"`
	Result     Result         `json:"result"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	IP         string         `json:"ip,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (e Event) validate() error {
	if e.Action == "" {
		return ErrActionRequired
	}
	return nil
}

// Storage persists events.
type Storage interface {
	Store(ctx context.Context, e Event) error
}

// StorageFunc adapts a function to Storage.
type StorageFunc func(ctx context.Context, e Event) error

func (f StorageFunc) Store(ctx context.Context, e Event) error { return f(ctx, e) }

// EventOption decorates an event before it is stored.
type EventOption func(*Event)

func WithResource(resource, id string) EventOption {
	return func(e *Event) {
		e.Resource = resource
		e.ResourceID = id
	}
}

func WithMetadata(key string, value any) EventOption {
	return func(e *Event) {
		if e.Metadata == nil {
			e.Metadata = make(map[string]any)
		}
		e.Metadata[key] = value
	}
}

// Extractor pulls one event field out of a request context.
type Extractor func(ctx context.Context) (string, bool)

type Option func(*Logger)

func WithActorExtractor(fn Extractor) Option {
	return func(l *Logger) { l.actor = fn }
}

func WithTenantIDExtractor(fn Extractor) Option {
	return func(l *Logger) { l.tenantID = fn }
}

func WithRequestIDExtractor(fn Extractor) Option {
	return func(l *Logger) { l.requestID = fn }
}

func WithIPExtractor(fn Extractor) Option {
	return func(l *Logger) { l.ip = fn }
}

// Logger builds events from a context and hands them to a Storage.
type Logger struct {
	storage   Storage
	actor     Extractor
	tenantID  Extractor
	requestID Extractor
	ip        Extractor
	now       func() time.Time
}

// NewLogger panics on a nil storage.
func NewLogger(storage Storage, opts ...Option) *Logger {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}
	l := &Logger{storage: storage, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Log records a successful action.
func (l *Logger) Log(ctx context.Context, action string, opts ...EventOption) error {
	return l.store(ctx, l.event(ctx, action, ResultSuccess), opts)
}

// LogError records an action that failed with err.
func (l *Logger) LogError(ctx context.Context, action string, err error, opts ...EventOption) error {
	e := l.event(ctx, action, ResultFailure)
	if err != nil {
		e.Error = err.Error()
	}
	return l.store(ctx, e, opts)
}

func (l *Logger) event(ctx context.Context, action string, res Result) Event {
	e := Event{Action: action, Result: res, CreatedAt: l.now().UTC()}
	if id, err := uuid.NewV7(); err == nil {
		e.ID = id.String()
	} else {
		e.ID = uuid.NewString()
	}

	for _, f := range []struct {
		fn  Extractor
		dst *string
	}{
		{l.actor, &e.Actor},
		{l.tenantID, &e.TenantID},
		{l.requestID, &e.RequestID},
		{l.ip, &e.IP},
	} {
		if f.fn == nil {
			continue
		}
		if v, ok := f.fn(ctx); ok {
			*f.dst = v
		}
	}
	return e
}

func (l *Logger) store(ctx context.Context, e Event, opts []EventOption) error {
	for _, opt := range opts {
		opt(&e)
	}
	if err := e.validate(); err != nil {
		return err
	}
	if err := l.storage.Store(ctx, e); err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}
