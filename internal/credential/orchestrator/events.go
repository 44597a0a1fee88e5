package orchestrator

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Stage names one step of the issuance pipeline.
type Stage string

const (
	StageCreateIdentity   Stage = "create_identity"
	StageCreateCredential Stage = "create_credential"
	StagePublishState     Stage = "publish_state"
	StageFetchCredential  Stage = "fetch_credential"
)

// Outcome is the result of a stage transition.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// StageEvent is emitted once per pipeline transition for observability.
// It carries no payloads or secrets, only stage, outcome and timing.
type StageEvent struct {
	Stage     Stage
	Outcome   Outcome
	ElapsedMS int64
	Detail    string
	At        time.Time
}

// Sink consumes stage events. The consumer is an external observability
// collaborator; implementations must not block issuance.
type Sink interface {
	Emit(ctx context.Context, event StageEvent)
}

// LogSink writes stage events to the structured log.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a sink over the given logger.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Emit logs one stage event.
func (s *LogSink) Emit(_ context.Context, event StageEvent) {
	s.logger.Info("issuance stage",
		"stage", string(event.Stage),
		"outcome", string(event.Outcome),
		"elapsed_ms", event.ElapsedMS,
		"detail", event.Detail,
	)
}

// AsyncSink decouples event consumers from the issuance path with a buffered
// channel drained by a background goroutine. Events are dropped when the
// buffer is full rather than stalling issuance.
type AsyncSink struct {
	inner  Sink
	events chan StageEvent
	wg     sync.WaitGroup
	logger *slog.Logger
}

// NewAsyncSink wraps inner with an async buffer of the given size.
func NewAsyncSink(inner Sink, size int, logger *slog.Logger) *AsyncSink {
	if size <= 0 {
		size = 64
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &AsyncSink{
		inner:  inner,
		events: make(chan StageEvent, size),
		logger: logger,
	}
	s.wg.Add(1)
	go s.drain()
	return s
}

func (s *AsyncSink) drain() {
	defer s.wg.Done()
	for event := range s.events {
		s.inner.Emit(context.Background(), event)
	}
}

// Emit queues the event, dropping it when the buffer is full.
func (s *AsyncSink) Emit(_ context.Context, event StageEvent) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("stage event dropped, buffer full",
			"stage", string(event.Stage),
		)
	}
}

// Close stops the sink and waits for queued events to drain.
func (s *AsyncSink) Close() {
	close(s.events)
	s.wg.Wait()
}
