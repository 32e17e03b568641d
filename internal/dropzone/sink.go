package dropzone

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/zinc-sig/dropsign/internal/webhook"
)

// Sink receives status transitions. Failure is called once, in addition to
// Transition, for each upload error status.
type Sink interface {
	Transition(ev Event)
	Failure(ev Event)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Transition(Event) {}
func (NopSink) Failure(Event)    {}

// LogSink writes events to a zerolog logger.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink creates a sink that logs transitions at info level and failure
// entries at error level.
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger.With().Str("component", "status").Logger()}
}

// Transition logs a status change, with progress and attempt when set.
func (s *LogSink) Transition(ev Event) {
	e := s.logger.Info().
		Str("file_id", ev.FileID).
		Str("file", ev.Name).
		Str("status", string(ev.Status))
	if ev.Percent != nil {
		e = e.Str("percent", ev.Percent.StringFixed(1))
	}
	if ev.Attempt > 0 {
		e = e.Int("attempt", ev.Attempt)
	}
	e.Msg("status changed")
}

// Failure logs the distinguished "upload error!" entry.
func (s *LogSink) Failure(ev Event) {
	s.logger.Error().
		Str("file_id", ev.FileID).
		Str("file", ev.Name).
		Str("status", string(ev.Status)).
		Str("error", ev.Error).
		Msg("upload error! " + string(ev.Status))
}

// WebhookSink forwards events to a webhook endpoint. With errorsOnly set,
// only failure entries are delivered. Events are queued and sent in order by
// one background goroutine; queueing never blocks. Delivery errors are logged
// and dropped, as are events that arrive while the queue is full.
type WebhookSink struct {
	client     *webhook.Client
	errorsOnly bool
	logger     zerolog.Logger

	mu     sync.Mutex
	closed bool
	queue  chan Event
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

// DefaultWebhookQueueSize is the number of events a WebhookSink buffers.
const DefaultWebhookQueueSize = 256

// NewWebhookSink creates a webhook sink and starts its delivery goroutine.
// Callers must Close it to flush queued events.
func NewWebhookSink(client *webhook.Client, errorsOnly bool, logger zerolog.Logger) *WebhookSink {
	ctx, cancel := context.WithCancel(context.Background())
	s := &WebhookSink{
		client:     client,
		errorsOnly: errorsOnly,
		logger:     logger.With().Str("component", "webhook-sink").Logger(),
		queue:      make(chan Event, DefaultWebhookQueueSize),
		done:       make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
	go s.run()
	return s
}

// Transition queues ev unless the sink only forwards failures.
func (s *WebhookSink) Transition(ev Event) {
	if !s.errorsOnly {
		s.enqueue(ev)
	}
}

// Failure queues ev when the sink only forwards failures. Otherwise the
// matching Transition already carried it.
func (s *WebhookSink) Failure(ev Event) {
	if s.errorsOnly {
		s.enqueue(ev)
	}
}

// Close stops accepting events and waits for the queue to drain. If ctx ends
// first, the in-flight delivery is cancelled, the rest of the queue is
// dropped, and ctx's error is returned.
func (s *WebhookSink) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		<-s.done
		return ctx.Err()
	}
}

func (s *WebhookSink) enqueue(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.logger.Warn().Str("file", ev.Name).Str("status", string(ev.Status)).Msg("webhook sink closed, dropping status event")
		return
	}

	select {
	case s.queue <- ev:
	default:
		s.logger.Warn().Str("file", ev.Name).Str("status", string(ev.Status)).Msg("webhook queue full, dropping status event")
	}
}

func (s *WebhookSink) run() {
	defer close(s.done)

	dropped := 0
	for ev := range s.queue {
		if s.ctx.Err() != nil {
			dropped++
			continue
		}
		if err := s.client.Send(s.ctx, ev); err != nil {
			s.logger.Warn().Err(err).Str("file", ev.Name).Str("status", string(ev.Status)).Msg("failed to deliver status event")
		}
	}

	if dropped > 0 {
		s.logger.Warn().Int("dropped", dropped).Msg("webhook sink closed before queue drained")
	}
}

// MultiSink fans events out to several sinks in order.
type MultiSink []Sink

// Transition forwards ev to every sink.
func (m MultiSink) Transition(ev Event) {
	for _, s := range m {
		s.Transition(ev)
	}
}

// Failure forwards ev to every sink.
func (m MultiSink) Failure(ev Event) {
	for _, s := range m {
		s.Failure(ev)
	}
}
