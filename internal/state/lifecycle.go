package state

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/five82/secondbrain/internal/answer"
	"github.com/five82/secondbrain/internal/brain"
)

// Lifecycle owns the request state machine: Idle -> Loading -> Success|Error.
// At most one request is in flight; Submit calls made while Loading are
// ignored.
type Lifecycle struct {
	querier brain.Querier
	logger  *slog.Logger
	newID   func() string

	mu      sync.Mutex
	state   State
	version uint64
	subs    []subscriber
	nextSub int
}

type subscriber struct {
	id int
	fn func(State)
}

// Option customizes a Lifecycle.
type Option func(*Lifecycle)

// WithLogger sets the logger used for submission events.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Lifecycle) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithRequestIDs overrides request ID generation.
func WithRequestIDs(next func() string) Option {
	return func(l *Lifecycle) {
		if next != nil {
			l.newID = next
		}
	}
}

// New returns an Idle lifecycle that submits through q.
func New(q brain.Querier, opts ...Option) *Lifecycle {
	l := &Lifecycle{
		querier: q,
		logger:  slog.Default(),
		newID:   uuid.NewString,
		state:   Idle(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Subscribe registers fn to be called with every new state. fn runs on the
// goroutine that caused the transition and must not block for long; a Reset
// racing the end of a Submit may deliver out of order, so compare
// State.Version. The returned func removes the subscription.
func (l *Lifecycle) Subscribe(fn func(State)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	l.mu.Lock()
	l.nextSub++
	id := l.nextSub
	l.subs = append(l.subs, subscriber{id: id, fn: fn})
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			for i, s := range l.subs {
				if s.id == id {
					l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Submit sends the trimmed text to the service and blocks until the request
// settles. It returns false without side effects when the trimmed text is
// empty or a request is already in flight.
func (l *Lifecycle) Submit(ctx context.Context, text string) bool {
	query := strings.TrimSpace(text)
	if query == "" {
		return false
	}

	l.mu.Lock()
	if l.state.IsLoading() {
		l.mu.Unlock()
		return false
	}
	requestID := l.newID()
	l.transitionLocked(Loading(query, requestID))

	l.logger.Info("query_submitted", "request_id", requestID, "chars", len(query))
	start := time.Now()

	next := l.resolve(ctx, query, requestID)
	elapsed := time.Since(start).Round(time.Millisecond)
	if next.Failed() {
		attrs := []any{"request_id", requestID, "kind", next.ErrorKind().String(), "elapsed", elapsed, "error", next.Err()}
		var statusErr *brain.StatusError
		if errors.As(next.Err(), &statusErr) {
			attrs = append(attrs, "status", statusErr.StatusCode)
		}
		l.logger.Warn("query_failed", attrs...)
	} else {
		l.logger.Info("query_answered", "request_id", requestID, "elapsed", elapsed, "chars", len(next.Answer()))
	}

	l.mu.Lock()
	l.transitionLocked(next)
	return true
}

// Reset returns a settled lifecycle to Idle. It does nothing while a request
// is in flight or when already Idle.
func (l *Lifecycle) Reset() bool {
	l.mu.Lock()
	if !l.state.Settled() {
		l.mu.Unlock()
		return false
	}
	l.transitionLocked(Idle())
	return true
}

func (l *Lifecycle) resolve(ctx context.Context, query, requestID string) State {
	if l.querier == nil {
		return Failure(query, requestID, errors.New("no service client configured"))
	}
	body, err := l.querier.Query(ctx, brain.QueryRequest{Query: query, RequestID: requestID})
	if err != nil {
		return Failure(query, requestID, err)
	}
	payload, err := answer.Decode(body)
	if err != nil {
		return Failure(query, requestID, err)
	}
	text := payload.Text()
	if text == "" {
		return Failure(query, requestID, &answer.FormatError{})
	}
	l.logger.Debug("response_shape", "request_id", requestID, "shape", payload.Shape.String())
	return Success(query, requestID, text)
}

// transitionLocked stores next, releases l.mu and notifies subscribers.
// Callers must hold l.mu.
func (l *Lifecycle) transitionLocked(next State) {
	l.version++
	next.version = l.version
	l.state = next
	subs := make([]func(State), len(l.subs))
	for i, s := range l.subs {
		subs[i] = s.fn
	}
	l.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}
