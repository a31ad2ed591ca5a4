package state

import (
	"errors"
	"time"

	"github.com/five82/secondbrain/internal/answer"
	"github.com/five82/secondbrain/internal/brain"
)

// Phase is the active variant of a State.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// FallbackMessage is shown when a failure carries no description.
const FallbackMessage = "Failed to fetch response. Please try again."

// State is an immutable snapshot of the request lifecycle. Only the
// constructors below build one, so an answer and an error never coexist.
type State struct {
	phase     Phase
	query     string
	requestID string
	answer    string
	err       error
	at        time.Time
	version   uint64
}

// Idle is the state before any submission.
func Idle() State {
	return State{phase: PhaseIdle}
}

// Loading marks query as in flight.
func Loading(query, requestID string) State {
	return State{phase: PhaseLoading, query: query, requestID: requestID, at: time.Now()}
}

// Success records the answer for query.
func Success(query, requestID, text string) State {
	return State{phase: PhaseSuccess, query: query, requestID: requestID, answer: text, at: time.Now()}
}

// Failure records why query failed. A nil err is replaced with a generic one.
func Failure(query, requestID string, err error) State {
	if err == nil {
		err = errors.New(FallbackMessage)
	}
	return State{phase: PhaseError, query: query, requestID: requestID, err: err, at: time.Now()}
}

func (s State) Phase() Phase         { return s.phase }
func (s State) IsIdle() bool         { return s.phase == PhaseIdle }
func (s State) IsLoading() bool      { return s.phase == PhaseLoading }
func (s State) Query() string        { return s.query }
func (s State) RequestID() string    { return s.requestID }
func (s State) At() time.Time        { return s.at }
func (s State) Settled() bool        { return s.phase == PhaseSuccess || s.phase == PhaseError }
func (s State) Succeeded() bool      { return s.phase == PhaseSuccess }
func (s State) Failed() bool         { return s.phase == PhaseError }
func (s State) Answer() string       { return s.answer }
func (s State) Err() error           { return s.err }
func (s State) ErrorKind() ErrorKind { return Classify(s.err) }

// Version increases with every transition made by a Lifecycle. Observers can
// use it to drop notifications that arrive out of order.
func (s State) Version() uint64 { return s.version }

// Message returns the user-visible error text, or "" outside PhaseError.
func (s State) Message() string {
	if s.phase != PhaseError {
		return ""
	}
	if msg := s.err.Error(); msg != "" {
		return msg
	}
	return FallbackMessage
}

// ErrorKind distinguishes the three failure sources. Message stays the
// primary text shown to the user; the kind only selects a hint and a log attr.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindTransport
	KindStatus
	KindFormat
	KindUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindFormat:
		return "format"
	case KindUnknown:
		return "unknown"
	default:
		return "none"
	}
}

// Classify maps err onto the failure taxonomy.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var (
		transportErr *brain.TransportError
		statusErr    *brain.StatusError
		formatErr    *answer.FormatError
	)
	switch {
	case errors.As(err, &transportErr):
		return KindTransport
	case errors.As(err, &statusErr):
		return KindStatus
	case errors.As(err, &formatErr):
		return KindFormat
	default:
		return KindUnknown
	}
}
