// Package state owns the request lifecycle for Second Brain queries.
//
// # Overview
//
// A Lifecycle moves through four phases:
//
//	        Submit               2xx + known shape
//	Idle ───────────> Loading ─────────────────────> Success(answer)
//	  ^                  │
//	  │                  │ transport failure / non-2xx / unknown shape
//	  │                  └─────────────────────────> Error(message)
//	  │                                                  │
//	  └──────────────── Reset (Success or Error) ────────┘
//
// Submitting from Success or Error goes straight back to Loading.
//
// # State Values
//
// State is an immutable value with unexported fields. The constructors Idle,
// Loading, Success and Failure are the only way to build one, so a state
// can never carry both an answer and an error:
//
//   - Answer() is non-empty only in PhaseSuccess
//   - Message() is non-empty only in PhaseError
//   - both are empty in PhaseIdle and PhaseLoading
//
// # Guards
//
// Submit is a no-op (returns false, no request, no transition) when:
//
//   - the trimmed text is empty
//   - a request is already in flight
//
// The Loading check and the move into Loading happen under one lock, so two
// goroutines racing to submit cannot both get through. There is no queue and
// no cancellation of the in-flight request.
//
// # Error Taxonomy
//
// Every failure ends in PhaseError with a single display message. Classify
// tells the kinds apart for logging and tests:
//
//   - KindTransport: *brain.TransportError (no response received)
//   - KindStatus:    *brain.StatusError (non-2xx, body ignored)
//   - KindFormat:    *answer.FormatError (body matched no known shape)
//
// # Observers
//
// Presentation code subscribes instead of polling:
//
//	cancel := lc.Subscribe(func(s state.State) {
//		program.Send(stateMsg(s))
//	})
//	defer cancel()
//
// Callbacks run outside the lifecycle lock on the goroutine that made the
// transition. Each State carries a Version so late deliveries can be
// dropped.
//
// # Usage Example
//
//	lc := state.New(brain.NewClient(cfg.BaseURL, brain.WithTimeout(cfg.Timeout)))
//	if lc.Submit(ctx, "  what is RAG?  ") {
//		s := lc.State()
//		if s.Succeeded() {
//			fmt.Println(s.Answer())
//		} else {
//			fmt.Fprintln(os.Stderr, s.Message())
//		}
//	}
package state
