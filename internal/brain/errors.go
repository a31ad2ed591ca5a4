package brain

import "fmt"

// TransportError reports a request that never produced an HTTP response:
// DNS failures, refused connections, timeouts, or an unusable base URL.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError reports a response with a non-2xx status code.
type StatusError struct {
	StatusCode int
	Endpoint   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}
