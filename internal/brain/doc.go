// Package brain provides an HTTP client for the Second Brain answering service.
//
// # Overview
//
// The service exposes a single endpoint. The client posts the user's question
// and hands the raw response body back to the caller; interpreting the body is
// the job of the answer package.
//
//	client := brain.NewClient("http://localhost:8000", brain.WithTimeout(time.Minute))
//	body, err := client.Query(ctx, brain.QueryRequest{Query: "what is RAG?"})
//
// # Request Format
//
//   - POST <base_url>/query
//   - Content-Type: application/json
//   - Body: {"query": "<question>"}
//   - X-Request-ID: caller supplied, or a fresh UUID
//
// The base URL is joined with the path as-is. It is never validated up front,
// so an empty or malformed base URL fails on the first request.
//
// # Error Handling
//
// Failures come back as one of two typed errors:
//
//   - *TransportError: no response was received (connection refused, DNS,
//     timeout, bad URL). Unwrap returns the underlying net/http error.
//   - *StatusError: a response arrived with a status outside 200-299. The body
//     is drained and discarded, never parsed.
//
// Example messages:
//   - "execute request: Post \"http://127.0.0.1:1/query\": dial tcp 127.0.0.1:1: connect: connection refused"
//   - "server returned status 500"
//
// # Design Rationale
//
//   - No retries (the user re-submits manually)
//   - No caching (every question hits the service)
//   - One request per call; concurrency control lives in the state package
package brain
