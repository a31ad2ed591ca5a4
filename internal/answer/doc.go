// Package answer resolves loosely structured Second Brain responses into a
// single answer string.
//
// # Accepted Shapes
//
// The service has returned several envelopes over time. They are checked in
// a fixed order and the first match wins:
//
//  1. {"answer": X}
//  2. {"response": {"answer": X}}
//  3. {"response": "X"}
//  4. "X" (the body is a JSON string)
//
// Anything else is a *FormatError whose message is always
// "unexpected response format".
//
// # Presence Rules
//
// A field counts as present when it exists and is not null, false, 0 or the
// empty string. Presence alone gates acceptance for answer and
// response.answer: a number, boolean, object or array is accepted and
// Payload.Text renders it as compact JSON. Shapes 3 and 4 require a
// non-empty string.
//
// # Usage Example
//
//	text, err := answer.Normalize(body)
//	if err != nil {
//		var fe *answer.FormatError
//		if errors.As(err, &fe) {
//			// show "unexpected response format"
//		}
//	}
package answer
