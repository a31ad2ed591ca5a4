package answer

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/goccy/go-json"
)

// Shape identifies which response envelope produced an answer.
type Shape int

const (
	ShapeUnknown Shape = iota
	// ShapeAnswer is {"answer": X}.
	ShapeAnswer
	// ShapeNestedAnswer is {"response": {"answer": X}}.
	ShapeNestedAnswer
	// ShapeResponseString is {"response": "X"}.
	ShapeResponseString
	// ShapeBareString is a JSON string body: "X".
	ShapeBareString
)

func (s Shape) String() string {
	switch s {
	case ShapeAnswer:
		return "answer"
	case ShapeNestedAnswer:
		return "response.answer"
	case ShapeResponseString:
		return "response"
	case ShapeBareString:
		return "string"
	default:
		return "unknown"
	}
}

// FormatMessage is the user-visible text for payloads that match no shape.
const FormatMessage = "unexpected response format"

// FormatError reports a body that could not be resolved into an answer.
type FormatError struct {
	Cause error
}

func (e *FormatError) Error() string {
	return FormatMessage
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}

// Payload is a response body resolved into one of the accepted shapes.
type Payload struct {
	Shape Shape
	Value any
}

// Text returns the answer to display. Strings are returned unchanged; any
// other accepted value is rendered as compact JSON.
func (p Payload) Text() string {
	if s, ok := p.Value.(string); ok {
		return s
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p.Value); err != nil {
		return ""
	}
	return strings.TrimRight(buf.String(), "\n")
}

// Normalize decodes raw and returns the answer text.
func Normalize(raw []byte) (string, error) {
	payload, err := Decode(raw)
	if err != nil {
		return "", err
	}
	return payload.Text(), nil
}

// Decode parses a response body and resolves its shape. Bodies that are not a
// single JSON value yield a *FormatError wrapping the decode failure.
func Decode(raw []byte) (Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return Payload{}, &FormatError{Cause: err}
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("trailing data after JSON value")
		}
		return Payload{}, &FormatError{Cause: err}
	}
	return FromValue(value)
}

// FromValue resolves an already decoded JSON value. The first matching shape
// wins, in the order answer, response.answer, response string, bare string.
func FromValue(value any) (Payload, error) {
	if obj, ok := value.(map[string]any); ok {
		if v, ok := obj["answer"]; ok && present(v) {
			return Payload{Shape: ShapeAnswer, Value: v}, nil
		}
		switch resp := obj["response"].(type) {
		case map[string]any:
			if v, ok := resp["answer"]; ok && present(v) {
				return Payload{Shape: ShapeNestedAnswer, Value: v}, nil
			}
		case string:
			if resp != "" {
				return Payload{Shape: ShapeResponseString, Value: resp}, nil
			}
		}
		return Payload{}, &FormatError{}
	}

	if s, ok := value.(string); ok && s != "" {
		return Payload{Shape: ShapeBareString, Value: s}, nil
	}
	return Payload{}, &FormatError{}
}

// present reports whether a field counts as set: not null, false, zero or "".
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return true
		}
		return f != 0
	case float64:
		return t != 0
	default:
		return true
	}
}
