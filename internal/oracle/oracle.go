// Package oracle defines the optional reasoning provider consulted by the
// decomposition and planning orchestrators, and the typed failures an
// attempt against it can produce.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ShayCichocki/flowplan/internal/api"
)

// Oracle answers one system + user prompt with text.
// This interface allows substituting fakes in tests.
type Oracle interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Verify Runner implements Oracle at compile time.
var _ Oracle = (*api.Runner)(nil)

// Kind classifies why an attempt produced no candidate.
type Kind string

const (
	// KindTransport covers network errors, timeouts and API errors.
	KindTransport Kind = "transport"
	// KindEmpty means the oracle answered with no usable text.
	KindEmpty Kind = "empty"
	// KindMalformed means the answer was not a JSON document.
	KindMalformed Kind = "malformed"
	// KindSchema means the JSON did not match the requested shape.
	KindSchema Kind = "schema"
)

// Failure is the result value of an attempt that produced no candidate.
type Failure struct {
	// Attempt names the attempt, e.g. "structured".
	Attempt string
	Kind    Kind
	Err     error
}

// Error implements error.
func (f *Failure) Error() string {
	return fmt.Sprintf("%s attempt: %s: %v", f.Attempt, f.Kind, f.Err)
}

// Unwrap returns the underlying cause.
func (f *Failure) Unwrap() error {
	return f.Err
}

// SchemaFailure builds a schema failure for semantic checks done by callers
// after decoding.
func SchemaFailure(attempt string, format string, args ...any) *Failure {
	return &Failure{Attempt: attempt, Kind: KindSchema, Err: fmt.Errorf(format, args...)}
}

// Join renders failures in attempt order for the advisory error field.
func Join(failures []*Failure) string {
	parts := make([]string, 0, len(failures))
	for _, f := range failures {
		if f != nil {
			parts = append(parts, f.Error())
		}
	}
	return strings.Join(parts, "; ")
}

// Attempt describes a single oracle call.
type Attempt struct {
	Name    string
	System  string
	Prompt  string
	Timeout time.Duration
}

// Ask performs one attempt and strictly decodes the answer into v.
// Unknown fields are rejected. The raw answer is returned even on failure
// when one was received.
func Ask(ctx context.Context, o Oracle, a Attempt, v any) (string, *Failure) {
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	raw, err := o.Complete(ctx, a.System, a.Prompt)
	if err != nil {
		return raw, &Failure{Attempt: a.Name, Kind: classify(err), Err: err}
	}
	if strings.TrimSpace(raw) == "" {
		return raw, &Failure{Attempt: a.Name, Kind: KindEmpty, Err: api.ErrEmptyResponse}
	}

	doc, err := ExtractJSON(raw)
	if err != nil {
		return raw, &Failure{Attempt: a.Name, Kind: KindMalformed, Err: err}
	}
	if err := DecodeStrict(doc, v); err != nil {
		return raw, &Failure{Attempt: a.Name, Kind: KindSchema, Err: err}
	}
	return raw, nil
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, api.ErrEmptyResponse):
		return KindEmpty
	case errors.Is(err, api.ErrTruncated), errors.Is(err, api.ErrResponseTooLarge):
		return KindMalformed
	default:
		return KindTransport
	}
}

// ExtractJSON returns the outermost JSON object in text, tolerating code
// fences or prose around it.
func ExtractJSON(text string) ([]byte, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		preview := text
		if len(preview) > 200 {
			preview = preview[:200] + "... (truncated)"
		}
		return nil, fmt.Errorf("no JSON object found in response (got %d chars): %q", len(text), preview)
	}
	doc := []byte(text[start : end+1])
	if !json.Valid(doc) {
		return nil, errors.New("response is not valid JSON")
	}
	return doc, nil
}

// DecodeStrict decodes a single JSON document into v, rejecting unknown
// fields and trailing data.
func DecodeStrict(doc []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if dec.More() {
		return errors.New("decode: unexpected data after JSON document")
	}
	return nil
}
