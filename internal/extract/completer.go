// Package extract turns unstructured pricing content into extracted GPU records
// using a text-completion backend.
package extract

import (
	"context"
	"errors"
)

// Extraction errors.
var (
	ErrMissingAPIKey     = errors.New("completion API key is not set")
	ErrEmptyCompletion   = errors.New("completion returned no content")
	ErrInvalidJSON       = errors.New("completion is not valid JSON")
	ErrNoGPUsKey         = errors.New("completion has no gpus key")
	ErrDegenerateRecord  = errors.New("extracted record has no primary fields")
	ErrFieldType         = errors.New("extracted field has an unusable value")
	ErrRecordNotAnObject = errors.New("extracted record is not an object")
)

// Request is one extraction call: a system instruction, the source content and
// the task-specific field specification.
type Request struct {
	System       string
	Content      string
	Instructions string
}

// Completer is a text-completion backend returning a JSON object as text.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
