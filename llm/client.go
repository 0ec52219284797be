// Package llm defines the text-completion backend used by decision agents and
// provides an OpenAI-compatible implementation.
package llm

import (
	"context"
	"errors"
	"time"
)

var ErrEmptyResponse = errors.New("llm: backend returned no content")

// Client is a plain free-text completion backend. Query returns an error on
// any failure, including its own timeout; the reply may or may not be JSON.
type Client interface {
	Query(ctx context.Context, prompt string, temperature float64, timeout time.Duration) (string, error)
	Model() string
}
