// Package agent turns a free-text LLM backend into a Catan player. Every
// decision serializes the state, describes the legal moves, asks the backend
// for an index, and falls back to the first legal move when anything fails.
package agent

import (
	"catanbench/board"
	"catanbench/describer"
	"catanbench/game"
	"catanbench/llm"
	"catanbench/meta"
	"catanbench/metrics"
	"catanbench/snapshot"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTemperature  = meta.TEMPERATURE
	DefaultMaxRetries   = meta.MAX_RETRIES
	DefaultTimeout      = meta.TIMEOUT
	DefaultRetryBackoff = meta.RETRY_BACKOFF
)

type Option func(a *Agent)

type Agent struct {
	name        string
	color       game.Color
	client      llm.Client
	repair      llm.Client
	temperature float64
	maxRetries  int
	timeout     time.Duration
	backoff     time.Duration
	serializer  *snapshot.Serializer
	describer   *describer.Describer
	metrics     metrics.Collector
	logger      zerolog.Logger
}

func WithTemperature(temperature float64) Option {
	return func(a *Agent) {
		if temperature >= 0 {
			a.temperature = temperature
		}
	}
}

func WithMaxRetries(retries int) Option {
	return func(a *Agent) {
		if retries > 0 {
			a.maxRetries = retries
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(a *Agent) {
		if timeout > 0 {
			a.timeout = timeout
		}
	}
}

// WithRetryBackoff sets the pause between failed attempts. Zero disables it.
func WithRetryBackoff(backoff time.Duration) Option {
	return func(a *Agent) {
		if backoff >= 0 {
			a.backoff = backoff
		}
	}
}

// WithRepairClient sets a backend asked to rewrite replies that do not parse.
func WithRepairClient(client llm.Client) Option {
	return func(a *Agent) {
		a.repair = client
	}
}

// WithMapper shares a board mapper between the serializer and the describer.
func WithMapper(mapper *board.Mapper) Option {
	return func(a *Agent) {
		if mapper != nil {
			a.serializer = snapshot.NewSerializer(mapper)
			a.describer = describer.New(mapper)
		}
	}
}

func New(name string, color game.Color, client llm.Client, options ...Option) *Agent {
	if client == nil {
		panic("Agent needs a backend client")
	}
	mapper := board.NewMapper()
	a := &Agent{ // Default values
		name:        name,
		color:       color,
		client:      client,
		temperature: DefaultTemperature,
		maxRetries:  DefaultMaxRetries,
		timeout:     DefaultTimeout,
		backoff:     DefaultRetryBackoff,
		serializer:  snapshot.NewSerializer(mapper),
		describer:   describer.New(mapper),
		metrics:     metrics.NewCollector(),
	}
	for _, option := range options {
		option(a)
	}
	a.logger = log.With().Str("player", name).Str("color", string(color)).Logger()
	return a
}

func (a *Agent) Name() string {
	return a.name
}

func (a *Agent) Color() game.Color {
	return a.color
}

func (a *Agent) Model() string {
	return a.client.Model()
}

// Stats returns the decision counters accumulated so far.
func (a *Agent) Stats() metrics.Summary {
	return a.metrics.Complete()
}

// Reset returns the accumulated counters and starts a fresh count.
func (a *Agent) Reset() metrics.Summary {
	return a.metrics.Reset()
}

// Decide always returns one of moves. A lone forced move is returned without
// consulting the backend; every other failure ends in Fallback.
func (a *Agent) Decide(ctx context.Context, state game.State, moves []game.Move) game.Move {
	if len(moves) == 0 {
		panic("No legal moves at all!")
	}
	if len(moves) == 1 && game.IsForced(moves[0]) {
		a.metrics.AddForced()
		return moves[0]
	}

	start := time.Now()
	choice, err := a.choose(ctx, state, moves)
	elapsed := time.Since(start)
	if err != nil {
		a.logger.Warn().Err(err).Msgf("falling back to first legal move after %v", elapsed)
		a.metrics.Record(elapsed, false)
		a.metrics.AddFallback()
		return Fallback(moves)
	}

	a.metrics.Record(elapsed, true)
	a.logger.Debug().Msgf("chose action %d of %d in %v: %s", choice.Index, len(moves), elapsed, choice.Reasoning)
	return moves[choice.Index]
}

// Fallback is the move played when no valid decision could be obtained.
func Fallback(moves []game.Move) game.Move {
	if len(moves) == 0 {
		panic("No legal moves at all!")
	}
	return moves[0]
}

func (a *Agent) choose(ctx context.Context, state game.State, moves []game.Move) (choice Choice, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &DecisionError{Kind: InternalFailure, Err: fmt.Errorf("panic while deciding: %v", r)}
		}
	}()

	snap := a.serializer.Extract(state, a.color)
	mapping := a.describer.Describe(moves)
	prompt, err := buildPrompt(snap, a.serializer.Mapper(), mapping, moves)
	if err != nil {
		return Choice{}, &DecisionError{Kind: InternalFailure, Err: err}
	}
	return a.queryWithRetry(ctx, prompt, len(moves))
}

func (a *Agent) queryWithRetry(ctx context.Context, prompt string, n int) (Choice, error) {
	var last error
	for attempt := 1; attempt <= a.maxRetries; attempt++ {
		if attempt > 1 && a.backoff > 0 {
			if err := sleep(ctx, a.backoff); err != nil {
				return Choice{}, fmt.Errorf("%w: %w", ErrRetriesExhausted, err)
			}
		}

		choice, err := a.attempt(ctx, prompt, n, attempt)
		if err == nil {
			return choice, nil
		}
		last = err
		a.metrics.AddRetry()
		a.logger.Warn().Err(err).Msgf("attempt %d of %d failed", attempt, a.maxRetries)
	}
	return Choice{}, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, a.maxRetries, last)
}

func (a *Agent) attempt(ctx context.Context, prompt string, n, attempt int) (Choice, error) {
	reply, err := a.client.Query(ctx, prompt, a.temperature, a.timeout)
	if err != nil {
		return Choice{}, &DecisionError{Kind: BackendFailure, Attempt: attempt, Err: err}
	}
	choice, err := a.parse(ctx, reply)
	if err != nil {
		return Choice{}, &DecisionError{Kind: ParseFailure, Attempt: attempt, Err: err}
	}
	if choice.Index < 0 || choice.Index >= n {
		return Choice{}, &DecisionError{
			Kind:    RangeFailure,
			Attempt: attempt,
			Err:     fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, choice.Index, n),
		}
	}
	return choice, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
