// Package engine is the boundary to the Catan rules engine. The benchmark
// never implements game rules: a Rules value supplies legal moves and applies
// them, and Local drives it by asking each seat's Player for a move.
package engine

import (
	"catanbench/game"
	"context"
)

// MaxMoves caps a single game regardless of the turn limit.
const MaxMoves = 10000

type Player interface {
	Color() game.Color
	// Decide must return one of moves.
	Decide(ctx context.Context, state game.State, moves []game.Move) game.Move
}

// Rules is a live game inside the rules engine.
type Rules interface {
	game.State
	LegalMoves() []game.Move
	Apply(ctx context.Context, move game.Move) error
	Winner() (game.Color, bool)
	// Scores are the victory points per colour, hidden cards included.
	Scores() map[game.Color]int
}

// Outcome is a finished game. Winner is nil when the game stopped at a limit.
type Outcome struct {
	Winner *game.Color
	Scores map[game.Color]int
	Turns  int
	Moves  int
}

type Game interface {
	// Play runs the game to completion or until ctx is cancelled.
	Play(ctx context.Context) (Outcome, error)
}

// Factory creates one game for the given seats. Seat order is turn order and
// every seat's Color is already assigned.
type Factory func(ctx context.Context, seats []Player, turnLimit int) (Game, error)

// RulesFactory creates a fresh engine game for the given colours.
type RulesFactory func(ctx context.Context, colors []game.Color) (Rules, error)

// LocalFactory adapts a RulesFactory into a Factory that runs the turn loop
// in-process.
func LocalFactory(newRules RulesFactory) Factory {
	return func(ctx context.Context, seats []Player, turnLimit int) (Game, error) {
		colors := make([]game.Color, len(seats))
		for i, seat := range seats {
			colors[i] = seat.Color()
		}
		rules, err := newRules(ctx, colors)
		if err != nil {
			return nil, err
		}
		return NewLocal(rules, seats, turnLimit)
	}
}
