package engine

import (
	"catanbench/game"
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/rs/zerolog/log"
)

type Local struct {
	rules     Rules
	seats     map[game.Color]Player
	turnLimit int
}

// NewLocal seats players on rules. Every colour in the game needs exactly one
// player. A turnLimit of zero or less means no limit.
func NewLocal(rules Rules, players []Player, turnLimit int) (*Local, error) {
	if len(players) < 2 {
		return nil, errors.New("need at least two players")
	}
	seats := make(map[game.Color]Player, len(players))
	for _, p := range players {
		if _, dup := seats[p.Color()]; dup {
			return nil, fmt.Errorf("colour %s is seated twice", p.Color())
		}
		seats[p.Color()] = p
	}
	for _, c := range rules.Colors() {
		if _, ok := seats[c]; !ok {
			return nil, fmt.Errorf("no player for colour %s", c)
		}
	}
	return &Local{rules: rules, seats: seats, turnLimit: turnLimit}, nil
}

// Play executes the game loop until a winner is found, the turn limit is
// reached, or MaxMoves moves have been played.
func (l *Local) Play(ctx context.Context) (Outcome, error) {
	log.Debug().Msgf("%s is starting", l.rules.CurrentColor())

	moves := 0
	for ; ; moves++ {
		if _, ok := l.rules.Winner(); ok {
			break
		}
		if l.turnLimit > 0 && l.rules.NumTurns() >= l.turnLimit {
			log.Info().Msgf("stopped after %d turns (no winner yet)", l.rules.NumTurns())
			break
		}
		if moves >= MaxMoves {
			log.Warn().Msgf("stopped after %d moves (no winner yet)", moves)
			break
		}
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}

		legal := l.rules.LegalMoves()
		if len(legal) == 0 {
			panic("No legal moves at all!")
		}
		color := l.rules.CurrentColor()
		player, ok := l.seats[color]
		if !ok {
			return Outcome{}, fmt.Errorf("engine asked unseated colour %s to move", color)
		}

		move := player.Decide(ctx, l.rules, legal)
		if !isLegal(move, legal) {
			log.Warn().Msgf("%s returned a move outside the legal list (%v) => playing %s", color, move, legal[0].Kind())
			move = legal[0]
		}
		if err := l.rules.Apply(ctx, move); err != nil {
			return Outcome{}, fmt.Errorf("failed to apply %s for %s: %w", move.Kind(), color, err)
		}
	}

	outcome := Outcome{
		Scores: l.rules.Scores(),
		Turns:  l.rules.NumTurns(),
		Moves:  moves,
	}
	if winner, ok := l.rules.Winner(); ok {
		outcome.Winner = &winner
	}
	return outcome, nil
}

// Move variants may hold slices, so equality goes through DeepEqual.
func isLegal(move game.Move, legal []game.Move) bool {
	if move == nil {
		return false
	}
	for _, m := range legal {
		if reflect.DeepEqual(m, move) {
			return true
		}
	}
	return false
}
