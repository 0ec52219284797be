package engine

import (
	"catanbench/game"
	"context"
	"math/rand"
)

// RandomPlayer picks uniformly among the legal moves. It fills empty seats.
type RandomPlayer struct {
	name  string
	color game.Color
	rng   *rand.Rand
}

func NewRandomPlayer(name string, color game.Color, seed int64) *RandomPlayer {
	return &RandomPlayer{name: name, color: color, rng: rand.New(rand.NewSource(seed))}
}

func (p *RandomPlayer) Name() string      { return p.name }
func (p *RandomPlayer) Color() game.Color { return p.color }

func (p *RandomPlayer) Decide(_ context.Context, _ game.State, moves []game.Move) game.Move {
	if len(moves) == 0 {
		panic("No legal moves at all!")
	}
	return moves[p.rng.Intn(len(moves))]
}
