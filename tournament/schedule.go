package tournament

import (
	"catanbench/game"
	"catanbench/meta"
	"catanbench/utils"
	"fmt"
	"strings"
)

// matchup is one table of players, in seat order.
type matchup struct {
	index   int
	players []string
}

// job is one game of one matchup.
type job struct {
	matchup matchup
	game    int
}

func (j job) id() string {
	return fmt.Sprintf("M%02d_G%02d", j.matchup.index, j.game)
}

// schedule builds the tables for the registered names. Exactly SEATS names
// play one table; more names play every SEATS-combination; fewer are padded
// with random players.
func schedule(names []string) ([][]string, error) {
	switch {
	case len(names) < 2:
		return nil, fmt.Errorf("%w: have %d", ErrTooFewPlayers, len(names))
	case len(names) == meta.SEATS:
		return [][]string{append([]string(nil), names...)}, nil
	case len(names) > meta.SEATS:
		return utils.Combinations(names, meta.SEATS), nil
	}

	table := append([]string(nil), names...)
	for i := 0; len(table) < meta.SEATS; i++ {
		table = append(table, randomName(i))
	}
	return [][]string{table}, nil
}

func randomName(i int) string {
	return fmt.Sprintf("%s%d", meta.RANDOM_PREFIX, i)
}

func isRandom(name string) bool {
	return strings.HasPrefix(name, meta.RANDOM_PREFIX)
}

// seatColor is fixed per seat so a matchup replays with identical colours.
func seatColor(seat int) game.Color {
	return game.Colors[seat%len(game.Colors)]
}

func jobs(tables [][]string, gamesPerMatchup int) []job {
	var all []job
	for mi, players := range tables {
		m := matchup{index: mi, players: players}
		for gi := 0; gi < gamesPerMatchup; gi++ {
			all = append(all, job{matchup: m, game: gi})
		}
	}
	return all
}
