// Package scoring derives rankings from a list of game results. Every function
// is pure: metrics are recomputed from the results each time and failed games
// never count.
package scoring

import (
	"catanbench/meta"
	"catanbench/results"
	"catanbench/utils"
	"math"
)

const (
	InitialElo = meta.INITIAL_ELO
	KFactor    = meta.K_FACTOR

	// MaxVictoryPoints caps the average used by the competence score.
	MaxVictoryPoints = 10.0
)

const (
	winRateWeight  = 0.4
	positionWeight = 0.3
	pointsWeight   = 0.3
)

func successful(rs []results.Result) []results.Result {
	var ok []results.Result
	for _, r := range rs {
		if r.Succeeded() {
			ok = append(ok, r)
		}
	}
	return ok
}

// GamesPlayed counts successful games per player.
func GamesPlayed(rs []results.Result) map[string]int {
	games := map[string]int{}
	for _, r := range successful(rs) {
		for _, name := range r.Names() {
			games[name]++
		}
	}
	return games
}

// Wins sums fractional wins: a tie among k players gives each 1/k.
func Wins(rs []results.Result) map[string]float64 {
	wins := map[string]float64{}
	for _, r := range successful(rs) {
		for _, name := range r.Names() {
			wins[name] += r.WinShare(name)
		}
	}
	return wins
}

func WinRates(rs []results.Result) map[string]float64 {
	wins := Wins(rs)
	rates := map[string]float64{}
	for name, games := range GamesPlayed(rs) {
		rates[name] = wins[name] / float64(games)
	}
	return rates
}

// HeadToHead[a][b] is how often a beat b. An outright winner gains 1 against
// every other seat; each of k tied winners gains 1/k against every seat
// outside the tie.
func HeadToHead(rs []results.Result) map[string]map[string]float64 {
	h2h := map[string]map[string]float64{}
	for _, r := range successful(rs) {
		winners := r.Winners()
		for _, w := range winners {
			row, ok := h2h[w]
			if !ok {
				row = map[string]float64{}
				h2h[w] = row
			}
			for _, opponent := range r.Names() {
				if utils.Contains(winners, opponent) {
					continue
				}
				row[opponent] += 1 / float64(len(winners))
			}
		}
	}
	return h2h
}

// Elo replays the results in order. Within one game every ordered pair is
// scored against the ratings as they stood when the game started, so an
// outright win between two players moves them by the same amount.
func Elo(rs []results.Result) map[string]float64 {
	ratings := map[string]float64{}
	for _, r := range rs {
		for _, name := range r.Names() {
			if _, ok := ratings[name]; !ok {
				ratings[name] = InitialElo
			}
		}
	}

	for _, r := range successful(rs) {
		names := r.Names()
		before := make(map[string]float64, len(names))
		for _, name := range names {
			before[name] = ratings[name]
		}
		for _, p1 := range names {
			for _, p2 := range names {
				if p1 == p2 {
					continue
				}
				expected := 1 / (1 + math.Pow(10, (before[p2]-before[p1])/400))
				ratings[p1] += KFactor * (actualScore(r, p1) - expected)
			}
		}
	}
	return ratings
}

func actualScore(r results.Result, name string) float64 {
	if !utils.Contains(r.Winners(), name) {
		return 0
	}
	if r.Winner.Tie {
		return 0.5
	}
	return 1
}

// Positions ranks the seats of one game by final score, highest first. Equal
// scores share the better position (1, 1, 3, 4).
func Positions(r results.Result) map[string]int {
	scores := r.ScoresByName()
	positions := make(map[string]int, len(scores))
	for name, score := range scores {
		better := 0
		for _, other := range scores {
			if other > score {
				better++
			}
		}
		positions[name] = better + 1
	}
	return positions
}

// PositionScore maps a finishing position to [0, 1]: first is 1, last is 0.
func PositionScore(position, seats int) float64 {
	if seats < 2 {
		return 1
	}
	return math.Max(0, float64(seats-position)/float64(seats-1))
}

// Competence is 0.4 x win rate + 0.3 x average position score + 0.3 x average
// victory points scaled to [0, 1] with a cap at 10.
func Competence(rs []results.Result) map[string]float64 {
	stats := PlayerStatistics(rs)
	scores := make(map[string]float64, len(stats))
	for name, s := range stats {
		scores[name] = competence(s)
	}
	return scores
}

func competence(s PlayerStats) float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	points := math.Min(1, s.AvgVictoryPoints/MaxVictoryPoints)
	return winRateWeight*s.WinRate + positionWeight*s.AvgPositionScore + pointsWeight*points
}
