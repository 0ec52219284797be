// Package results holds the immutable record of each played game and writes
// tournament output files.
package results

import (
	"bytes"
	"catanbench/game"
	"catanbench/metrics"
	"encoding/json"
	"fmt"
	"time"
)

const (
	LLMSeat    = "llm"
	RandomSeat = "random"
)

type Seat struct {
	Name  string     `json:"name"`
	Color game.Color `json:"color"`
	Model string     `json:"model"`
	Type  string     `json:"type"`
}

// Winner is either one outright winner or a tie between several players.
// It marshals as a string for an outright win and as a list for a tie.
type Winner struct {
	Names []string
	Tie   bool
}

func Outright(name string) *Winner {
	return &Winner{Names: []string{name}}
}

func Tie(names ...string) *Winner {
	return &Winner{Names: names, Tie: true}
}

func (w Winner) MarshalJSON() ([]byte, error) {
	if w.Tie {
		return json.Marshal(w.Names)
	}
	if len(w.Names) != 1 {
		return nil, fmt.Errorf("outright winner needs one name, has %d", len(w.Names))
	}
	return json.Marshal(w.Names[0])
}

// UnmarshalJSON also accepts the {"name": ..., "color": ...} object written by
// older tools.
func (w *Winner) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty winner")
	}
	switch data[0] {
	case '"':
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*w = Winner{Names: []string{name}}
	case '[':
		var names []string
		if err := json.Unmarshal(data, &names); err != nil {
			return err
		}
		*w = Winner{Names: names, Tie: true}
	case '{':
		var object struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &object); err != nil {
			return err
		}
		*w = Winner{Names: []string{object.Name}}
	default:
		return fmt.Errorf("winner must be a string or a list, got %s", data)
	}
	return nil
}

func (w Winner) String() string {
	if w.Tie {
		return fmt.Sprintf("tie %v", w.Names)
	}
	if len(w.Names) == 0 {
		return ""
	}
	return w.Names[0]
}

type DetailedStats struct {
	TotalTurns int `json:"total_turns"`
	TotalMoves int `json:"total_moves"`
}

// Result is one finished game. A nil Winner with Error set marks a failed game.
type Result struct {
	GameID            string                     `json:"game_id"`
	MatchupIndex      int                        `json:"matchup_index"`
	GameNumber        int                        `json:"game_number"`
	Players           []Seat                     `json:"players"`
	Winner            *Winner                    `json:"winner"`
	IsTie             bool                       `json:"is_tie"`
	FinalScores       map[game.Color]int         `json:"final_scores,omitempty"`
	DurationSeconds   float64                    `json:"duration_seconds"`
	PlayerPerformance map[string]metrics.Summary `json:"player_performance,omitempty"`
	DetailedStats     *DetailedStats             `json:"detailed_stats,omitempty"`
	Error             string                     `json:"error,omitempty"`
	Timestamp         time.Time                  `json:"timestamp"`
}

// Succeeded reports whether the game produced a winner or a tie.
func (r Result) Succeeded() bool {
	return r.Error == "" && r.Winner != nil && len(r.Winner.Names) > 0
}

func (r Result) Names() []string {
	names := make([]string, len(r.Players))
	for i, seat := range r.Players {
		names[i] = seat.Name
	}
	return names
}

func (r Result) Winners() []string {
	if !r.Succeeded() {
		return nil
	}
	return r.Winner.Names
}

// WinShare is the fraction of this game's single win credited to name: 1 for
// an outright winner, 1/k for each of k tied winners, 0 otherwise.
func (r Result) WinShare(name string) float64 {
	winners := r.Winners()
	for _, w := range winners {
		if w == name {
			return 1 / float64(len(winners))
		}
	}
	return 0
}

// ScoresByName maps the per-colour final scores to seat names.
func (r Result) ScoresByName() map[string]int {
	scores := make(map[string]int, len(r.Players))
	for _, seat := range r.Players {
		scores[seat.Name] = r.FinalScores[seat.Color]
	}
	return scores
}

// ResolveWinner maps an engine outcome to seat names. An engine winner is an
// outright win; otherwise every seat sharing the top score is tied, and a
// single top scorer is an outright winner.
func ResolveWinner(seats []Seat, engineWinner *game.Color, scores map[game.Color]int) *Winner {
	if engineWinner != nil {
		for _, seat := range seats {
			if seat.Color == *engineWinner {
				return Outright(seat.Name)
			}
		}
	}
	if len(seats) == 0 {
		return nil
	}

	best := scores[seats[0].Color]
	for _, seat := range seats[1:] {
		best = max(best, scores[seat.Color])
	}
	var top []string
	for _, seat := range seats {
		if scores[seat.Color] == best {
			top = append(top, seat.Name)
		}
	}
	if len(top) == 1 {
		return Outright(top[0])
	}
	return Tie(top...)
}
