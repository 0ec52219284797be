package scoring

import (
	"catanbench/metrics"
	"catanbench/results"
	"catanbench/utils"
	"sort"
	"strconv"
	"strings"
)

type PlayerStats struct {
	Model            string          `json:"model"`
	Type             string          `json:"type"`
	GamesPlayed      int             `json:"games_played"`
	Wins             float64         `json:"wins"`
	WinRate          float64         `json:"win_rate"`
	AvgPosition      float64         `json:"avg_position"`
	AvgPositionScore float64         `json:"avg_position_score"`
	AvgVictoryPoints float64         `json:"avg_victory_points"`
	Decisions        metrics.Summary `json:"decisions"`
}

// PlayerStatistics summarizes every player over the successful games. Games
// without final scores count towards wins but not towards position or points.
func PlayerStatistics(rs []results.Result) map[string]PlayerStats {
	stats := map[string]PlayerStats{}
	scored := map[string]int{}
	for _, r := range rs {
		for _, seat := range r.Players {
			s := stats[seat.Name]
			s.Model, s.Type = seat.Model, seat.Type
			stats[seat.Name] = s
		}
	}

	for _, r := range successful(rs) {
		var positions map[string]int
		var points map[string]int
		if len(r.FinalScores) > 0 {
			positions = Positions(r)
			points = r.ScoresByName()
		}
		for _, name := range r.Names() {
			s := stats[name]
			s.GamesPlayed++
			s.Wins += r.WinShare(name)
			if positions != nil {
				scored[name]++
				s.AvgPosition += float64(positions[name])
				s.AvgPositionScore += PositionScore(positions[name], len(r.Players))
				s.AvgVictoryPoints += float64(points[name])
			}
			if perf, ok := r.PlayerPerformance[name]; ok {
				s.Decisions = s.Decisions.Add(perf)
			}
			stats[name] = s
		}
	}

	for name, s := range stats {
		if s.GamesPlayed > 0 {
			s.WinRate = s.Wins / float64(s.GamesPlayed)
		}
		if n := scored[name]; n > 0 {
			s.AvgPosition /= float64(n)
			s.AvgPositionScore /= float64(n)
			s.AvgVictoryPoints /= float64(n)
		}
		stats[name] = s
	}
	return stats
}

type Matchup struct {
	Players []string           `json:"players"`
	Games   int                `json:"games"`
	Failed  int                `json:"failed"`
	Wins    map[string]float64 `json:"wins"`
}

// Matchups groups results by the sorted set of players at the table.
func Matchups(rs []results.Result) map[string]Matchup {
	matchups := map[string]Matchup{}
	for _, r := range rs {
		players := r.Names()
		sort.Strings(players)
		key := strings.Join(players, "_vs_")

		m, ok := matchups[key]
		if !ok {
			m = Matchup{Players: players, Wins: map[string]float64{}}
			for _, p := range players {
				m.Wins[p] = 0
			}
		}
		if r.Succeeded() {
			m.Games++
			for _, p := range players {
				m.Wins[p] += r.WinShare(p)
			}
		} else {
			m.Failed++
		}
		matchups[key] = m
	}
	return matchups
}

type Standing struct {
	Rank             int     `json:"rank"`
	Player           string  `json:"player"`
	Model            string  `json:"model"`
	Games            int     `json:"games"`
	Wins             float64 `json:"wins"`
	WinRate          float64 `json:"win_rate"`
	Elo              float64 `json:"elo"`
	Competence       float64 `json:"competence"`
	AvgPosition      float64 `json:"avg_position"`
	AvgVictoryPoints float64 `json:"avg_victory_points"`
}

// Ranking orders players by competence, then ELO, then name.
func Ranking(rs []results.Result) []Standing {
	return ranking(PlayerStatistics(rs), Elo(rs))
}

func ranking(stats map[string]PlayerStats, elo map[string]float64) []Standing {
	standings := make([]Standing, 0, len(stats))
	for _, name := range utils.SortedKeys(stats) {
		s := stats[name]
		standings = append(standings, Standing{
			Player:           name,
			Model:            s.Model,
			Games:            s.GamesPlayed,
			Wins:             s.Wins,
			WinRate:          s.WinRate,
			Elo:              elo[name],
			Competence:       competence(s),
			AvgPosition:      s.AvgPosition,
			AvgVictoryPoints: s.AvgVictoryPoints,
		})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Competence != b.Competence {
			return a.Competence > b.Competence
		}
		if a.Elo != b.Elo {
			return a.Elo > b.Elo
		}
		return a.Player < b.Player
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}

// Aggregate is the tournament-level summary of a result list.
type Aggregate struct {
	TotalGames          int                           `json:"total_games"`
	SuccessfulGames     int                           `json:"successful_games"`
	FailedGames         int                           `json:"failed_games"`
	SuccessRate         float64                       `json:"success_rate"`
	WinCounts           map[string]float64            `json:"win_counts"`
	AverageGameDuration float64                       `json:"average_game_duration"`
	TotalDuration       float64                       `json:"total_tournament_duration"`
	Players             map[string]PlayerStats        `json:"player_statistics"`
	HeadToHead          map[string]map[string]float64 `json:"head_to_head"`
	Elo                 map[string]float64            `json:"elo_ratings"`
	Competence          map[string]float64            `json:"competence_scores"`
	Matchups            map[string]Matchup            `json:"matchup_analysis"`
	Ranking             []Standing                    `json:"ranking"`
}

func Summarize(rs []results.Result) Aggregate {
	ok := successful(rs)
	stats := PlayerStatistics(rs)
	elo := Elo(rs)

	agg := Aggregate{
		TotalGames:      len(rs),
		SuccessfulGames: len(ok),
		FailedGames:     len(rs) - len(ok),
		WinCounts:       Wins(rs),
		Players:         stats,
		HeadToHead:      HeadToHead(rs),
		Elo:             elo,
		Competence:      Competence(rs),
		Matchups:        Matchups(rs),
		Ranking:         ranking(stats, elo),
	}
	if len(rs) > 0 {
		agg.SuccessRate = float64(len(ok)) / float64(len(rs))
	}
	durations := make([]float64, len(ok))
	for i, r := range ok {
		durations[i] = r.DurationSeconds
	}
	agg.TotalDuration = utils.Sum(durations)
	if len(ok) > 0 {
		agg.AverageGameDuration = agg.TotalDuration / float64(len(ok))
	}
	return agg
}

var StandingsHeader = []string{"rank", "player", "model", "games", "wins", "win_rate", "elo", "competence", "avg_position", "avg_victory_points"}

func StandingsRows(standings []Standing) [][]string {
	rows := make([][]string, len(standings))
	for i, s := range standings {
		rows[i] = []string{
			strconv.Itoa(s.Rank),
			s.Player,
			s.Model,
			strconv.Itoa(s.Games),
			formatFloat(s.Wins, 2),
			formatFloat(s.WinRate, 3),
			formatFloat(s.Elo, 1),
			formatFloat(s.Competence, 3),
			formatFloat(s.AvgPosition, 2),
			formatFloat(s.AvgVictoryPoints, 2),
		}
	}
	return rows
}

func formatFloat(v float64, precision int) string {
	return strconv.FormatFloat(v, 'f', precision, 64)
}
