package tournament

import (
	"catanbench/results"
	"catanbench/scoring"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

const Format = "round_robin"

type Info struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Format          string     `json:"format"`
	Players         []string   `json:"players"`
	Matchups        [][]string `json:"matchups"`
	GamesPerMatchup int        `json:"games_per_matchup"`
	PlannedGames    int        `json:"planned_games"`
	TotalGames      int        `json:"total_games"`
	TurnLimit       int        `json:"turn_limit"`
	Parallelism     int        `json:"parallelism"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	DurationSeconds float64    `json:"duration_seconds"`
}

// Report is everything a run produced. It is plain data and marshals to JSON.
type Report struct {
	Info        Info               `json:"tournament_info"`
	Games       []results.Result   `json:"games"`
	Analysis    scoring.Aggregate  `json:"analysis"`
	Leaderboard []scoring.Standing `json:"leaderboard"`
}

func (t *Tournament) report(tables [][]string, planned int, start, end time.Time) *Report {
	games := t.Results()
	analysis := scoring.Summarize(games)
	return &Report{
		Info: Info{
			ID:              t.ID(),
			Name:            t.name,
			Format:          Format,
			Players:         t.Players(),
			Matchups:        tables,
			GamesPerMatchup: t.gamesPerMatchup,
			PlannedGames:    planned,
			TotalGames:      len(games),
			TurnLimit:       t.turnLimit,
			Parallelism:     t.parallelism,
			StartTime:       start.UTC(),
			EndTime:         end.UTC(),
			DurationSeconds: end.Sub(start).Seconds(),
		},
		Games:       games,
		Analysis:    analysis,
		Leaderboard: analysis.Ranking,
	}
}

func (t *Tournament) persist(report *Report) error {
	path, err := t.writer.WriteReport(report)
	if err != nil {
		return fmt.Errorf("failed to store tournament report: %w", err)
	}
	log.Info().Msgf("stored tournament report in %s", path)

	err = t.writer.WriteGameRecords(report.Games)
	if err != nil {
		return fmt.Errorf("failed to store game records: %w", err)
	}
	log.Info().Msg("stored game records")

	err = t.writer.WriteCSV(results.StandingsFile, scoring.StandingsHeader, scoring.StandingsRows(report.Leaderboard))
	if err != nil {
		return fmt.Errorf("failed to store standings: %w", err)
	}
	log.Info().Msg("stored standings")
	return nil
}
