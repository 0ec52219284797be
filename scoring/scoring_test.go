package scoring

import (
	"catanbench/game"
	"catanbench/metrics"
	"catanbench/results"
	"testing"

	"github.com/stretchr/testify/require"
)

var colors = []game.Color{game.Red, game.Blue, game.White, game.Orange}

func table(names ...string) []results.Seat {
	seats := make([]results.Seat, len(names))
	for i, name := range names {
		seats[i] = results.Seat{Name: name, Color: colors[i], Model: "model-" + name, Type: results.LLMSeat}
	}
	return seats
}

func scores(points ...int) map[game.Color]int {
	m := map[game.Color]int{}
	for i, p := range points {
		m[colors[i]] = p
	}
	return m
}

func sampleResults() []results.Result {
	players := table("a", "b", "c", "d")
	return []results.Result{
		{GameID: "M00_G00", Players: players, Winner: results.Outright("a"), FinalScores: scores(10, 6, 4, 2), DurationSeconds: 10},
		{GameID: "M00_G01", Players: players, Winner: results.Tie("b", "c"), IsTie: true, FinalScores: scores(5, 8, 8, 3), DurationSeconds: 20},
		{GameID: "M00_G02", Players: players, Winner: results.Tie("a", "b", "c"), IsTie: true, FinalScores: scores(7, 7, 7, 1), DurationSeconds: 30},
		{GameID: "M00_G03", Players: players, Error: "engine crashed", DurationSeconds: 99},
	}
}

func TestWins(t *testing.T) {
	t.Run("each successful game hands out exactly one win", func(t *testing.T) {
		for _, r := range sampleResults() {
			total := 0.0
			for _, name := range r.Names() {
				total += r.WinShare(name)
			}
			if r.Succeeded() {
				require.InDelta(t, 1.0, total, 1e-12, r.GameID)
			} else {
				require.Zero(t, total, r.GameID)
			}
		}
	})

	t.Run("fractional win counts and rates", func(t *testing.T) {
		rs := sampleResults()
		wins := Wins(rs)

		require.InDelta(t, 1+1.0/3, wins["a"], 1e-12)
		require.InDelta(t, 0.5+1.0/3, wins["b"], 1e-12)
		require.InDelta(t, 0.5+1.0/3, wins["c"], 1e-12)
		require.Zero(t, wins["d"])
		require.InDelta(t, 3.0, wins["a"]+wins["b"]+wins["c"]+wins["d"], 1e-12)

		require.Equal(t, 3, GamesPlayed(rs)["d"], "The failed game is not counted")
		require.InDelta(t, (1+1.0/3)/3, WinRates(rs)["a"], 1e-12)
	})
}

func TestHeadToHead(t *testing.T) {
	players := table("a", "b", "c", "d")

	t.Run("outright winner beats everyone", func(t *testing.T) {
		h2h := HeadToHead([]results.Result{{Players: players, Winner: results.Outright("a")}})

		require.Equal(t, map[string]float64{"b": 1, "c": 1, "d": 1}, h2h["a"])
		require.NotContains(t, h2h, "b")
	})

	t.Run("tied winners split credit against the rest", func(t *testing.T) {
		h2h := HeadToHead([]results.Result{{Players: players, Winner: results.Tie("a", "b"), IsTie: true}})

		require.Equal(t, map[string]float64{"c": 0.5, "d": 0.5}, h2h["a"])
		require.Equal(t, map[string]float64{"c": 0.5, "d": 0.5}, h2h["b"])
		require.NotContains(t, h2h["a"], "b", "Co-winners gain nothing against each other")
	})

	t.Run("failed games are ignored", func(t *testing.T) {
		h2h := HeadToHead([]results.Result{{Players: players, Winner: results.Outright("a"), Error: "late crash"}})
		require.Empty(t, h2h)
	})
}

func TestElo(t *testing.T) {
	t.Run("two player win is symmetric", func(t *testing.T) {
		elo := Elo([]results.Result{{Players: table("a", "b"), Winner: results.Outright("a")}})

		require.Greater(t, elo["a"], InitialElo)
		require.Less(t, elo["b"], InitialElo)
		require.InDelta(t, elo["a"]-InitialElo, InitialElo-elo["b"], 1e-9)
		require.InDelta(t, 1516.0, elo["a"], 1e-9)
	})

	t.Run("four player game rewards only the winner", func(t *testing.T) {
		elo := Elo([]results.Result{{Players: table("a", "b", "c", "d"), Winner: results.Outright("c")}})

		require.Greater(t, elo["c"], InitialElo)
		for _, loser := range []string{"a", "b", "d"} {
			require.Less(t, elo[loser], InitialElo, loser)
			require.InDelta(t, elo["a"], elo[loser], 1e-9, "Losers are treated alike")
		}
	})

	t.Run("tied winners score half", func(t *testing.T) {
		elo := Elo([]results.Result{{Players: table("a", "b"), Winner: results.Tie("a", "b"), IsTie: true}})

		require.InDelta(t, InitialElo, elo["a"], 1e-9)
		require.InDelta(t, InitialElo, elo["b"], 1e-9)
	})

	t.Run("failed games leave ratings untouched", func(t *testing.T) {
		elo := Elo([]results.Result{{Players: table("a", "b"), Error: "boom"}})

		require.Equal(t, map[string]float64{"a": InitialElo, "b": InitialElo}, elo)
	})

	t.Run("recomputing gives the same ratings", func(t *testing.T) {
		rs := sampleResults()
		require.Equal(t, Elo(rs), Elo(rs))
	})
}

func TestPositions(t *testing.T) {
	r := results.Result{Players: table("a", "b", "c", "d"), FinalScores: scores(7, 9, 7, 2)}

	require.Equal(t, map[string]int{"b": 1, "a": 2, "c": 2, "d": 4}, Positions(r))
	require.Equal(t, 1.0, PositionScore(1, 4))
	require.InDelta(t, 2.0/3, PositionScore(2, 4), 1e-12)
	require.Equal(t, 0.0, PositionScore(4, 4))
}

func TestCompetence(t *testing.T) {
	t.Run("perfect record scores one", func(t *testing.T) {
		rs := []results.Result{{Players: table("a", "b"), Winner: results.Outright("a"), FinalScores: scores(12, 3)}}

		competence := Competence(rs)

		require.InDelta(t, 1.0, competence["a"], 1e-12, "Points above 10 are capped")
		require.InDelta(t, 0.3*0.3, competence["b"], 1e-12)
	})

	t.Run("weights combine the three parts", func(t *testing.T) {
		stats := PlayerStatistics(sampleResults())
		a := stats["a"]

		require.Equal(t, 3, a.GamesPlayed)
		require.InDelta(t, (1+3.0+1)/3, a.AvgPosition, 1e-12, "Tied third place in the second game")
		require.InDelta(t, (10+5+7)/3.0, a.AvgVictoryPoints, 1e-12)
		want := 0.4*a.WinRate + 0.3*a.AvgPositionScore + 0.3*(a.AvgVictoryPoints/10)
		require.InDelta(t, want, Competence(sampleResults())["a"], 1e-12)
	})

	t.Run("players without games score zero", func(t *testing.T) {
		rs := []results.Result{{Players: table("a", "b"), Error: "boom"}}
		require.Equal(t, 0.0, Competence(rs)["a"])
	})
}

func TestSummarize(t *testing.T) {
	rs := sampleResults()
	rs[0].PlayerPerformance = map[string]metrics.Summary{"a": {TotalDecisions: 4, TotalDecisionTime: 2}}

	agg := Summarize(rs)

	require.Equal(t, 4, agg.TotalGames)
	require.Equal(t, 3, agg.SuccessfulGames)
	require.Equal(t, 1, agg.FailedGames)
	require.InDelta(t, 0.75, agg.SuccessRate, 1e-12)
	require.InDelta(t, 20.0, agg.AverageGameDuration, 1e-12, "The failed game's duration is excluded")
	require.InDelta(t, 60.0, agg.TotalDuration, 1e-12)
	require.Equal(t, 4, agg.Players["a"].Decisions.TotalDecisions)
	require.Len(t, agg.Matchups, 1)
	require.Equal(t, 3, agg.Matchups["a_vs_b_vs_c_vs_d"].Games)
	require.Equal(t, 1, agg.Matchups["a_vs_b_vs_c_vs_d"].Failed)

	require.Len(t, agg.Ranking, 4)
	require.Equal(t, "a", agg.Ranking[0].Player)
	require.Equal(t, 1, agg.Ranking[0].Rank)
	require.Equal(t, "d", agg.Ranking[3].Player)
	for i := 1; i < len(agg.Ranking); i++ {
		require.GreaterOrEqual(t, agg.Ranking[i-1].Competence, agg.Ranking[i].Competence)
	}
}

func TestRankingTieBreak(t *testing.T) {
	rs := []results.Result{
		{Players: table("zed", "amy"), Winner: results.Tie("zed", "amy"), IsTie: true, FinalScores: scores(5, 5)},
	}

	ranking := Ranking(rs)

	require.Equal(t, "amy", ranking[0].Player, "Equal competence and ELO fall back to name order")
	require.Equal(t, "zed", ranking[1].Player)
}

func TestStandingsRows(t *testing.T) {
	rows := StandingsRows([]Standing{{Rank: 1, Player: "a", Model: "m", Games: 3, Wins: 1.5, WinRate: 0.5, Elo: 1516, Competence: 0.75}})

	require.Len(t, rows, 1)
	require.Len(t, rows[0], len(StandingsHeader))
	require.Equal(t, []string{"1", "a", "m", "3", "1.50", "0.500", "1516.0", "0.750", "0.00", "0.00"}, rows[0])
}
