package results

import (
	"catanbench/game"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func seats() []Seat {
	return []Seat{
		{Name: "alpha", Color: game.Red, Model: "m1", Type: LLMSeat},
		{Name: "beta", Color: game.Blue, Model: "m2", Type: LLMSeat},
		{Name: "gamma", Color: game.White, Model: "m3", Type: LLMSeat},
		{Name: "Random_0", Color: game.Orange, Model: "RandomPlayer", Type: RandomSeat},
	}
}

func TestWinnerJSON(t *testing.T) {
	t.Run("outright winner is a string", func(t *testing.T) {
		data, err := json.Marshal(Result{Winner: Outright("alpha")})
		require.NoError(t, err)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		require.Equal(t, "alpha", raw["winner"])
		require.Equal(t, false, raw["is_tie"])
	})

	t.Run("tie is a list", func(t *testing.T) {
		data, err := json.Marshal(Result{Winner: Tie("alpha", "beta"), IsTie: true})
		require.NoError(t, err)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		require.Equal(t, []any{"alpha", "beta"}, raw["winner"])
	})

	t.Run("failed game is null", func(t *testing.T) {
		data, err := json.Marshal(Result{Error: "engine crashed"})
		require.NoError(t, err)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		require.Contains(t, raw, "winner")
		require.Nil(t, raw["winner"])
		require.Equal(t, "engine crashed", raw["error"])
	})

	t.Run("decoding keeps the shape", func(t *testing.T) {
		var r Result
		require.NoError(t, json.Unmarshal([]byte(`{"winner": ["a", "b"], "is_tie": true}`), &r))
		require.Equal(t, Tie("a", "b"), r.Winner)

		require.NoError(t, json.Unmarshal([]byte(`{"winner": "a"}`), &r))
		require.Equal(t, Outright("a"), r.Winner)

		require.NoError(t, json.Unmarshal([]byte(`{"winner": {"name": "c", "color": "RED"}}`), &r))
		require.Equal(t, Outright("c"), r.Winner, "Older object form should decode")

		r = Result{}
		require.NoError(t, json.Unmarshal([]byte(`{"winner": null}`), &r))
		require.Nil(t, r.Winner)

		require.Error(t, json.Unmarshal([]byte(`{"winner": 3}`), &r))
	})
}

func TestResult(t *testing.T) {
	t.Run("win shares", func(t *testing.T) {
		outright := Result{Players: seats(), Winner: Outright("beta")}
		tie := Result{Players: seats(), Winner: Tie("alpha", "beta"), IsTie: true}
		failed := Result{Players: seats(), Error: "boom"}

		require.Equal(t, 1.0, outright.WinShare("beta"))
		require.Equal(t, 0.0, outright.WinShare("alpha"))
		require.Equal(t, 0.5, tie.WinShare("alpha"))
		require.Equal(t, 0.0, tie.WinShare("gamma"))
		require.False(t, failed.Succeeded())
		require.Nil(t, failed.Winners())
	})

	t.Run("an error marks the game failed even with a winner", func(t *testing.T) {
		r := Result{Winner: Outright("alpha"), Error: "late failure"}
		require.False(t, r.Succeeded())
	})

	t.Run("scores by name", func(t *testing.T) {
		r := Result{Players: seats(), FinalScores: map[game.Color]int{game.Red: 10, game.Blue: 4, game.Orange: 2}}

		require.Equal(t, map[string]int{"alpha": 10, "beta": 4, "gamma": 0, "Random_0": 2}, r.ScoresByName())
		require.Equal(t, []string{"alpha", "beta", "gamma", "Random_0"}, r.Names())
	})
}

func TestResolveWinner(t *testing.T) {
	blue := game.Blue

	t.Run("engine winner wins outright", func(t *testing.T) {
		scores := map[game.Color]int{game.Red: 10, game.Blue: 10}
		require.Equal(t, Outright("beta"), ResolveWinner(seats(), &blue, scores))
	})

	t.Run("tie among the top scores", func(t *testing.T) {
		scores := map[game.Color]int{game.Red: 8, game.Blue: 5, game.White: 8, game.Orange: 3}
		require.Equal(t, Tie("alpha", "gamma"), ResolveWinner(seats(), nil, scores))
	})

	t.Run("single top score at the limit wins outright", func(t *testing.T) {
		scores := map[game.Color]int{game.Red: 8, game.Blue: 9}
		require.Equal(t, Outright("beta"), ResolveWinner(seats(), nil, scores))
	})

	t.Run("no scores at all ties everyone", func(t *testing.T) {
		got := ResolveWinner(seats(), nil, nil)
		require.True(t, got.Tie)
		require.Len(t, got.Names, 4)
	})
}

func TestWriter(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root)
	require.NoError(t, err)
	require.DirExists(t, w.Dir())

	records := []Result{
		{GameID: "M00_G00", Players: seats(), Winner: Outright("alpha"), DurationSeconds: 1.5,
			DetailedStats: &DetailedStats{TotalTurns: 40}, Timestamp: time.Now()},
		{GameID: "M00_G01", Players: seats(), Winner: Tie("alpha", "beta"), IsTie: true},
		{GameID: "M00_G02", Players: seats(), Error: "engine crashed"},
	}

	t.Run("game records csv", func(t *testing.T) {
		require.NoError(t, w.WriteGameRecords(records))

		f, err := os.Open(filepath.Join(w.Dir(), GameRecordsFile))
		require.NoError(t, err)
		defer f.Close()
		rows, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)

		require.Len(t, rows, 4)
		require.Equal(t, "game_id", rows[0][0])
		require.Equal(t, []string{"M00_G00", "0", "0", "alpha, beta, gamma, Random_0", "alpha", "false", "1.50", "40", "true", ""}, rows[1])
		require.Equal(t, "alpha|beta", rows[2][4])
		require.Equal(t, "Failed", rows[3][4])
		require.Equal(t, "engine crashed", rows[3][9])
	})

	t.Run("report round trips through Load", func(t *testing.T) {
		path, err := w.WriteReport(map[string]any{"games": records, "tournament_info": map[string]any{"name": "t"}})
		require.NoError(t, err)

		loaded, err := Load(path)

		require.NoError(t, err)
		require.Len(t, loaded, 3)
		require.Equal(t, Outright("alpha"), loaded[0].Winner)
		require.Equal(t, Tie("alpha", "beta"), loaded[1].Winner)
		require.Nil(t, loaded[2].Winner)
		require.Equal(t, 40, loaded[0].DetailedStats.TotalTurns)
	})

	t.Run("load accepts a bare list", func(t *testing.T) {
		path := filepath.Join(root, "list.json")
		data, err := json.Marshal(records[:1])
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data, 0644))

		loaded, err := Load(path)

		require.NoError(t, err)
		require.Len(t, loaded, 1)
	})

	t.Run("load reports missing files", func(t *testing.T) {
		_, err := Load(filepath.Join(root, "missing.json"))
		require.Error(t, err)
	})
}
