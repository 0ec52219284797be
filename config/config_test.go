package config

import (
	"catanbench/engine"
	"catanbench/meta"
	"catanbench/tournament"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_DefaultValues(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, meta.GAMES_PER_MATCHUP, c.Tournament.GamesPerMatchup)
	assert.Equal(t, meta.TURN_LIMIT, c.Tournament.TurnLimit)
	assert.Equal(t, 1, c.Tournament.Parallelism)
	assert.Equal(t, meta.OUTPUT_DIR, c.Tournament.OutputDir)
	assert.Equal(t, tournament.Format, c.Tournament.Format)
	assert.Equal(t, 0.1, c.Agent.Temperature)
	assert.Equal(t, 3, c.Agent.MaxRetries)
	assert.Equal(t, 30*time.Second, c.Agent.Timeout)
	assert.Equal(t, 500*time.Millisecond, c.Agent.RetryBackoff)
	assert.Equal(t, time.Minute, c.Engine.Timeout)
	assert.Empty(t, c.Players)
}

func TestLoad_WithJSONFile(t *testing.T) {
	path := writeFile(t, "catanbench.json", `{
		"logLevel": "debug",
		"tournament": { "name": "weekly", "gamesPerMatchup": 2, "parallelism": 4 },
		"agent": { "timeout": "45s", "retryBackoff": "0s" },
		"players": [
			{ "name": "gpt", "model": "gpt-4o-mini", "apiKeyEnv": "OPENAI_API_KEY" },
			{ "name": "claude", "model": "anthropic/claude-3.5-haiku", "baseURL": "https://openrouter.ai/api/v1", "apiKeyEnv": "OPENROUTER_API_KEY", "temperature": 0.7, "maxRetries": 5 }
		]
	}`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "weekly", c.Tournament.Name)
	assert.Equal(t, 2, c.Tournament.GamesPerMatchup)
	assert.Equal(t, 4, c.Tournament.Parallelism)
	assert.Equal(t, meta.TURN_LIMIT, c.Tournament.TurnLimit, "Unset keys keep their defaults")
	assert.Equal(t, 45*time.Second, c.Agent.Timeout)
	assert.Zero(t, c.Agent.RetryBackoff)
	require.Len(t, c.Players, 2)
	assert.Equal(t, "gpt", c.Players[0].Name)
	assert.Nil(t, c.Players[0].Temperature)
	require.NotNil(t, c.Players[1].Temperature)
	assert.Equal(t, 0.7, *c.Players[1].Temperature)
	assert.Equal(t, "https://openrouter.ai/api/v1", c.Players[1].BaseURL)
}

func TestLoad_WithYAMLFile(t *testing.T) {
	path := writeFile(t, "catanbench.yaml", `
tournament:
  turnLimit: 200
players:
  - name: local
    model: llama3
    baseURL: http://localhost:11434/v1
    apiKeyEnv: LOCAL_KEY
`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 200, c.Tournament.TurnLimit)
	require.Len(t, c.Players, 1)
	assert.Equal(t, "llama3", c.Players[0].Model)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("CATANBENCH_TOURNAMENT_TURNLIMIT", "60")
	t.Setenv("CATANBENCH_AGENT_TIMEOUT", "5s")
	t.Setenv("CATANBENCH_LOGLEVEL", "warn")
	path := writeFile(t, "catanbench.json", `{"tournament": {"turnLimit": 90}}`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 60, c.Tournament.TurnLimit, "Environment beats the file")
	assert.Equal(t, 5*time.Second, c.Agent.Timeout)
	assert.Equal(t, "warn", c.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load("/nonexistent/catanbench.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error reading config file")
	})

	t.Run("duplicate player", func(t *testing.T) {
		path := writeFile(t, "dup.json", `{"players": [{"name": "a", "model": "m"}, {"name": "a", "model": "m"}]}`)
		_, err := Load(path)
		require.ErrorIs(t, err, tournament.ErrDuplicatePlayer)
	})

	t.Run("player without model", func(t *testing.T) {
		path := writeFile(t, "nomodel.json", `{"players": [{"name": "a"}]}`)
		_, err := Load(path)
		require.ErrorContains(t, err, "has no model")
	})

	t.Run("unknown format", func(t *testing.T) {
		path := writeFile(t, "format.json", `{"tournament": {"format": "swiss"}}`)
		_, err := Load(path)
		require.ErrorContains(t, err, "swiss")
	})
}

func TestPlayerOptions(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	t.Run("defaults apply to players without overrides", func(t *testing.T) {
		options := c.PlayerOptions(PlayerConfig{Name: "a"})
		require.Equal(t, 0.1, *options.Temperature)
		require.Equal(t, 3, options.MaxRetries)
		require.Equal(t, 30*time.Second, options.Timeout)
		require.Equal(t, 500*time.Millisecond, *options.RetryBackoff)
	})

	t.Run("player overrides win", func(t *testing.T) {
		zero := 0.0
		options := c.PlayerOptions(PlayerConfig{Name: "a", Temperature: &zero, MaxRetries: 6})
		require.Equal(t, 0.0, *options.Temperature, "An explicit zero temperature is kept")
		require.Equal(t, 6, options.MaxRetries)
	})
}

func TestRegister(t *testing.T) {
	noGames := func(context.Context, []engine.Player, int) (engine.Game, error) { return nil, nil }

	t.Run("players are added in file order", func(t *testing.T) {
		t.Setenv("TEST_KEY", "sk-test")
		c := Config{Players: []PlayerConfig{
			{Name: "b", Model: "m1", APIKeyEnv: "TEST_KEY", RequestsPerSecond: 2},
			{Name: "a", Model: "m2", APIKeyEnv: "TEST_KEY", BaseURL: "http://localhost:8080/v1"},
		}}
		tour := tournament.New("t", noGames)

		require.NoError(t, c.Register(tour))
		require.Equal(t, []string{"b", "a"}, tour.Players())
	})

	t.Run("missing api key", func(t *testing.T) {
		c := Config{Players: []PlayerConfig{{Name: "a", Model: "m", APIKeyEnv: "CATANBENCH_TEST_UNSET_KEY"}}}
		err := c.Register(tournament.New("t", noGames))
		require.ErrorContains(t, err, "CATANBENCH_TEST_UNSET_KEY")
	})
}
