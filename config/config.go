// Package config loads the benchmark configuration from an optional JSON or
// YAML file, CATANBENCH_* environment variables and built-in defaults.
package config

import (
	"catanbench/llm"
	"catanbench/meta"
	"catanbench/tournament"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "CATANBENCH"

type TournamentConfig struct {
	Name            string `json:"name" mapstructure:"name"`
	GamesPerMatchup int    `json:"gamesPerMatchup" mapstructure:"gamesPerMatchup"`
	TurnLimit       int    `json:"turnLimit" mapstructure:"turnLimit"`
	Parallelism     int    `json:"parallelism" mapstructure:"parallelism"`
	OutputDir       string `json:"outputDir" mapstructure:"outputDir"`
	Format          string `json:"format" mapstructure:"format"`
	Seed            int64  `json:"seed" mapstructure:"seed"`
}

// AgentConfig holds the defaults every player starts from.
type AgentConfig struct {
	Temperature  float64       `json:"temperature" mapstructure:"temperature"`
	MaxRetries   int           `json:"maxRetries" mapstructure:"maxRetries"`
	Timeout      time.Duration `json:"timeout" mapstructure:"timeout"`
	RetryBackoff time.Duration `json:"retryBackoff" mapstructure:"retryBackoff"`
	// RepairModel, when set, rewrites unparseable replies using the player's endpoint.
	RepairModel string `json:"repairModel" mapstructure:"repairModel"`
}

type EngineConfig struct {
	URL     string        `json:"url" mapstructure:"url"`
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

// PlayerConfig is one roster entry. Unset tuning falls back to AgentConfig.
type PlayerConfig struct {
	Name              string   `json:"name" mapstructure:"name"`
	Model             string   `json:"model" mapstructure:"model"`
	BaseURL           string   `json:"baseURL" mapstructure:"baseURL"`
	APIKeyEnv         string   `json:"apiKeyEnv" mapstructure:"apiKeyEnv"`
	Temperature       *float64 `json:"temperature,omitempty" mapstructure:"temperature"`
	MaxRetries        int      `json:"maxRetries,omitempty" mapstructure:"maxRetries"`
	RequestsPerSecond float64  `json:"requestsPerSecond,omitempty" mapstructure:"requestsPerSecond"`
}

type Config struct {
	LogLevel   string           `json:"logLevel" mapstructure:"logLevel"`
	Tournament TournamentConfig `json:"tournament" mapstructure:"tournament"`
	Agent      AgentConfig      `json:"agent" mapstructure:"agent"`
	Engine     EngineConfig     `json:"engine" mapstructure:"engine"`
	Players    []PlayerConfig   `json:"players" mapstructure:"players"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")

	v.SetDefault("tournament.name", "catan")
	v.SetDefault("tournament.gamesPerMatchup", meta.GAMES_PER_MATCHUP)
	v.SetDefault("tournament.turnLimit", meta.TURN_LIMIT)
	v.SetDefault("tournament.parallelism", meta.PARALLELISM)
	v.SetDefault("tournament.outputDir", meta.OUTPUT_DIR)
	v.SetDefault("tournament.format", tournament.Format)
	v.SetDefault("tournament.seed", 0)

	v.SetDefault("agent.temperature", meta.TEMPERATURE)
	v.SetDefault("agent.maxRetries", meta.MAX_RETRIES)
	v.SetDefault("agent.timeout", meta.TIMEOUT.String())
	v.SetDefault("agent.retryBackoff", meta.RETRY_BACKOFF.String())
	v.SetDefault("agent.repairModel", "")

	v.SetDefault("engine.url", "http://localhost:5001")
	v.SetDefault("engine.timeout", "60s")
}

// Load reads path when it is not empty. Environment variables override file
// values, e.g. CATANBENCH_TOURNAMENT_TURNLIMIT=200.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.Tournament.Format != tournament.Format {
		return fmt.Errorf("unsupported tournament format %q", c.Tournament.Format)
	}
	seen := map[string]bool{}
	for i, p := range c.Players {
		if p.Name == "" {
			return fmt.Errorf("player %d has no name", i)
		}
		if p.Model == "" {
			return fmt.Errorf("player %s has no model", p.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: %s", tournament.ErrDuplicatePlayer, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// TournamentOptions maps the tournament section to orchestrator options.
func (c Config) TournamentOptions() []tournament.Option {
	return []tournament.Option{
		tournament.WithGamesPerMatchup(c.Tournament.GamesPerMatchup),
		tournament.WithTurnLimit(c.Tournament.TurnLimit),
		tournament.WithParallelism(c.Tournament.Parallelism),
		tournament.WithSeed(c.Tournament.Seed),
	}
}

// PlayerOptions merges the agent defaults with one player's overrides.
func (c Config) PlayerOptions(p PlayerConfig) tournament.PlayerConfig {
	temperature := c.Agent.Temperature
	if p.Temperature != nil {
		temperature = *p.Temperature
	}
	retries := c.Agent.MaxRetries
	if p.MaxRetries > 0 {
		retries = p.MaxRetries
	}
	backoff := c.Agent.RetryBackoff
	return tournament.PlayerConfig{
		Temperature:  &temperature,
		MaxRetries:   retries,
		Timeout:      c.Agent.Timeout,
		RetryBackoff: &backoff,
	}
}

// Client builds the player's OpenAI-compatible backend. The API key is read
// from the environment variable named by apiKeyEnv.
func (p PlayerConfig) Client() (llm.Client, error) {
	return p.client(p.Model)
}

func (p PlayerConfig) client(model string) (llm.Client, error) {
	if p.APIKeyEnv == "" {
		return nil, fmt.Errorf("player %s has no apiKeyEnv", p.Name)
	}
	key := os.Getenv(p.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("player %s: environment variable %s is empty", p.Name, p.APIKeyEnv)
	}
	client, err := llm.NewOpenAI(llm.OpenAIConfig{Model: model, APIKey: key, BaseURL: p.BaseURL})
	if err != nil {
		return nil, fmt.Errorf("player %s: %w", p.Name, err)
	}
	if p.RequestsPerSecond > 0 {
		return llm.Throttle(client, p.RequestsPerSecond, 1), nil
	}
	return client, nil
}

// Register adds every configured player to t in file order.
func (c Config) Register(t *tournament.Tournament) error {
	for _, p := range c.Players {
		client, err := p.Client()
		if err != nil {
			return err
		}
		options := c.PlayerOptions(p)
		if c.Agent.RepairModel != "" {
			options.Repair, err = p.client(c.Agent.RepairModel)
			if err != nil {
				return err
			}
		}
		if err := t.AddPlayer(p.Name, client, options); err != nil {
			return err
		}
	}
	return nil
}
