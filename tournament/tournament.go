// Package tournament runs 4-player Catan games across a roster of LLM players
// and collects one result per game. A failing game never stops the run.
package tournament

import (
	"catanbench/agent"
	"catanbench/engine"
	"catanbench/llm"
	"catanbench/meta"
	"catanbench/metrics"
	"catanbench/results"
	"catanbench/scoring"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var (
	ErrTooFewPlayers   = errors.New("tournament needs at least 2 players")
	ErrDuplicatePlayer = errors.New("player already registered")
	ErrReservedName    = errors.New("player name is reserved for random players")
)

// RandomModel is the model recorded for seats filled by random players.
const RandomModel = "RandomPlayer"

// PlayerConfig tunes the agent built for one player in every game. Zero
// values keep the agent defaults.
type PlayerConfig struct {
	Temperature  *float64
	MaxRetries   int
	Timeout      time.Duration
	RetryBackoff *time.Duration
	Repair       llm.Client
}

func (c PlayerConfig) options() []agent.Option {
	var options []agent.Option
	if c.Temperature != nil {
		options = append(options, agent.WithTemperature(*c.Temperature))
	}
	if c.MaxRetries > 0 {
		options = append(options, agent.WithMaxRetries(c.MaxRetries))
	}
	if c.Timeout > 0 {
		options = append(options, agent.WithTimeout(c.Timeout))
	}
	if c.RetryBackoff != nil {
		options = append(options, agent.WithRetryBackoff(*c.RetryBackoff))
	}
	if c.Repair != nil {
		options = append(options, agent.WithRepairClient(c.Repair))
	}
	return options
}

type entry struct {
	client llm.Client
	config PlayerConfig
}

type Option func(t *Tournament)

type Tournament struct {
	id              uuid.UUID
	name            string
	factory         engine.Factory
	gamesPerMatchup int
	turnLimit       int
	parallelism     int
	seed            int64
	writer          *results.Writer

	order  []string
	roster map[string]entry

	mu      sync.Mutex
	results []results.Result
}

func WithGamesPerMatchup(games int) Option {
	return func(t *Tournament) {
		if games > 0 {
			t.gamesPerMatchup = games
		}
	}
}

// WithTurnLimit stops games without a winner after turns turns. Zero leaves
// only the engine's move cap.
func WithTurnLimit(turns int) Option {
	return func(t *Tournament) {
		if turns >= 0 {
			t.turnLimit = turns
		}
	}
}

// WithParallelism plays up to n games at once. Every game builds its own agents.
func WithParallelism(n int) Option {
	return func(t *Tournament) {
		if n > 0 {
			t.parallelism = n
		}
	}
}

// WithSeed seeds the random players filling empty seats.
func WithSeed(seed int64) Option {
	return func(t *Tournament) {
		t.seed = seed
	}
}

// WithWriter persists the report, game records and standings after Run.
func WithWriter(w *results.Writer) Option {
	return func(t *Tournament) {
		t.writer = w
	}
}

func New(name string, factory engine.Factory, options ...Option) *Tournament {
	if factory == nil {
		panic("Tournament needs a game factory")
	}
	t := &Tournament{ // Default values
		id:              uuid.New(),
		name:            name,
		factory:         factory,
		gamesPerMatchup: meta.GAMES_PER_MATCHUP,
		turnLimit:       meta.TURN_LIMIT,
		parallelism:     meta.PARALLELISM,
		roster:          map[string]entry{},
	}
	for _, option := range options {
		option(t)
	}
	return t
}

func (t *Tournament) ID() string {
	return t.id.String()
}

func (t *Tournament) Name() string {
	return t.name
}

// AddPlayer registers a named player. Names are unique and must not use the
// random player prefix.
func (t *Tournament) AddPlayer(name string, client llm.Client, config PlayerConfig) error {
	if name == "" {
		return errors.New("player name is empty")
	}
	if client == nil {
		return fmt.Errorf("player %s has no backend client", name)
	}
	if isRandom(name) {
		return fmt.Errorf("%w: %s", ErrReservedName, name)
	}
	if _, ok := t.roster[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePlayer, name)
	}
	t.roster[name] = entry{client: client, config: config}
	t.order = append(t.order, name)
	return nil
}

func (t *Tournament) Players() []string {
	return append([]string(nil), t.order...)
}

// Run plays every scheduled game. When ctx is cancelled the games still in
// flight are discarded and the report over the completed games is returned
// together with ctx.Err().
func (t *Tournament) Run(ctx context.Context) (*Report, error) {
	tables, err := schedule(t.order)
	if err != nil {
		return nil, err
	}
	planned := jobs(tables, t.gamesPerMatchup)

	t.mu.Lock()
	t.results = nil
	t.mu.Unlock()

	start := time.Now()
	log.Info().Msgf("starting %s tournament %s with %d players, %d matchups and %d games...", t.name, t.id, len(t.order), len(tables), len(planned))

	var (
		g         errgroup.Group
		completed int
		progress  sync.Mutex
	)
	g.SetLimit(t.parallelism)
	for _, j := range planned {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			log.Info().Msgf("starting matchup %d of %d game %d of %d...", j.matchup.index+1, len(tables), j.game+1, t.gamesPerMatchup)

			result, ok := t.playGame(ctx, j)
			if !ok {
				log.Warn().Msgf("discarding game %s after cancellation", j.id())
				return nil
			}
			t.record(result)

			progress.Lock()
			completed++
			done := completed
			progress.Unlock()

			outcome := "failed: " + result.Error
			if result.Succeeded() {
				outcome = "winner: " + result.Winner.String()
			}
			log.Info().Msgf("completed game %s with %s", j.id(), outcome)
			log.Info().Msgf("game %d/%d completed (%.1f%%)", done, len(planned), 100*float64(done)/float64(len(planned)))
			return nil
		})
	}
	_ = g.Wait()

	end := time.Now()
	report := t.report(tables, len(planned), start, end)
	log.Info().Msgf("completed %s tournament: %d of %d games succeeded", t.name, report.Analysis.SuccessfulGames, report.Analysis.TotalGames)

	if t.writer != nil {
		if err := t.persist(report); err != nil {
			return report, err
		}
	}
	return report, ctx.Err()
}

func (t *Tournament) record(result results.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.results = append(t.results, result)
}

// Results returns the completed games ordered by matchup and game number.
func (t *Tournament) Results() []results.Result {
	t.mu.Lock()
	rs := append([]results.Result(nil), t.results...)
	t.mu.Unlock()

	sort.Slice(rs, func(i, j int) bool {
		if rs[i].MatchupIndex != rs[j].MatchupIndex {
			return rs[i].MatchupIndex < rs[j].MatchupIndex
		}
		return rs[i].GameNumber < rs[j].GameNumber
	})
	return rs
}

// Leaderboard ranks the players over the games completed so far.
func (t *Tournament) Leaderboard() []scoring.Standing {
	return scoring.Ranking(t.Results())
}

// playGame plays one game with fresh agents. It reports false when the game
// was cut short by cancellation and must be discarded.
func (t *Tournament) playGame(ctx context.Context, j job) (result results.Result, keep bool) {
	result = results.Result{
		GameID:       j.id(),
		MatchupIndex: j.matchup.index,
		GameNumber:   j.game,
		Timestamp:    time.Now().UTC(),
	}
	start := time.Now()

	players := make([]engine.Player, len(j.matchup.players))
	agents := map[string]*agent.Agent{}
	for seat, name := range j.matchup.players {
		color := seatColor(seat)
		e, ok := t.roster[name]
		if !ok {
			players[seat] = engine.NewRandomPlayer(name, color, t.seed+int64(j.matchup.index*1000+j.game*10+seat))
			result.Players = append(result.Players, results.Seat{Name: name, Color: color, Model: RandomModel, Type: results.RandomSeat})
			continue
		}
		a := agent.New(name, color, e.client, e.config.options()...)
		agents[name] = a
		players[seat] = a
		result.Players = append(result.Players, results.Seat{Name: name, Color: color, Model: a.Model(), Type: results.LLMSeat})
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("game %s panicked: %v", j.id(), r)
			result.Winner, result.IsTie = nil, false
			result.Error = fmt.Sprintf("panic: %v", r)
			keep = ctx.Err() == nil
		}
		result.DurationSeconds = time.Since(start).Seconds()
		result.PlayerPerformance = performance(agents)
	}()

	g, err := t.factory(ctx, players, t.turnLimit)
	if err != nil {
		if ctx.Err() != nil {
			return result, false
		}
		result.Error = fmt.Sprintf("failed to create game: %v", err)
		return result, true
	}
	outcome, err := g.Play(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return result, false
		}
		log.Warn().Err(err).Msgf("game %s failed", j.id())
		result.Error = err.Error()
		return result, true
	}

	result.FinalScores = outcome.Scores
	result.DetailedStats = &results.DetailedStats{TotalTurns: outcome.Turns, TotalMoves: outcome.Moves}
	result.Winner = results.ResolveWinner(result.Players, outcome.Winner, outcome.Scores)
	if result.Winner == nil {
		result.Error = "no winner could be determined"
		return result, true
	}
	result.IsTie = result.Winner.Tie
	return result, true
}

func performance(agents map[string]*agent.Agent) map[string]metrics.Summary {
	if len(agents) == 0 {
		return nil
	}
	perf := make(map[string]metrics.Summary, len(agents))
	for name, a := range agents {
		perf[name] = a.Stats()
	}
	return perf
}
