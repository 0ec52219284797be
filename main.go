package main

import (
	"catanbench/config"
	"catanbench/engine"
	"catanbench/results"
	"catanbench/scoring"
	"catanbench/tournament"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configFile  string
	resultsFile string
	csvDir      string
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "catanbench",
		Short:        "Benchmark LLMs by playing Settlers of Catan against each other",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "JSON or YAML configuration file")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a tournament against a Catan rules engine server",
		Long:  `Plays every matchup of the configured roster through the rules engine at engine.url and stores the report, game records and standings.`,
		Args:  cobra.NoArgs,
		RunE:  runTournament,
	}

	rankCmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank the players of a saved results file",
		Args:  cobra.NoArgs,
		RunE:  runRank,
	}
	rankCmd.Flags().StringVar(&resultsFile, "results", "", "tournament_results.json or a JSON list of game results")
	rankCmd.Flags().StringVar(&csvDir, "csv", "", "also write standings.csv into this directory")
	_ = rankCmd.MarkFlagRequired("results")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as JSON",
		Args:  cobra.NoArgs,
		RunE:  runConfig,
	}

	rootCmd.AddCommand(runCmd, rankCmd, configCmd)
	return rootCmd
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Warn().Msgf("unknown log level %q, using info", level)
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

func runTournament(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	setupLogging(cfg.LogLevel)

	writer, err := results.NewWriter(cfg.Tournament.OutputDir)
	if err != nil {
		return err
	}
	factory := engine.LocalFactory(engine.RemoteFactory(cfg.Engine.URL, cfg.Engine.Timeout))
	options := append(cfg.TournamentOptions(), tournament.WithWriter(writer))
	t := tournament.New(cfg.Tournament.Name, factory, options...)
	if err := cfg.Register(t); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	report, err := t.Run(ctx)
	if report != nil {
		printStandings(cmd.OutOrStdout(), report.Leaderboard)
		fmt.Fprintf(cmd.OutOrStdout(), "\nResults stored in %s\n", writer.Dir())
	}
	return err
}

func runRank(cmd *cobra.Command, _ []string) error {
	setupLogging("info")

	rs, err := results.Load(resultsFile)
	if err != nil {
		return err
	}
	standings := scoring.Ranking(rs)
	printStandings(cmd.OutOrStdout(), standings)

	if csvDir != "" {
		if err := os.MkdirAll(csvDir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		path := filepath.Join(csvDir, results.StandingsFile)
		if err := results.WriteCSV(path, scoring.StandingsHeader, scoring.StandingsRows(standings)); err != nil {
			return err
		}
		log.Info().Msgf("stored standings in %s", path)
	}
	return nil
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func printStandings(out io.Writer, standings []scoring.Standing) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tPLAYER\tMODEL\tGAMES\tWINS\tWIN RATE\tELO\tCOMPETENCE")
	for _, s := range standings {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.2f\t%.1f%%\t%.1f\t%.3f\n",
			s.Rank, s.Player, s.Model, s.Games, s.Wins, 100*s.WinRate, s.Elo, s.Competence)
	}
	w.Flush()
}
