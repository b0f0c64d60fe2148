// Package main provides the CLI entrypoint for tuiguess.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuiguess/internal/config"
	"github.com/verte-zerg/tuiguess/internal/game"
	"github.com/verte-zerg/tuiguess/internal/generator"
	"github.com/verte-zerg/tuiguess/internal/ledger"
	"github.com/verte-zerg/tuiguess/internal/logging"
	"github.com/verte-zerg/tuiguess/internal/model"
	"github.com/verte-zerg/tuiguess/internal/prompt"
	"github.com/verte-zerg/tuiguess/internal/stats"
	"github.com/verte-zerg/tuiguess/internal/statsui"
	"github.com/verte-zerg/tuiguess/internal/store"
	"github.com/verte-zerg/tuiguess/internal/tui"
)

const (
	defaultTop         = 10
	defaultTrendWindow = 5
	defaultLogLevel    = "info"
)

var (
	stateFile string
	historyDB string
	logLevel  string

	playDifficulty string
	playPlayer     string
	playSeed       int64

	filterDifficulty string
	filterPlayer     string
	filterSince      string
	filterLast       int
	trendWindow      int
	showGuesses      bool

	scoresTop int
	resetYes  bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuiguess",
		Short:         "Terminal number guessing game",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}
	rootCmd.PersistentFlags().StringVar(&stateFile, "state-file", "", "path of the JSON high score file")
	rootCmd.PersistentFlags().StringVar(&historyDB, "history-db", "", "path of the SQLite history archive")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	addPlayFlags(rootCmd)

	rootCmd.AddCommand(newPlainCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newScoresCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newDifficultiesCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newResetCmd())

	return rootCmd
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&playDifficulty, "difficulty", game.DefaultDifficulty, "difficulty (easy, medium, hard, expert)")
	cmd.Flags().StringVar(&playPlayer, "player", "", "player name (asked when empty)")
	cmd.Flags().Int64Var(&playSeed, "seed", 0, "random seed for reproducible targets (0 = time based)")
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&filterDifficulty, "difficulty", "", "difficulty filter")
	cmd.Flags().StringVar(&filterPlayer, "player", "", "player filter")
	cmd.Flags().StringVar(&filterSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&filterLast, "last", 0, "limit to last N games")
}

// app holds the collaborators shared by all commands.
type app struct {
	log    zerolog.Logger
	logs   io.Closer
	store  *store.Store
	ledger *ledger.Ledger
}

func openApp(cmd *cobra.Command, fileCfg config.FileConfig, withArchive bool) (*app, error) {
	applyStringConfig(cmd, "state-file", &stateFile, fileCfg.Game.StateFile)
	applyStringConfig(cmd, "history-db", &historyDB, fileCfg.Game.HistoryDB)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Game.LogLevel)
	if stateFile == "" {
		stateFile = config.DefaultStatePath()
	}
	if historyDB == "" {
		historyDB = config.DefaultDBPath()
	}

	warn := logging.Console(cmd.ErrOrStderr(), zerolog.WarnLevel)
	log, logs, err := logging.Open(config.DefaultLogPath(), logLevel)
	if err != nil {
		if _, perr := logging.ParseLevel(logLevel); perr != nil {
			return nil, perr
		}
		warn.Warn().Err(err).Msg("logging disabled")
	}
	a := &app{log: log, logs: logs}

	var archive ledger.Archive
	if withArchive {
		st, err := store.Open(historyDB)
		if err != nil {
			log.Warn().Err(err).Str("path", historyDB).Msg("history archive unavailable")
			warn.Warn().Err(err).Msg("history archive unavailable; games are still saved to the score file")
		} else {
			a.store = st
			archive = st
		}
	}

	l, err := ledger.Open(stateFile, archive, log)
	if err != nil {
		warn.Warn().Err(err).Msg("could not read scores; starting with empty scores")
	}
	a.ledger = l
	return a, nil
}

func (a *app) Close() {
	if a.store != nil {
		if cerr := a.store.Close(); cerr != nil {
			a.log.Warn().Err(cerr).Msg("failed to close db")
		}
	}
	if cerr := a.logs.Close(); cerr != nil {
		// Best-effort close of the log file.
		_ = cerr
	}
}

func loadFileConfig() (config.FileConfig, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.FileConfig{}, err
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	config.ApplyEnv(&fileCfg)
	return fileCfg, nil
}

// preparePlay resolves settings for the interactive commands.
func preparePlay(cmd *cobra.Command) (*app, model.GameConfig, game.Source, error) {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return nil, model.GameConfig{}, nil, err
	}
	applyStringConfig(cmd, "difficulty", &playDifficulty, fileCfg.Game.Difficulty)
	applyStringConfig(cmd, "player", &playPlayer, fileCfg.Game.Player)
	applyInt64Config(cmd, "seed", &playSeed, fileCfg.Game.Seed)

	cfg, err := game.Lookup(playDifficulty)
	if err != nil {
		return nil, model.GameConfig{}, nil, fmt.Errorf("invalid --difficulty: %w", err)
	}
	a, err := openApp(cmd, fileCfg, true)
	if err != nil {
		return nil, model.GameConfig{}, nil, err
	}
	return a, cfg, newSource(playSeed), nil
}

func newSource(seed int64) game.Source {
	if seed != 0 {
		return generator.NewSeeded(seed)
	}
	return generator.New()
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	a, cfg, src, err := preparePlay(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	a.log.Info().Str("difficulty", cfg.Key).Str("mode", "tui").Msg("starting")
	m := tui.NewModel(a.ledger, src, a.log, cfg, playPlayer)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newPlainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plain",
		Short: "Play with a line-based prompt",
		Args:  cobra.NoArgs,
		RunE:  runPlainCmd,
	}
	addPlayFlags(cmd)
	return cmd
}

func runPlainCmd(cmd *cobra.Command, _ []string) error {
	a, cfg, src, err := preparePlay(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	a.log.Info().Str("difficulty", cfg.Key).Str("mode", "plain").Msg("starting")
	p := prompt.New(cmd.InOrStdin(), cmd.OutOrStdout(), a.ledger, src, a.log)
	if err := p.Run(cmd.Context(), playPlayer, cfg); err != nil {
		return fmt.Errorf("failed to run prompt: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Browse stats, high scores and history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	addFilterFlags(cmd)
	cmd.Flags().IntVar(&trendWindow, "trend-window", defaultTrendWindow, "moving average window for the score trend")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "trend-window", &trendWindow, fileCfg.Game.TrendWindow)
	if trendWindow < 1 {
		return fmt.Errorf("--trend-window must be >= 1")
	}
	filter, err := historyFilter()
	if err != nil {
		return err
	}
	a, err := openApp(cmd, fileCfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	m := statsui.NewModel(a.store, a.ledger, filter, trendWindow)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Print the high score table",
		Args:  cobra.NoArgs,
		RunE:  runScoresCmd,
	}
	cmd.Flags().IntVar(&scoresTop, "top", defaultTop, "number of entries to show")
	return cmd
}

func runScoresCmd(cmd *cobra.Command, _ []string) error {
	if scoresTop < 1 {
		return fmt.Errorf("--top must be >= 1")
	}
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	a, err := openApp(cmd, fileCfg, false)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, a.ledger.Stats()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderLeaderboard(out, a.ledger.HighScores(), scoresTop, time.Now()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print past games",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	addFilterFlags(cmd)
	cmd.Flags().BoolVar(&showGuesses, "guesses", false, "print each game's guess log")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	filter, err := historyFilter()
	if err != nil {
		return err
	}
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	window := defaultTrendWindow
	if fileCfg.Game.TrendWindow != nil && *fileCfg.Game.TrendWindow > 0 {
		window = *fileCfg.Game.TrendWindow
	}
	a, err := openApp(cmd, fileCfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	outcomes, err := loadHistory(cmd.Context(), a, filter)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderHistory(out, outcomes, time.Now()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(outcomes) == 0 {
		return nil
	}
	if showGuesses {
		if _, err := fmt.Fprintln(out); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := stats.RenderGuesses(out, loadGuesses(cmd.Context(), a, outcomes)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderBreakdown(out, stats.ByDifficulty(outcomes)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderTrend(out, outcomes, window, stats.TerminalWidth()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// loadHistory prefers the archive and falls back to the score file.
func loadHistory(ctx context.Context, a *app, filter model.HistoryFilter) ([]model.SessionOutcome, error) {
	if a.store != nil {
		outcomes, err := a.store.ListOutcomes(ctx, filter)
		if err == nil {
			return outcomes, nil
		}
		a.log.Warn().Err(err).Msg("failed to read archive, using score file")
	}
	return stats.FilterOutcomes(a.ledger.History(), filter), nil
}

// loadGuesses attaches archived guess logs. The score file keeps none.
func loadGuesses(ctx context.Context, a *app, outcomes []model.SessionOutcome) []model.SessionOutcome {
	if a.store == nil {
		return outcomes
	}
	withGuesses := make([]model.SessionOutcome, len(outcomes))
	copy(withGuesses, outcomes)
	for i := range withGuesses {
		if withGuesses[i].ID == "" {
			continue
		}
		guesses, err := a.store.ListGuesses(ctx, withGuesses[i].ID)
		if err != nil {
			a.log.Warn().Err(err).Str("session", withGuesses[i].ID).Msg("failed to read guess log")
			continue
		}
		withGuesses[i].Guesses = guesses
	}
	return withGuesses
}

func historyFilter() (model.HistoryFilter, error) {
	if filterLast < 0 {
		return model.HistoryFilter{}, fmt.Errorf("--last must be >= 0")
	}
	if filterDifficulty != "" {
		cfg, err := game.Lookup(filterDifficulty)
		if err != nil {
			return model.HistoryFilter{}, fmt.Errorf("invalid --difficulty: %w", err)
		}
		filterDifficulty = cfg.Label
	}
	filter := model.HistoryFilter{
		Difficulty: filterDifficulty,
		Player:     strings.TrimSpace(filterPlayer),
		Last:       filterLast,
	}
	if filterSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", filterSince, time.Local)
		if err != nil {
			return model.HistoryFilter{}, fmt.Errorf("invalid --since value: %w", err)
		}
		filter.Since = &parsed
	}
	return filter, nil
}

func newDifficultiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "difficulties",
		Short: "List difficulty presets",
		Args:  cobra.NoArgs,
		RunE:  runDifficultiesCmd,
	}
}

func runDifficultiesCmd(cmd *cobra.Command, _ []string) error {
	for _, cfg := range game.Difficulties() {
		marker := " "
		if cfg.Key == game.DefaultDifficulty {
			marker = "*"
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %-7s %s\n", marker, cfg.Key, game.Describe(cfg)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeConfigTemplate(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeConfigTemplate creates the config file unless it already exists.
func writeConfigTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear high scores, stats and history",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "confirm deletion")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		return errors.New("refusing to reset without --yes")
	}
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	a, err := openApp(cmd, fileCfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.ledger.Reset(); err != nil {
		return err
	}
	if a.store != nil {
		if err := a.store.DeleteAll(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear archive: %w", err)
		}
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Cleared scores in %s\n", a.ledger.Path()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuiguess configuration
# Uncomment a value to enable it. Environment variables (%s, %s,
# %s, %s) override the file; CLI flags override both.

[game]
# difficulty = %q     # easy, medium, hard or expert
# player = "name"         # Skip the name prompt
# state-file = %q
# history-db = %q
# log-level = %q
# seed = 0                # Fixed random seed (0 = time based)
# trend-window = %d        # Moving average window for the score trend
`,
		config.EnvStateFile,
		config.EnvHistoryDB,
		config.EnvLogLevel,
		config.EnvPlayer,
		game.DefaultDifficulty,
		config.DefaultStatePath(),
		config.DefaultDBPath(),
		defaultLogLevel,
		defaultTrendWindow,
	)
}
