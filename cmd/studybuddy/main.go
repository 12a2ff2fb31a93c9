// Package main provides the CLI entrypoint for studybuddy.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/studybuddy/internal/client"
	"github.com/verte-zerg/studybuddy/internal/config"
	"github.com/verte-zerg/studybuddy/internal/deck"
	"github.com/verte-zerg/studybuddy/internal/model"
	"github.com/verte-zerg/studybuddy/internal/sink"
	"github.com/verte-zerg/studybuddy/internal/store"
	"github.com/verte-zerg/studybuddy/internal/tui"
)

const (
	defaultServer      = "http://localhost:5000"
	defaultWeakTop     = 10
	defaultWeakWindow  = 20
	defaultCurveWindow = 5
)

var (
	studyServer     string
	studyDeck       int64
	studyFile       string
	studyQuiz       bool
	studySeed       int64
	studyTheme      string
	studyFocusWeak  bool
	studyWeakTop    int
	studyWeakWindow int
	studyNoSync     bool

	statsDeck        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	chatAsk string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "studybuddy",
		Short:         "Flashcard study sessions in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runStudyCmd,
	}

	rootCmd.PersistentFlags().StringVar(&studyServer, "server", defaultServer, "study server base URL")
	rootCmd.PersistentFlags().StringVar(&studyTheme, "theme", "", "color theme (light or dark)")
	rootCmd.Flags().Int64Var(&studyDeck, "deck", 0, "deck id to study (default: all cards)")
	rootCmd.Flags().StringVar(&studyFile, "file", "", "study a local YAML or text deck file")
	rootCmd.Flags().BoolVar(&studyQuiz, "quiz", false, "start in quiz mode (shuffled)")
	rootCmd.Flags().Int64Var(&studySeed, "seed", 0, "shuffle seed (0 = random)")
	rootCmd.Flags().BoolVar(&studyFocusWeak, "focus-weak", false, "study only cards missed in recent sessions")
	rootCmd.Flags().IntVar(&studyWeakTop, "weak-top", defaultWeakTop, "number of weak cards to focus on")
	rootCmd.Flags().IntVar(&studyWeakWindow, "weak-window", defaultWeakWindow, "number of recent sessions to compute weak cards")
	rootCmd.Flags().BoolVar(&studyNoSync, "no-sync", false, "do not post progress or card results to the server")
	rootCmd.MarkFlagsMutuallyExclusive("deck", "file")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDecksCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newChatCmd())

	return rootCmd
}

func runStudyCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	defer s.close()

	cfg, err := resolveStudyConfig(cmd, s)
	if err != nil {
		return err
	}
	statePath := config.DefaultStatePath()
	th, err := resolveTheme(cmd, s, statePath)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	api := client.New(cfg.Server, cfg.Token, cfg.Timeout)
	var judger tui.Judger
	var reporter *sink.Reporter
	if !cfg.NoSync {
		reporter = sink.NewReporter(api, s.logger, cfg.Timeout)
		judger = reporter
	}
	s.logger.Info("study session starting", "server", cfg.Server, "file", cfg.DeckFile, "quiz", cfg.Quiz, "sync", !cfg.NoSync)

	m := tui.NewModel(tui.Options{
		Config:    cfg,
		Loader:    deckLoader(cfg, api, s),
		Store:     st,
		Reporter:  judger,
		Logger:    s.logger,
		Theme:     th,
		StatePath: statePath,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	_, runErr := program.Run()
	reporter.Wait()
	if runErr != nil {
		return fmt.Errorf("failed to run TUI: %w", runErr)
	}
	return nil
}

// deckLoader picks the card source: a local file when one is configured,
// otherwise the server with the built-in deck as fallback.
func deckLoader(cfg model.Config, api *client.Client, s *settings) tui.Loader {
	if cfg.DeckFile != "" {
		path := cfg.DeckFile
		return func(context.Context) (deck.Result, error) {
			cards, err := deck.LoadFile(path)
			if err != nil {
				return deck.Result{}, err
			}
			return deck.Result{Cards: cards, Key: deck.KeyForFile(path)}, nil
		}
	}
	deckID := cfg.DeckID
	return func(ctx context.Context) (deck.Result, error) {
		return deck.Load(ctx, api, deckID, s.logger)
	}
}

func resolveStudyConfig(cmd *cobra.Command, s *settings) (model.Config, error) {
	fc := s.file.Study
	applyBoolConfig(cmd, "quiz", &studyQuiz, fc.Quiz)
	applyInt64Config(cmd, "seed", &studySeed, fc.Seed)
	applyBoolConfig(cmd, "focus-weak", &studyFocusWeak, fc.FocusWeak)
	applyIntConfig(cmd, "weak-top", &studyWeakTop, fc.WeakTop)
	applyIntConfig(cmd, "weak-window", &studyWeakWindow, fc.WeakWindow)
	if !cmd.Flags().Changed("file") {
		applyInt64Config(cmd, "deck", &studyDeck, fc.Deck)
	}

	timeout, err := resolveTimeout(s.file)
	if err != nil {
		return model.Config{}, err
	}
	advance, err := config.ParseDuration("auto-advance", fc.AutoAdvance)
	if err != nil {
		return model.Config{}, err
	}

	cfg := model.Config{
		Server:     resolveServer(cmd, s),
		Timeout:    timeout,
		Quiz:       studyQuiz,
		Seed:       studySeed,
		FocusWeak:  studyFocusWeak,
		WeakTop:    studyWeakTop,
		WeakWindow: studyWeakWindow,
		NoSync:     studyNoSync,
		Theme:      studyTheme,
	}
	if s.env.Token != nil {
		cfg.Token = *s.env.Token
	}
	if advance != nil {
		cfg.AutoAdvance = *advance
	}
	if studyFile != "" {
		abs, err := filepath.Abs(studyFile)
		if err != nil {
			return model.Config{}, fmt.Errorf("invalid --file path: %w", err)
		}
		cfg.DeckFile = abs
	} else if studyDeck != 0 {
		id := studyDeck
		cfg.DeckID = &id
	}

	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if cfg.Server == "" {
		return fmt.Errorf("--server must not be empty")
	}
	if cfg.DeckID != nil && *cfg.DeckID < 1 {
		return fmt.Errorf("--deck must be a positive deck id")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("server timeout must be > 0")
	}
	return nil
}
