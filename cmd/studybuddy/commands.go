package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/studybuddy/internal/chatui"
	"github.com/verte-zerg/studybuddy/internal/config"
	"github.com/verte-zerg/studybuddy/internal/deck"
	"github.com/verte-zerg/studybuddy/internal/model"
	"github.com/verte-zerg/studybuddy/internal/stats"
	"github.com/verte-zerg/studybuddy/internal/statsui"
	"github.com/verte-zerg/studybuddy/internal/store"
)

const plainReportTimeout = 10 * time.Second

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
		logErrf("Created %s\n", path)
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newDecksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decks",
		Short: "List decks on the study server",
		Args:  cobra.NoArgs,
		RunE:  runDecksCmd,
	}
}

func runDecksCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	defer s.close()

	api, err := newClient(cmd, s)
	if err != nil {
		return err
	}
	decks, err := api.ListDecks(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list decks from %s: %w", api.BaseURL(), err)
	}
	if len(decks) == 0 {
		logErrln("No decks found. Study all cards with: studybuddy")
		return nil
	}
	for _, line := range formatDecks(decks) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func formatDecks(decks []model.DeckInfo) []string {
	rows := make([][]string, len(decks))
	for i, d := range decks {
		rows[i] = []string{strconv.FormatInt(d.ID, 10), d.Name, strconv.Itoa(d.CardCount), d.Category}
	}
	return stats.FormatTable([]string{"ID", "Name", "Cards", "Category"}, rows, map[int]bool{0: true, 2: true})
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show study history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsDeck, "deck", "", "deck filter (id, deck:<id>, file:<path>, all, fallback)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print the report to stdout instead of opening the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfigFromFlags()
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

	if statsPlain {
		return printStats(cmd, st, cfg)
	}

	s, err := loadSettings()
	if err != nil {
		return err
	}
	defer s.close()
	th, err := resolveTheme(cmd, s, config.DefaultStatePath())
	if err != nil {
		return err
	}

	m := statsui.NewModel(st, cfg, th)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func statsConfigFromFlags() (model.StatsConfig, error) {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be >= 1")
	}
	return model.StatsConfig{
		Deck:        deck.ParseKey(statsDeck),
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}, nil
}

func printStats(cmd *cobra.Command, st *store.Store, cfg model.StatsConfig) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), plainReportTimeout)
	defer cancel()
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(report.Sessions) == 0 {
		_, err := fmt.Fprintln(out, "No sessions found.")
		return err
	}
	if err := stats.RenderSummary(out, report.Sessions); err != nil {
		return err
	}
	if err := stats.RenderCurves(out, report.Sessions, cfg.CurveWindow); err != nil {
		return err
	}
	return stats.RenderCardTable(out, report.CardAggsWindow)
}

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the study assistant",
		Args:  cobra.NoArgs,
		RunE:  runChatCmd,
	}
	cmd.Flags().StringVar(&chatAsk, "ask", "", "send a single message and print the reply")
	return cmd
}

func runChatCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	defer s.close()

	api, err := newClient(cmd, s)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("ask") {
		reply, err := chatui.Ask(cmd.Context(), api, chatAsk)
		if _, werr := fmt.Fprintln(cmd.OutOrStdout(), reply); werr != nil {
			return fmt.Errorf("failed to write output: %w", werr)
		}
		if err != nil {
			s.logger.Error("chat request failed", "err", err)
			return fmt.Errorf("chat request failed: %w", err)
		}
		return nil
	}

	th, err := resolveTheme(cmd, s, config.DefaultStatePath())
	if err != nil {
		return err
	}
	m := chatui.NewModel(api, th, s.logger)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run chat TUI: %w", err)
	}
	return nil
}
