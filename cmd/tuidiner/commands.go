package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuidiner/internal/board"
	"github.com/verte-zerg/tuidiner/internal/config"
	"github.com/verte-zerg/tuidiner/internal/game"
	"github.com/verte-zerg/tuidiner/internal/stats"
	"github.com/verte-zerg/tuidiner/internal/tui"
)

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	logFile, err := openLogFile(config.DefaultLogPath())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil {
			// Best-effort close of the log file.
			_ = cerr
		}
	}()

	a, err := openApp(cmd, logFile)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	queue := game.NewQueue(nil)
	m := tui.NewModel(ctx, queue)
	session, err := a.newSession(ctx, queue, m)
	if err != nil {
		return err
	}
	m.SetSession(session)
	if playLevel > 0 {
		session.LoadLevel(ctx, playLevel-1)
	}

	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

func newLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List levels and completion",
		Args:  cobra.NoArgs,
		RunE:  runLevelsCmd,
	}
}

func runLevelsCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	session, err := a.newSession(cmd.Context(), game.NewQueue(nil))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for i, lv := range a.catalog.Levels() {
		mark := " "
		if session.Completed(i) {
			mark = "✓"
		}
		cursor := " "
		if i == session.CurrentLevel() {
			cursor = ">"
		}
		if _, err := fmt.Fprintf(out, "%s%s %2d  %-22s %s\n", cursor, mark, i+1, lv.Syntax, lv.DoThis); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current level",
		Args:  cobra.NoArgs,
		RunE:  runShowCmd,
	}
}

func runShowCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	session, err := a.newSession(cmd.Context(), game.NewQueue(nil))
	if err != nil {
		return err
	}
	return printLevel(cmd.OutOrStdout(), session)
}

func printLevel(w io.Writer, session *game.Session) error {
	index := session.CurrentLevel()
	lv := session.Level()
	b := session.Catalog().Board(index)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Level %d of %d", index+1, session.Catalog().Len())
	if session.Completed(index) {
		sb.WriteString(" ✓")
	}
	fmt.Fprintf(&sb, "\n%s\n\n", lv.DoThis)
	for _, line := range b.Lines(b.Query(lv.Selector)) {
		marker := "  "
		if line.Highlight {
			marker = "* "
		}
		fmt.Fprintf(&sb, "%s%s%s\n", marker, strings.Repeat("  ", line.Depth), line.Text)
	}
	sb.WriteString("\n")
	if lv.SelectorName != "" {
		fmt.Fprintf(&sb, "%s: %s\n", lv.SelectorName, lv.Syntax)
	} else {
		fmt.Fprintf(&sb, "%s\n", lv.Syntax)
	}
	if lv.HelpTitle != "" {
		fmt.Fprintf(&sb, "%s\n", lv.HelpTitle)
	}
	if lv.Help != "" {
		fmt.Fprintf(&sb, "%s\n", lv.Help)
	}
	for _, ex := range lv.Examples {
		fmt.Fprintf(&sb, "  - %s\n", ex)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <selector>",
		Short: "Submit a selector (or a level number) for the current level",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCheckCmd,
	}
}

func runCheckCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	queue := game.NewQueue(nil)
	session, err := a.newSession(ctx, queue)
	if err != nil {
		return err
	}
	text := strings.Join(args, " ")
	out := cmd.OutOrStdout()

	outcome := session.SubmitGuess(ctx, text)
	switch outcome.Kind {
	case game.OutcomeJump:
		_, err = fmt.Fprintf(out, "Jumped to level %d: %s\n", outcome.Level+1, session.Level().DoThis)
		return err
	case game.OutcomeIgnored:
		_, err = fmt.Fprintln(out, "All levels done. Pick a level number to keep playing.")
		return err
	case game.OutcomeIncorrect:
		_, err = fmt.Fprintf(out, "Not quite: %s\n", describeMatch(outcome))
		return err
	}

	if _, err := fmt.Fprintf(out, "Correct! %s\n", describeMatch(outcome)); err != nil {
		return err
	}
	if outcome.Finished {
		_, err = fmt.Fprintln(out, "You did it! You rock at CSS.")
		return err
	}
	if err := waitForQueue(ctx, queue); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Next: level %d: %s\n", session.CurrentLevel()+1, session.Level().DoThis)
	return err
}

func describeMatch(outcome game.Outcome) string {
	eval := outcome.Evaluation
	if len(eval.Candidate) == 0 {
		return "your selector matched nothing"
	}
	tags := make([]string, 0, len(eval.Candidate))
	for _, n := range eval.Candidate {
		tags = append(tags, board.Describe(n))
	}
	return fmt.Sprintf("matched %d of %d target elements: %s", len(eval.Candidate), len(eval.Canonical), strings.Join(tags, " "))
}

// waitForQueue sleeps until every pending task ran.
func waitForQueue(ctx context.Context, queue *game.Queue) error {
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		next, ok := queue.Next()
		if !ok {
			return nil
		}
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case now := <-timer.C:
			queue.RunDue(now)
		}
	}
}

func newNavCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nav <next|prev|level>",
		Short: "Move to another level",
		Args:  cobra.ExactArgs(1),
		RunE:  runNavCmd,
	}
}

func runNavCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	session, err := a.newSession(ctx, game.NewQueue(nil))
	if err != nil {
		return err
	}
	switch target := strings.ToLower(strings.TrimSpace(args[0])); target {
	case "next", "n":
		session.Navigate(ctx, game.Next)
	case "prev", "p":
		session.Navigate(ctx, game.Prev)
	default:
		n, err := strconv.Atoi(target)
		if err != nil {
			return fmt.Errorf("invalid level %q: use next, prev or a level number", args[0])
		}
		session.LoadLevel(ctx, n-1)
	}
	return printLevel(cmd.OutOrStdout(), session)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show progress and guess stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsRecent, "recent", defaultRecentWindow, "number of recent guesses in the trend")
	cmd.Flags().BoolVar(&statsColor, "color", false, "force colored output")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	session, err := a.newSession(ctx, game.NewQueue(nil))
	if err != nil {
		return err
	}
	report, err := stats.BuildReport(ctx, a.store, a.catalog.Levels(), session.Progress(), statsRecent)
	if err != nil {
		return fmt.Errorf("failed to build stats: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report); err != nil {
		return err
	}
	if err := stats.RenderTrend(out, report, defaultTrendWindow); err != nil {
		return err
	}
	return stats.RenderLevelTable(out, report, statsColor)
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase progress and return to level 1",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetJournal, "journal", false, "also delete the guess history used by stats")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	session, err := a.newSession(ctx, game.NewQueue(nil))
	if err != nil {
		return err
	}
	session.ResetAll(ctx)
	if resetJournal {
		if err := a.store.ClearGuesses(ctx); err != nil {
			return fmt.Errorf("failed to clear guess history: %w", err)
		}
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "Progress reset.")
	return err
}
