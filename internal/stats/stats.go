// Package stats summarizes the guess journal and progress for reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/tuidiner/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Accuracy returns correct/(correct+incorrect), or 0 without attempts.
func Accuracy(correct, incorrect int) float64 {
	den := correct + incorrect
	if den <= 0 {
		return 0
	}
	return float64(correct) / float64(den)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline over a fixed [0,1] scale.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	var b strings.Builder
	for _, v := range values {
		v = math.Max(0, math.Min(1, v))
		idx := int(math.Round(v * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints overall progress and journal totals.
func RenderSummary(w io.Writer, r Report) error {
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Levels solved: %d/%d (%.0f%%)\n", r.Solved, len(r.Levels), r.Percent*100); err != nil {
		return err
	}
	if r.Attempts == 0 {
		if _, err := fmt.Fprintln(w, "No guesses recorded."); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w, "")
		return err
	}
	if _, err := fmt.Fprintf(w, "Guesses: %d\n", r.Attempts); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Accuracy: %.2f%%\n", Accuracy(r.Correct, r.Attempts-r.Correct)*100); err != nil {
		return err
	}
	if hardest := HardestLevels(r.aggregates(), 3); len(hardest) > 0 {
		labels := make([]string, len(hardest))
		for i, level := range hardest {
			labels[i] = fmt.Sprintf("%d", level+1)
		}
		if _, err := fmt.Fprintf(w, "Hardest levels: %s\n", strings.Join(labels, ", ")); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderTrend prints a sparkline of recent guess accuracy, oldest first.
func RenderTrend(w io.Writer, r Report, window int) error {
	if len(r.Recent) == 0 {
		return nil
	}
	values := make([]float64, len(r.Recent))
	for i, ev := range r.Recent {
		if ev.Correct {
			values[i] = 1
		}
	}
	values = MovingAverage(values, window)
	if _, err := fmt.Fprintf(w, "Recent accuracy (last %d guesses)\n", len(values)); err != nil {
		return err
	}
	line := Sparkline(values)
	if width := terminalWidth() - 2; width > 0 && len(line) > width {
		line = line[len(line)-width:]
	}
	if _, err := fmt.Fprintf(w, "[%s]\n\n", line); err != nil {
		return err
	}
	return nil
}

// RenderLevelTable prints one row per catalog level.
func RenderLevelTable(w io.Writer, r Report, useColor bool) error {
	if len(r.Levels) == 0 {
		_, err := fmt.Fprintln(w, "No levels found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Level"); err != nil {
		return err
	}
	mark := "✓"
	if shouldUseColor(w, useColor) {
		mark = colorGreen + mark + colorReset
	}
	headers := []string{"Level", "Done", "Selector", "Attempts", "Correct", "Incorrect", "Accuracy", "Last"}
	rows := make([][]string, 0, len(r.Levels))
	for _, row := range r.Levels {
		done := ""
		if row.Solved {
			done = mark
		}
		acc, last := "-", "-"
		if row.Attempts > 0 {
			acc = fmt.Sprintf("%.0f%%", Accuracy(row.Correct, row.Incorrect)*100)
			last = row.LastAt.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", row.Level+1),
			done,
			row.Selector,
			fmt.Sprintf("%d", row.Attempts),
			fmt.Sprintf("%d", row.Correct),
			fmt.Sprintf("%d", row.Incorrect),
			acc,
			last,
		})
	}
	rightAlign := map[int]bool{0: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

func (r Report) aggregates() []model.LevelAggregate {
	out := make([]model.LevelAggregate, 0, len(r.Levels))
	for _, row := range r.Levels {
		out = append(out, row.LevelAggregate)
	}
	return out
}
