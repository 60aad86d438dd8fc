package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tuidiner/internal/model"
)

func TestAccuracy(t *testing.T) {
	if got := Accuracy(3, 1); got != 0.75 {
		t.Fatalf("expected 0.75, got %v", got)
	}
	if got := Accuracy(0, 0); got != 0 {
		t.Fatalf("expected 0 without attempts, got %v", got)
	}
}

func TestSparklineFixedScale(t *testing.T) {
	got := Sparkline([]float64{0, 0.5, 1, 2, -1})
	if got != " +@@ " {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{1, 0, 1, 1}, 2)
	want := []float64{1, 0.5, 0.5, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func sampleReport() Report {
	at := time.Date(2024, 3, 4, 5, 6, 0, 0, time.UTC)
	return Report{
		Levels: []LevelRow{
			{LevelAggregate: model.LevelAggregate{Level: 0, Attempts: 3, Correct: 1, Incorrect: 2, LastAt: at}, Selector: "plate", Solved: true},
			{LevelAggregate: model.LevelAggregate{Level: 1}, Selector: "bento"},
		},
		Recent: []model.GuessEvent{
			{Level: 0, Selector: "apple"}, {Level: 0, Selector: "bento"}, {Level: 0, Selector: "plate", Correct: true},
		},
		Solved:   1,
		Percent:  0.5,
		Attempts: 3,
		Correct:  1,
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, sampleReport()); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Levels solved: 1/2 (50%)", "Guesses: 3", "Accuracy: 33.33%", "Hardest levels: 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSummaryWithoutGuesses(t *testing.T) {
	var buf bytes.Buffer
	r := Report{Levels: []LevelRow{{Selector: "plate"}}}
	if err := RenderSummary(&buf, r); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if !strings.Contains(buf.String(), "No guesses recorded.") {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}
}

func TestRenderLevelTable(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	if err := RenderLevelTable(&buf, sampleReport(), true); err != nil {
		t.Fatalf("render table: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected title, header and 2 rows, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[2], "✓") || !strings.Contains(lines[2], "33%") {
		t.Fatalf("unexpected solved row %q", lines[2])
	}
	if strings.Contains(lines[3], "✓") || !strings.Contains(lines[3], "-") {
		t.Fatalf("unexpected unplayed row %q", lines[3])
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected NO_COLOR to disable color")
	}
}

func TestRenderTrend(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderTrend(&buf, sampleReport(), 1); err != nil {
		t.Fatalf("render trend: %v", err)
	}
	if !strings.Contains(buf.String(), "[  @]") {
		t.Fatalf("unexpected trend output %q", buf.String())
	}
	buf.Reset()
	if err := RenderTrend(&buf, Report{}, 1); err != nil || buf.Len() != 0 {
		t.Fatalf("expected no output without guesses")
	}
}
