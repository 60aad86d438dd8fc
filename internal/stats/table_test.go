package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Level", "Done", "Selector"}
	rows := [][]string{
		{"1", "✓", "plate"},
		{"12", "", "#fancy pickle"},
	}
	rightAlign := map[int]bool{0: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Level Done Selector     " {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "    1 ✓    plate        " {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "   12      #fancy pickle" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestDisplayWidthSkipsColor(t *testing.T) {
	if got := displayWidth(colorGreen + "✓" + colorReset); got != 1 {
		t.Fatalf("expected colored mark to be 1 cell, got %d", got)
	}
}
