package board

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, markup string) *Board {
	t.Helper()
	b, err := Parse(markup)
	if err != nil {
		t.Fatalf("parse board: %v", err)
	}
	return b
}

func TestParseExpandsSelfClosingTags(t *testing.T) {
	b := mustParse(t, `<plate/><plate id="fancy" /><bento><orange/></bento>`)
	elems := b.Elements()
	if len(elems) != 4 {
		t.Fatalf("expected 4 elements, got %d", len(elems))
	}
	for _, n := range elems[:3] {
		if n.Parent != b.Root() {
			t.Fatalf("expected %s to be a direct child of the root", n.Data)
		}
	}
	if elems[3].Data != "orange" || elems[3].Parent.Data != "bento" {
		t.Fatalf("expected orange nested in bento, got %s in %s", elems[3].Data, elems[3].Parent.Data)
	}
}

func TestQueryExcludesRoot(t *testing.T) {
	b := mustParse(t, `<plate/><bento><plate/></bento>`)
	if got := b.Query("div"); len(got) != 0 {
		t.Fatalf("expected root container to be excluded, got %d nodes", len(got))
	}
	if got := b.Query(".table"); len(got) != 0 {
		t.Fatalf("expected .table to match nothing, got %d nodes", len(got))
	}
	if got := b.Query("*"); len(got) != 3 {
		t.Fatalf("expected 3 nodes for *, got %d", len(got))
	}
	if got := b.Query(".table > plate"); len(got) != 1 {
		t.Fatalf("expected root-scoped selector to match 1 plate, got %d", len(got))
	}
}

func TestQueryInvalidSelectorMatchesNothing(t *testing.T) {
	b := mustParse(t, `<plate/>`)
	for _, sel := range []string{"", "   ", "plate[", ">>", "#"} {
		if got := b.Query(sel); len(got) != 0 {
			t.Fatalf("expected %q to match nothing, got %d", sel, len(got))
		}
		if Valid(sel) {
			t.Fatalf("expected %q to be invalid", sel)
		}
	}
	if !Valid("plate apple") {
		t.Fatalf("expected descendant selector to be valid")
	}
}

func TestFingerprintPaths(t *testing.T) {
	b := mustParse(t, `<plate><apple/></plate><bento/>`)
	apples := b.Query("apple")
	if len(apples) != 1 {
		t.Fatalf("expected 1 apple, got %d", len(apples))
	}
	if fp := b.Fingerprint(apples[0]); fp != "0.0" {
		t.Fatalf("expected fingerprint 0.0, got %q", fp)
	}
	bentos := b.Query("bento")
	if fp := b.Fingerprint(bentos[0]); fp != "1" {
		t.Fatalf("expected fingerprint 1, got %q", fp)
	}
	other := mustParse(t, `<bento/>`)
	if fp := b.Fingerprint(other.Query("bento")[0]); fp != "" {
		t.Fatalf("expected empty fingerprint for foreign node, got %q", fp)
	}
}

func TestLinesHighlightSubtree(t *testing.T) {
	b := mustParse(t, `<plate id="fancy"><apple/></plate><pickle/>`)
	lines := b.Lines(b.Query("#fancy"))
	want := []string{`<div class="table">`, `<plate id="fancy">`, `<apple />`, `</plate>`, `<pickle />`, `</div>`}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i, w := range want {
		if lines[i].Text != w {
			t.Fatalf("line %d: expected %q, got %q", i, w, lines[i].Text)
		}
	}
	lit := []bool{false, true, true, true, false, false}
	for i, l := range lit {
		if lines[i].Highlight != l {
			t.Fatalf("line %d (%s): expected highlight=%v", i, lines[i].Text, l)
		}
	}
	if lines[2].Depth != 2 || !lines[3].Closing {
		t.Fatalf("unexpected depth/closing flags: %+v %+v", lines[2], lines[3])
	}
}

func TestDescribe(t *testing.T) {
	b := mustParse(t, `<apple class="small" for="Ann"/>`)
	got := Describe(b.Query("apple")[0])
	if got != `<apple class="small" for="Ann"></apple>` {
		t.Fatalf("unexpected tooltip: %s", got)
	}
	if Describe(nil) != "" {
		t.Fatalf("expected empty tooltip for nil")
	}
}

func TestSpecificity(t *testing.T) {
	entries := Specificity("#fancy, .small, plate apple")
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := [][3]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 2}}
	for i, w := range want {
		if entries[i].Value != w {
			t.Fatalf("entry %d: expected %v, got %v", i, w, entries[i].Value)
		}
	}
	if !strings.Contains(entries[0].String(), "value: 1,0,0") {
		t.Fatalf("unexpected format: %s", entries[0].String())
	}
	if Specificity("plate[") != nil {
		t.Fatalf("expected nil for invalid selector")
	}
}
