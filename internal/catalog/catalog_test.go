package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/tuidiner/internal/model"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	if c.Len() != 32 {
		t.Fatalf("expected 32 levels, got %d", c.Len())
	}
	if got := c.Level(0).Selector; got != "plate" {
		t.Fatalf("expected first selector plate, got %q", got)
	}
	for i := 0; i < c.Len(); i++ {
		lv := c.Level(i)
		if len(c.Board(i).Query(lv.Selector)) == 0 {
			t.Fatalf("level %d selector %q matches nothing", i+1, lv.Selector)
		}
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := Parse(nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty for empty input, got %v", err)
	}
	if _, err := Parse([]byte("levels: []\n")); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty for empty list, got %v", err)
	}
}

func TestParseMissingField(t *testing.T) {
	data := `levels:
  - selector: plate
    syntax: A
    board_markup: <plate/>
`
	_, err := Parse([]byte(data))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "do_this" || verr.Index != 0 {
		t.Fatalf("unexpected validation error %+v", verr)
	}
	if !strings.HasPrefix(verr.Error(), "level 1:") {
		t.Fatalf("expected one-based level in message, got %q", verr.Error())
	}
}

func TestNewRejectsDeadSelector(t *testing.T) {
	levels := []model.Level{
		{Selector: "plate", Syntax: "A", DoThis: "Select the plates", BoardMarkup: "<plate/>"},
		{Selector: "apple", Syntax: "A", DoThis: "Select the apples", BoardMarkup: "<plate/>"},
	}
	_, err := New(levels)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Index != 1 || verr.Field != "selector" {
		t.Fatalf("expected selector error on second level, got %v", err)
	}
}

func TestNewRejectsInvalidSelector(t *testing.T) {
	_, err := New([]model.Level{
		{Selector: "plate[", Syntax: "A", DoThis: "x", BoardMarkup: "<plate/>"},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "selector" {
		t.Fatalf("expected selector error, got %v", err)
	}
}

func TestParseRejectsUnknownKey(t *testing.T) {
	data := `levels:
  - selector: plate
    syntax: A
    do_this: Select the plates
    board_markup: <plate/>
    flavour: sour
`
	if _, err := Parse([]byte(data)); err == nil {
		t.Fatalf("expected unknown key to be rejected")
	}
}

func TestClamp(t *testing.T) {
	c, err := New([]model.Level{
		{Selector: "plate", Syntax: "A", DoThis: "one", BoardMarkup: "<plate/>"},
		{Selector: "bento", Syntax: "A", DoThis: "two", BoardMarkup: "<bento/>"},
		{Selector: "apple", Syntax: "A", DoThis: "three", BoardMarkup: "<apple/>"},
	})
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	cases := map[int]int{-4: 0, 0: 0, 1: 1, 2: 2, 3: 2, 99: 2}
	for in, want := range cases {
		if got := c.Clamp(in); got != want {
			t.Fatalf("Clamp(%d) = %d, want %d", in, got, want)
		}
	}
	if got := c.Level(7).DoThis; got != "three" {
		t.Fatalf("expected clamped level, got %q", got)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.yaml")
	data := `levels:
  - selector: "#fancy"
    syntax: "#id"
    do_this: "  Select the fancy plate  "
    examples: ["#cool"]
    board_markup: |
      <plate id="fancy"/>
      <plate/>
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 level, got %d", c.Len())
	}
	if got := c.Level(0).DoThis; got != "Select the fancy plate" {
		t.Fatalf("expected trimmed instruction, got %q", got)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	c, err := Load("  ")
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	if c.Len() != 32 {
		t.Fatalf("expected built-in catalog, got %d levels", c.Len())
	}
}

func TestLevelsReturnsCopy(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	levels := c.Levels()
	levels[0].Selector = "mutated"
	if c.Level(0).Selector != "plate" {
		t.Fatalf("expected catalog to be immutable")
	}
}
