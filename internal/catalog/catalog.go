// Package catalog loads and validates the ordered level catalog.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/tuidiner/internal/board"
	"github.com/verte-zerg/tuidiner/internal/model"
)

//go:embed levels.yaml
var defaultLevels []byte

// ErrEmpty is returned for a catalog without levels.
var ErrEmpty = errors.New("catalog has no levels")

// ValidationError reports a malformed level. Index is zero-based.
type ValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("level %d: %s %s", e.Index+1, e.Field, e.Reason)
}

type file struct {
	Levels []model.Level `yaml:"levels"`
}

// Catalog is an immutable, index-addressable list of levels with their
// parsed boards.
type Catalog struct {
	levels []model.Level
	boards []*board.Board
}

// Load reads the catalog at path, or the built-in catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultLevels)
}

// Parse decodes a YAML catalog. Unknown keys are rejected.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f file
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(f.Levels)
}

// New validates levels and parses their boards.
func New(levels []model.Level) (*Catalog, error) {
	if len(levels) == 0 {
		return nil, ErrEmpty
	}
	c := &Catalog{
		levels: make([]model.Level, len(levels)),
		boards: make([]*board.Board, len(levels)),
	}
	for i, lv := range levels {
		lv = normalize(lv)
		if err := validate(i, lv); err != nil {
			return nil, err
		}
		b, err := board.Parse(lv.BoardMarkup)
		if err != nil {
			return nil, &ValidationError{Index: i, Field: "board_markup", Reason: err.Error()}
		}
		if len(b.Query(lv.Selector)) == 0 {
			return nil, &ValidationError{Index: i, Field: "selector", Reason: "matches nothing on the board"}
		}
		c.levels[i] = lv
		c.boards[i] = b
	}
	return c, nil
}

func normalize(lv model.Level) model.Level {
	lv.Selector = strings.TrimSpace(lv.Selector)
	lv.Syntax = strings.TrimSpace(lv.Syntax)
	lv.DoThis = strings.TrimSpace(lv.DoThis)
	lv.BoardMarkup = strings.TrimSpace(lv.BoardMarkup)
	lv.Examples = append([]string(nil), lv.Examples...)
	return lv
}

func validate(i int, lv model.Level) error {
	switch {
	case lv.Selector == "":
		return &ValidationError{Index: i, Field: "selector", Reason: "is required"}
	case lv.Syntax == "":
		return &ValidationError{Index: i, Field: "syntax", Reason: "is required"}
	case lv.DoThis == "":
		return &ValidationError{Index: i, Field: "do_this", Reason: "is required"}
	case lv.BoardMarkup == "":
		return &ValidationError{Index: i, Field: "board_markup", Reason: "is required"}
	case !board.Valid(lv.Selector):
		return &ValidationError{Index: i, Field: "selector", Reason: fmt.Sprintf("%q does not parse", lv.Selector)}
	}
	return nil
}

// Len returns the number of levels.
func (c *Catalog) Len() int {
	return len(c.levels)
}

// Clamp limits index to [0, Len()-1].
func (c *Catalog) Clamp(index int) int {
	if index < 0 {
		return 0
	}
	if index >= len(c.levels) {
		return len(c.levels) - 1
	}
	return index
}

// Level returns the level at index, clamped into range.
func (c *Catalog) Level(index int) model.Level {
	return c.levels[c.Clamp(index)]
}

// Board returns the parsed board for the level at index, clamped into range.
func (c *Catalog) Board(index int) *board.Board {
	return c.boards[c.Clamp(index)]
}

// Levels returns a copy of all levels in order.
func (c *Catalog) Levels() []model.Level {
	out := make([]model.Level, len(c.levels))
	copy(out, c.levels)
	return out
}
