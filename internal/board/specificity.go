package board

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
)

// SpecificityEntry is the specificity of one selector in a group.
type SpecificityEntry struct {
	Selector string
	Value    [3]int
}

// String formats the entry the way the help panel shows it.
func (e SpecificityEntry) String() string {
	return fmt.Sprintf("Selector: '%s', value: %d,%d,%d", e.Selector, e.Value[0], e.Value[1], e.Value[2])
}

// Specificity returns an entry per comma-separated selector. Input that does
// not parse yields nil.
func Specificity(selector string) (entries []SpecificityEntry) {
	if strings.TrimSpace(selector) == "" {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			entries = nil
		}
	}()
	group, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil
	}
	for _, sel := range group {
		spec := sel.Specificity()
		entries = append(entries, SpecificityEntry{
			Selector: strings.TrimSpace(sel.String()),
			Value:    [3]int{spec[0], spec[1], spec[2]},
		})
	}
	return entries
}
