package stats

import (
	"sort"

	"github.com/verte-zerg/tuidiner/internal/model"
)

// HardestLevels returns up to n level indexes with the most incorrect guesses.
// Levels without incorrect guesses are skipped.
func HardestLevels(aggs []model.LevelAggregate, n int) []int {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	items := make([]model.LevelAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Incorrect > 0 {
			items = append(items, agg)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Incorrect == items[j].Incorrect {
			return items[i].Level < items[j].Level
		}
		return items[i].Incorrect > items[j].Incorrect
	})
	if n > len(items) {
		n = len(items)
	}
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, items[i].Level)
	}
	return out
}
