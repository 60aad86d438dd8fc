package stats

import (
	"context"

	"github.com/verte-zerg/tuidiner/internal/model"
	"github.com/verte-zerg/tuidiner/internal/store"
)

// LevelRow is one catalog level with its journal aggregate.
type LevelRow struct {
	model.LevelAggregate
	Selector string
	Solved   bool
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Levels   []LevelRow
	Recent   []model.GuessEvent
	Solved   int
	Percent  float64
	Attempts int
	Correct  int
}

// BuildReport joins the catalog, the progress state and the guess journal.
// Recent holds up to recent guesses, oldest first.
func BuildReport(ctx context.Context, st *store.Store, levels []model.Level, state model.ProgressState, recent int) (Report, error) {
	aggs, err := st.ListLevelAggregates(ctx)
	if err != nil {
		return Report{}, err
	}
	byLevel := make(map[int]model.LevelAggregate, len(aggs))
	for _, agg := range aggs {
		byLevel[agg.Level] = agg
	}

	report := Report{
		Levels:  make([]LevelRow, len(levels)),
		Solved:  state.TotalCorrect,
		Percent: state.PercentComplete,
	}
	for i, lv := range levels {
		agg, ok := byLevel[i]
		if !ok {
			agg = model.LevelAggregate{Level: i}
		}
		report.Levels[i] = LevelRow{
			LevelAggregate: agg,
			Selector:       lv.Selector,
			Solved:         state.Completed(i),
		}
		report.Attempts += agg.Attempts
		report.Correct += agg.Correct
	}

	guesses, err := st.ListRecentGuesses(ctx, recent)
	if err != nil {
		return Report{}, err
	}
	for i, j := 0, len(guesses)-1; i < j; i, j = i+1, j-1 {
		guesses[i], guesses[j] = guesses[j], guesses[i]
	}
	report.Recent = guesses
	return report, nil
}
