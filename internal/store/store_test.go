package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/tuidiner/internal/model"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "tuidiner.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestKVGetSet(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	if _, ok, err := st.Get(ctx, "progress"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := st.Set(ctx, "progress", `{"totalCorrect":1}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Set(ctx, "progress", `{"totalCorrect":2}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	value, ok, err := st.Get(ctx, "progress")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if value != `{"totalCorrect":2}` {
		t.Fatalf("expected overwritten value, got %s", value)
	}
}

func TestKVPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuidiner.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.Set(context.Background(), "currentLevel", "4"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	t.Cleanup(func() {
		_ = reopened.Close()
	})
	value, ok, err := reopened.Get(context.Background(), "currentLevel")
	if err != nil || !ok || value != "4" {
		t.Fatalf("expected persisted value 4, got %q ok=%v err=%v", value, ok, err)
	}
}

func TestGuessJournalAggregates(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

	events := []model.GuessEvent{
		{SessionID: "s1", Level: 0, Selector: "apple", Correct: false, At: base},
		{SessionID: "s1", Level: 0, Selector: "plate", Correct: true, At: base.Add(time.Minute)},
		{SessionID: "s1", Level: 2, Selector: "#fancy", Correct: true, At: base.Add(2 * time.Minute)},
	}
	for _, ev := range events {
		if err := st.AppendGuess(ctx, ev); err != nil {
			t.Fatalf("append guess: %v", err)
		}
	}

	aggs, err := st.ListLevelAggregates(ctx)
	if err != nil {
		t.Fatalf("list aggregates: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(aggs))
	}
	if aggs[0].Level != 0 || aggs[0].Attempts != 2 || aggs[0].Correct != 1 || aggs[0].Incorrect != 1 {
		t.Fatalf("unexpected level 0 aggregate: %+v", aggs[0])
	}
	if !aggs[0].LastAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("unexpected last guess time: %v", aggs[0].LastAt)
	}

	recent, err := st.ListRecentGuesses(ctx, 2)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(recent) != 2 || recent[0].Selector != "#fancy" || !recent[0].Correct {
		t.Fatalf("unexpected recent guesses: %+v", recent)
	}

	if err := st.ClearGuesses(ctx); err != nil {
		t.Fatalf("clear guesses: %v", err)
	}
	aggs, err = st.ListLevelAggregates(ctx)
	if err != nil {
		t.Fatalf("list aggregates after clear: %v", err)
	}
	if len(aggs) != 0 {
		t.Fatalf("expected empty journal, got %d levels", len(aggs))
	}
}
