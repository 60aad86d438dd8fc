// Package progress keeps the durable per-level progress record.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/verte-zerg/tuidiner/internal/model"
)

// Durable keys.
const (
	KeyProgress     = "progress"
	KeyCurrentLevel = "currentLevel"
)

const milestoneStep = 0.1

// ErrLevelRange is returned when a guess targets a level outside the catalog.
var ErrLevelRange = errors.New("level out of range")

// KV is a durable named-value store.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Change describes the effect of a recorded guess.
type Change struct {
	State        model.ProgressState
	NewlyCorrect bool
	Milestones   []float64
}

// Store owns the in-memory progress state and writes it through to KV in full
// after every mutation.
type Store struct {
	kv         KV
	levelCount int
	logger     *log.Logger
	state      model.ProgressState
}

// New returns a Store for a catalog of levelCount levels. A nil logger discards.
func New(kv KV, levelCount int, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{
		kv:         kv,
		levelCount: levelCount,
		logger:     logger,
		state:      model.BlankProgress(),
	}
}

// Load reads the persisted state. Missing or unreadable data yields the blank
// state; the problem is logged, never returned.
func (s *Store) Load(ctx context.Context) model.ProgressState {
	s.state = model.BlankProgress()
	raw, ok, err := s.kv.Get(ctx, KeyProgress)
	if err != nil {
		s.logger.Warn("failed to read progress, starting blank", "err", err)
		return s.State()
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return s.State()
	}
	var loaded model.ProgressState
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		s.logger.Warn("corrupt progress, starting blank", "err", err)
		return s.State()
	}
	s.state = s.reconcile(loaded)
	return s.State()
}

// reconcile drops records outside the catalog and recomputes the aggregates
// from the history so the invariants hold even if the catalog changed size.
func (s *Store) reconcile(p model.ProgressState) model.ProgressState {
	out := model.BlankProgress()
	for level, rec := range p.GuessHistory {
		if level < 0 || level >= s.levelCount {
			continue
		}
		if rec.IncorrectCount < 0 {
			rec.IncorrectCount = 0
		}
		out.GuessHistory[level] = rec
		if rec.Correct {
			out.TotalCorrect++
		}
	}
	out.PercentComplete = s.percent(out.TotalCorrect)
	floor := math.Floor(out.PercentComplete*10+1e-9) / 10
	out.LastPercentMilestone = math.Min(math.Max(p.LastPercentMilestone, 0), floor)
	return out
}

// State returns a copy of the current state.
func (s *Store) State() model.ProgressState {
	return s.state.Clone()
}

// Completed reports whether level has been guessed correctly.
func (s *Store) Completed(level int) bool {
	return s.state.Completed(level)
}

// RecordGuess applies a guess to the level's record and persists the full
// state. Correct never reverts and the incorrect count freezes once the level
// is solved. The returned error is a storage error; the in-memory state is
// updated regardless.
func (s *Store) RecordGuess(ctx context.Context, level int, correct bool) (Change, error) {
	if level < 0 || level >= s.levelCount {
		return Change{State: s.State()}, fmt.Errorf("record guess for level %d: %w", level, ErrLevelRange)
	}
	rec := s.state.GuessHistory[level]
	change := Change{}
	if correct {
		if !rec.Correct {
			rec.Correct = true
			rec.FirstCorrectRecorded = true
			s.state.TotalCorrect++
			s.state.PercentComplete = s.percent(s.state.TotalCorrect)
			change.NewlyCorrect = true
		}
	} else if !rec.Correct {
		rec.IncorrectCount++
	}
	s.state.GuessHistory[level] = rec
	change.Milestones = s.advanceMilestones()
	change.State = s.State()
	if err := s.persist(ctx); err != nil {
		return change, err
	}
	return change, nil
}

func (s *Store) advanceMilestones() []float64 {
	var crossed []float64
	for s.state.PercentComplete+1e-9 >= s.state.LastPercentMilestone+milestoneStep {
		next := math.Round((s.state.LastPercentMilestone+milestoneStep)*10) / 10
		s.state.LastPercentMilestone = next
		crossed = append(crossed, next)
	}
	return crossed
}

// Reset replaces the state with the blank default and persists it.
func (s *Store) Reset(ctx context.Context) error {
	s.state = model.BlankProgress()
	return s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) error {
	b, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := s.kv.Set(ctx, KeyProgress, string(b)); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// LoadCurrentLevel returns the last viewed level index, 0 when missing or
// unreadable. The caller clamps it to the catalog.
func (s *Store) LoadCurrentLevel(ctx context.Context) int {
	raw, ok, err := s.kv.Get(ctx, KeyCurrentLevel)
	if err != nil {
		s.logger.Warn("failed to read current level", "err", err)
		return 0
	}
	if !ok {
		return 0
	}
	level, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		s.logger.Warn("corrupt current level", "value", raw)
		return 0
	}
	return level
}

// SaveCurrentLevel persists the last viewed level index.
func (s *Store) SaveCurrentLevel(ctx context.Context, level int) error {
	if err := s.kv.Set(ctx, KeyCurrentLevel, strconv.Itoa(level)); err != nil {
		return fmt.Errorf("save current level: %w", err)
	}
	return nil
}

func (s *Store) percent(total int) float64 {
	if s.levelCount <= 0 {
		return 0
	}
	return float64(total) / float64(s.levelCount)
}
