// Package game implements the level state machine: the current level, the
// finished flag and the transitions driven by guesses and navigation.
package game

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/verte-zerg/tuidiner/internal/catalog"
	"github.com/verte-zerg/tuidiner/internal/match"
	"github.com/verte-zerg/tuidiner/internal/model"
	"github.com/verte-zerg/tuidiner/internal/progress"
)

// DefaultAdvanceDelay is the pause between a correct guess and the next level.
const DefaultAdvanceDelay = 1500 * time.Millisecond

// Direction selects a neighbouring level.
type Direction int

const (
	Prev Direction = iota
	Next
)

// OutcomeKind classifies what a submitted guess did.
type OutcomeKind int

const (
	// OutcomeJump means the text was a level number and that level was loaded.
	OutcomeJump OutcomeKind = iota
	OutcomeCorrect
	OutcomeIncorrect
	// OutcomeIgnored means the game is finished and the text was not a jump.
	OutcomeIgnored
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeJump:
		return "jump"
	case OutcomeCorrect:
		return "correct"
	case OutcomeIncorrect:
		return "incorrect"
	case OutcomeIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// Outcome is the result of SubmitGuess.
type Outcome struct {
	Kind       OutcomeKind
	Level      int
	Evaluation match.Evaluation
	Finished   bool
}

// Journal records every evaluated guess.
type Journal interface {
	AppendGuess(ctx context.Context, ev model.GuessEvent) error
}

// Options configures a Session. Catalog, KV and Scheduler are required.
type Options struct {
	Catalog      *catalog.Catalog
	KV           progress.KV
	Scheduler    Scheduler
	Journal      Journal
	Listener     Listener
	Logger       *log.Logger
	AdvanceDelay time.Duration
	SessionID    string
	Now          func() time.Time
}

// Session owns the play position and the progress record. It is not safe for
// concurrent use; callers serialize input and scheduler callbacks.
type Session struct {
	catalog   *catalog.Catalog
	progress  *progress.Store
	scheduler Scheduler
	journal   Journal
	listener  Listener
	logger    *log.Logger
	delay     time.Duration
	sessionID string
	now       func() time.Time

	current  int
	finished bool
	pending  Timer
	// gen invalidates advances scheduled before the last level change.
	gen uint64
}

// New loads persisted progress and the saved level. It emits nothing; call
// Start to announce the initial level.
func New(ctx context.Context, opts Options) (*Session, error) {
	if opts.Catalog == nil || opts.Catalog.Len() == 0 {
		return nil, catalog.ErrEmpty
	}
	if opts.KV == nil {
		return nil, errors.New("game: storage is required")
	}
	if opts.Scheduler == nil {
		return nil, errors.New("game: scheduler is required")
	}
	s := &Session{
		catalog:   opts.Catalog,
		scheduler: opts.Scheduler,
		journal:   opts.Journal,
		listener:  opts.Listener,
		logger:    opts.Logger,
		delay:     opts.AdvanceDelay,
		sessionID: opts.SessionID,
		now:       opts.Now,
	}
	if s.listener == nil {
		s.listener = NopListener{}
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.delay <= 0 {
		s.delay = DefaultAdvanceDelay
	}
	if s.sessionID == "" {
		s.sessionID = uuid.NewString()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.progress = progress.New(opts.KV, s.catalog.Len(), s.logger)
	s.progress.Load(ctx)
	s.current = s.catalog.Clamp(s.progress.LoadCurrentLevel(ctx))
	return s, nil
}

// Start announces the current progress and loads the saved level.
func (s *Session) Start(ctx context.Context) {
	state := s.progress.State()
	s.listener.ProgressChanged(state.TotalCorrect, state.PercentComplete)
	s.LoadLevel(ctx, s.current)
}

// LoadLevel makes index (clamped) the current level, persists it, cancels any
// pending advance and leaves the finished state.
func (s *Session) LoadLevel(ctx context.Context, index int) {
	s.cancelPending()
	s.current = s.catalog.Clamp(index)
	s.finished = false
	if err := s.progress.SaveCurrentLevel(ctx, s.current); err != nil {
		s.logger.Warn("failed to save current level", "level", s.current+1, "err", err)
	}
	s.listener.LevelLoaded(s.current, s.catalog.Level(s.current).DoThis)
}

// SubmitGuess handles one line of learner input.
func (s *Session) SubmitGuess(ctx context.Context, text string) Outcome {
	if n, ok := s.jumpTarget(text); ok {
		s.LoadLevel(ctx, n-1)
		return Outcome{Kind: OutcomeJump, Level: s.current}
	}
	if s.finished {
		return Outcome{Kind: OutcomeIgnored, Level: s.current, Finished: true}
	}

	level := s.current
	lv := s.catalog.Level(level)
	eval := match.Evaluate(s.catalog.Board(level), text, lv.Selector)
	correct := eval.Correct()
	s.journalGuess(ctx, level, text, correct)

	change, err := s.progress.RecordGuess(ctx, level, correct)
	if err != nil {
		s.logger.Warn("failed to save progress", "level", level+1, "err", err)
	}
	s.listener.GuessResult(correct)
	if change.NewlyCorrect {
		s.listener.ProgressChanged(change.State.TotalCorrect, change.State.PercentComplete)
	}
	for _, m := range change.Milestones {
		s.listener.MilestoneReached(m)
	}

	if !correct {
		return Outcome{Kind: OutcomeIncorrect, Level: level, Evaluation: eval}
	}
	if level == s.catalog.Len()-1 {
		s.cancelPending()
		s.finished = true
		s.listener.GameCompleted()
		return Outcome{Kind: OutcomeCorrect, Level: level, Evaluation: eval, Finished: true}
	}
	s.scheduleAdvance(ctx, level+1)
	return Outcome{Kind: OutcomeCorrect, Level: level, Evaluation: eval}
}

func (s *Session) jumpTarget(text string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 || n > s.catalog.Len() {
		return 0, false
	}
	return n, true
}

// scheduleAdvance replaces any pending advance with one to target.
func (s *Session) scheduleAdvance(ctx context.Context, target int) {
	s.cancelPending()
	gen := s.gen
	s.pending = s.scheduler.AfterFunc(s.delay, func() {
		if gen != s.gen {
			return
		}
		s.pending = nil
		s.LoadLevel(ctx, target)
	})
}

func (s *Session) cancelPending() {
	s.gen++
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

func (s *Session) journalGuess(ctx context.Context, level int, text string, correct bool) {
	if s.journal == nil {
		return
	}
	ev := model.GuessEvent{
		SessionID: s.sessionID,
		Level:     level,
		Selector:  strings.TrimSpace(text),
		Correct:   correct,
		At:        s.now(),
	}
	if err := s.journal.AppendGuess(ctx, ev); err != nil {
		s.logger.Warn("failed to journal guess", "level", level+1, "err", err)
	}
}

// Navigate moves one level forward or back, clamped to the catalog.
func (s *Session) Navigate(ctx context.Context, dir Direction) {
	switch dir {
	case Next:
		s.LoadLevel(ctx, s.current+1)
	case Prev:
		s.LoadLevel(ctx, s.current-1)
	}
}

// ResetAll erases progress and returns to the first level.
func (s *Session) ResetAll(ctx context.Context) {
	s.cancelPending()
	s.finished = false
	if err := s.progress.Reset(ctx); err != nil {
		s.logger.Warn("failed to reset progress", "err", err)
	}
	s.listener.ProgressChanged(0, 0)
	s.LoadLevel(ctx, 0)
}

// CurrentLevel returns the zero-based current level.
func (s *Session) CurrentLevel() int {
	return s.current
}

// Finished reports whether the last level has been solved in this session.
func (s *Session) Finished() bool {
	return s.finished
}

// Pending reports whether an advance is scheduled.
func (s *Session) Pending() bool {
	return s.pending != nil
}

// Snapshot returns the transient play position.
func (s *Session) Snapshot() model.GameSession {
	return model.GameSession{CurrentLevel: s.current, Finished: s.finished}
}

// Progress returns a copy of the progress state.
func (s *Session) Progress() model.ProgressState {
	return s.progress.State()
}

// Completed reports whether level has been solved.
func (s *Session) Completed(level int) bool {
	return s.progress.Completed(level)
}

// Catalog returns the level catalog.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Level returns the current level definition.
func (s *Session) Level() model.Level {
	return s.catalog.Level(s.current)
}

// SessionID identifies this run in the guess journal.
func (s *Session) SessionID() string {
	return s.sessionID
}
