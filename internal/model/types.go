// Package model defines shared data structures.
package model

import "time"

// Level is one catalog entry. Its identifier is its index in the catalog.
type Level struct {
	Selector      string   `yaml:"selector"`
	Syntax        string   `yaml:"syntax"`
	DoThis        string   `yaml:"do_this"`
	HelpTitle     string   `yaml:"help_title"`
	Help          string   `yaml:"help"`
	Examples      []string `yaml:"examples"`
	SelectorName  string   `yaml:"selector_name"`
	SyntaxExample string   `yaml:"syntax_example"`
	BoardMarkup   string   `yaml:"board_markup"`
}

// GuessRecord is the per-level tally of guesses.
type GuessRecord struct {
	Correct              bool `json:"correct"`
	IncorrectCount       int  `json:"incorrectCount"`
	FirstCorrectRecorded bool `json:"firstCorrectRecorded"`
}

// ProgressState is the durable progress blob.
type ProgressState struct {
	TotalCorrect         int                 `json:"totalCorrect"`
	PercentComplete      float64             `json:"percentComplete"`
	LastPercentMilestone float64             `json:"lastPercentMilestone"`
	GuessHistory         map[int]GuessRecord `json:"guessHistory"`
}

// BlankProgress returns an empty progress state.
func BlankProgress() ProgressState {
	return ProgressState{GuessHistory: map[int]GuessRecord{}}
}

// Clone returns a deep copy so callers cannot mutate owned state.
func (p ProgressState) Clone() ProgressState {
	out := p
	out.GuessHistory = make(map[int]GuessRecord, len(p.GuessHistory))
	for k, v := range p.GuessHistory {
		out.GuessHistory[k] = v
	}
	return out
}

// Completed reports whether the level has been guessed correctly.
func (p ProgressState) Completed(level int) bool {
	rec, ok := p.GuessHistory[level]
	return ok && rec.Correct
}

// GameSession is the transient play position.
type GameSession struct {
	CurrentLevel int
	Finished     bool
}

// GuessEvent is one journaled guess.
type GuessEvent struct {
	SessionID string
	Level     int
	Selector  string
	Correct   bool
	At        time.Time
}

// LevelAggregate summarizes journaled guesses for a level.
type LevelAggregate struct {
	Level     int
	Attempts  int
	Correct   int
	Incorrect int
	LastAt    time.Time
}

// GameConfig holds resolved runtime settings.
type GameConfig struct {
	CatalogPath  string
	DBPath       string
	AdvanceDelay time.Duration
	LogLevel     string
}
