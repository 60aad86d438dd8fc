package game

import (
	"io"

	"github.com/charmbracelet/log"
)

// Listener receives game events. Implementations must not call back into the
// Session synchronously.
type Listener interface {
	LevelLoaded(index int, instruction string)
	GuessResult(correct bool)
	GameCompleted()
	ProgressChanged(totalCorrect int, percent float64)
	// MilestoneReached fires once for every 10% completion step crossed.
	MilestoneReached(percent float64)
}

// NopListener ignores every event. Embed it to implement a subset.
type NopListener struct{}

func (NopListener) LevelLoaded(int, string)      {}
func (NopListener) GuessResult(bool)             {}
func (NopListener) GameCompleted()               {}
func (NopListener) ProgressChanged(int, float64) {}
func (NopListener) MilestoneReached(float64)     {}

// LogListener writes every event to a logger at debug level.
type LogListener struct {
	Logger *log.Logger
}

// NewLogListener returns a LogListener. A nil logger discards.
func NewLogListener(logger *log.Logger) LogListener {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return LogListener{Logger: logger}
}

func (l LogListener) LevelLoaded(index int, instruction string) {
	l.Logger.Debug("level loaded", "level", index+1, "instruction", instruction)
}

func (l LogListener) GuessResult(correct bool) {
	l.Logger.Debug("guess", "correct", correct)
}

func (l LogListener) GameCompleted() {
	l.Logger.Info("game completed")
}

func (l LogListener) ProgressChanged(totalCorrect int, percent float64) {
	l.Logger.Debug("progress", "total", totalCorrect, "percent", percent)
}

func (l LogListener) MilestoneReached(percent float64) {
	l.Logger.Info("milestone reached", "percent", int(percent*100+0.5))
}

// Listeners fans every event out to each member in order.
type Listeners []Listener

func (ls Listeners) LevelLoaded(index int, instruction string) {
	for _, l := range ls {
		l.LevelLoaded(index, instruction)
	}
}

func (ls Listeners) GuessResult(correct bool) {
	for _, l := range ls {
		l.GuessResult(correct)
	}
}

func (ls Listeners) GameCompleted() {
	for _, l := range ls {
		l.GameCompleted()
	}
}

func (ls Listeners) ProgressChanged(totalCorrect int, percent float64) {
	for _, l := range ls {
		l.ProgressChanged(totalCorrect, percent)
	}
}

func (ls Listeners) MilestoneReached(percent float64) {
	for _, l := range ls {
		l.MilestoneReached(percent)
	}
}
