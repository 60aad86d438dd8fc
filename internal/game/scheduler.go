package game

import (
	"sort"
	"time"
)

// Timer is a pending task returned by a Scheduler.
type Timer interface {
	// Stop cancels the task. It reports false if the task already ran or was
	// already stopped.
	Stop() bool
}

// Scheduler runs f once after d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Queue is a Scheduler that never starts goroutines. Tasks run only when the
// owner calls RunDue, so callbacks execute on the owner's goroutine.
type Queue struct {
	now   func() time.Time
	seq   uint64
	tasks []*queuedTask
}

type queuedTask struct {
	queue *Queue
	due   time.Time
	seq   uint64
	fn    func()
	done  bool
}

// NewQueue returns an empty queue reading the clock from now. A nil now uses
// time.Now.
func NewQueue(now func() time.Time) *Queue {
	if now == nil {
		now = time.Now
	}
	return &Queue{now: now}
}

// AfterFunc implements Scheduler.
func (q *Queue) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	q.seq++
	t := &queuedTask{queue: q, due: q.now().Add(d), seq: q.seq, fn: f}
	q.tasks = append(q.tasks, t)
	return t
}

func (t *queuedTask) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	t.queue.remove(t)
	return true
}

func (q *Queue) remove(t *queuedTask) {
	for i, task := range q.tasks {
		if task == t {
			q.tasks = append(q.tasks[:i], q.tasks[i+1:]...)
			return
		}
	}
}

// RunDue runs every task due at or before now, earliest first, and returns how
// many ran. Tasks scheduled by a callback wait for the next call.
func (q *Queue) RunDue(now time.Time) int {
	var due []*queuedTask
	for _, t := range q.tasks {
		if !t.due.After(now) {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].seq < due[j].seq
		}
		return due[i].due.Before(due[j].due)
	})
	ran := 0
	for _, t := range due {
		// An earlier callback may have stopped this one.
		if t.done {
			continue
		}
		t.done = true
		q.remove(t)
		t.fn()
		ran++
	}
	return ran
}

// Next returns the due time of the earliest pending task.
func (q *Queue) Next() (time.Time, bool) {
	if len(q.tasks) == 0 {
		return time.Time{}, false
	}
	next := q.tasks[0].due
	for _, t := range q.tasks[1:] {
		if t.due.Before(next) {
			next = t.due
		}
	}
	return next, true
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	return len(q.tasks)
}
