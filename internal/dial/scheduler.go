package dial

import (
	"sort"
	"time"
)

// TaskID identifies a scheduled frame callback. The zero value is never
// issued.
type TaskID uint64

// FrameFunc runs once on the next frame and receives the time elapsed since
// it was scheduled.
type FrameFunc func(elapsed time.Duration)

// Scheduler runs one-shot callbacks on the host's frame loop.
type Scheduler interface {
	Schedule(fn FrameFunc) TaskID
	Cancel(id TaskID)
}

// DefaultFrameInterval is the elapsed time reported for tasks scheduled
// before the first frame.
const DefaultFrameInterval = time.Second / 60

type frameTask struct {
	fn FrameFunc
	at time.Time
}

// FrameScheduler is a Scheduler stepped explicitly by the host, once per
// frame. Callbacks scheduled while a frame runs are deferred to the next one.
// It is not safe for concurrent use; hosts drive it from their frame loop.
type FrameScheduler struct {
	tasks map[TaskID]frameTask
	next  TaskID
	last  time.Time
}

// NewFrameScheduler returns an empty scheduler.
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{tasks: make(map[TaskID]frameTask)}
}

// Schedule queues fn for the next Step.
func (s *FrameScheduler) Schedule(fn FrameFunc) TaskID {
	s.next++
	s.tasks[s.next] = frameTask{fn: fn, at: s.last}
	return s.next
}

// Cancel drops a pending task. Unknown or already-run ids are ignored.
func (s *FrameScheduler) Cancel(id TaskID) {
	delete(s.tasks, id)
}

// Pending returns the number of queued tasks.
func (s *FrameScheduler) Pending() int {
	return len(s.tasks)
}

// Step runs every task queued before the call, in scheduling order.
func (s *FrameScheduler) Step(now time.Time) {
	due := make([]TaskID, 0, len(s.tasks))
	for id := range s.tasks {
		due = append(due, id)
	}
	sort.Slice(due, func(i, j int) bool { return due[i] < due[j] })

	s.last = now
	for _, id := range due {
		t, ok := s.tasks[id]
		if !ok {
			// cancelled by an earlier task in this frame
			continue
		}
		delete(s.tasks, id)
		elapsed := DefaultFrameInterval
		if !t.at.IsZero() {
			elapsed = now.Sub(t.at)
		}
		t.fn(elapsed)
	}
}
