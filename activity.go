package morphic

import (
	"container/heap"
	"time"
)

// Activity is a unit of time-based behavior driven by a World. The World
// keys activities by value, so implementations are usually pointers.
type Activity interface {
	// WantsSteps reports whether the activity should keep being stepped.
	WantsSteps() bool
	// StepTime is the preferred interval between steps.
	StepTime() time.Duration
	// Step advances the activity by dt, the time since its previous step.
	Step(dt time.Duration) error
}

// ActivityFunc is a periodic Activity calling a function until it returns
// false or an error.
type ActivityFunc struct {
	Interval time.Duration
	Fn       func(dt time.Duration) (bool, error)

	done bool
}

func (a *ActivityFunc) WantsSteps() bool        { return !a.done && a.Fn != nil }
func (a *ActivityFunc) StepTime() time.Duration { return a.Interval }

func (a *ActivityFunc) Step(dt time.Duration) error {
	more, err := a.Fn(dt)
	a.done = !more
	return err
}

// nodeStepper adapts a node's step hook to Activity.
type nodeStepper struct {
	n *Node
}

func (s *nodeStepper) WantsSteps() bool        { return s.n.WantsSteps() }
func (s *nodeStepper) StepTime() time.Duration { return s.n.Interval() }

func (s *nodeStepper) Step(dt time.Duration) error {
	if fn := s.n.OnStep; fn != nil {
		fn(s.n, dt)
	}
	return nil
}

// --- Queue ---

type scheduleEntry struct {
	act   Activity
	node  *Node // set for node steppers
	due   time.Time
	seq   uint64 // registration order, breaks due-time ties
	index int    // heap index; -1 while running or removed
	gone  bool
	fresh bool // not stepped yet
}

// scheduleQueue is a min-heap of entries ordered by due time, then by
// registration order.
type scheduleQueue []*scheduleEntry

func (q scheduleQueue) Len() int { return len(q) }

func (q scheduleQueue) Less(i, j int) bool {
	if !q[i].due.Equal(q[j].due) {
		return q[i].due.Before(q[j].due)
	}
	return q[i].seq < q[j].seq
}

func (q scheduleQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *scheduleQueue) Push(x any) {
	e := x.(*scheduleEntry)
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *scheduleQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*q = old[:n-1]
	return e
}

func (q scheduleQueue) peek() *scheduleEntry {
	if len(q) == 0 {
		return nil
	}
	return q[0]
}

var _ heap.Interface = (*scheduleQueue)(nil)
