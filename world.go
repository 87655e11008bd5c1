package morphic

import (
	"container/heap"
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	mlog "github.com/phanxgames/morphic/internal/log"
)

// Scheduler defaults.
const (
	DefaultIdleStep = 500 * time.Millisecond
	DefaultMinStep  = time.Millisecond
)

// World is the root of a scene tree and its scheduler. It owns a priority
// queue of activities ordered by due time, including one entry per stepping
// node attached under it.
//
// A single mutex serializes scheduling batches against rendering and input
// dispatch. Run and Step take it; everything else, including tree
// mutation, must happen inside Do, inside a step or draw hook, or before Run
// starts.
type World struct {
	*Node

	mu         sync.Mutex
	queue      scheduleQueue
	byActivity map[Activity]*scheduleEntry
	byNode     map[*Node]*scheduleEntry
	seq        uint64

	now      func() time.Time
	idleStep time.Duration
	minStep  time.Duration
	log      *slog.Logger
	sink     EventSink
}

// Option configures a World.
type Option func(*World)

// WithIdleStep sets the longest time Run sleeps between batches.
func WithIdleStep(d time.Duration) Option {
	return func(w *World) { w.idleStep = d }
}

// WithMinStep sets the shortest rescheduling interval.
func WithMinStep(d time.Duration) Option {
	return func(w *World) { w.minStep = d }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(w *World) { w.now = now }
}

// WithLogger sets the logger used for step failures and debug stats.
func WithLogger(l *slog.Logger) Option {
	return func(w *World) { w.log = l }
}

// NewWorld creates an unbounded root that contains every point and paints a
// lavender backdrop over the visible area.
func NewWorld(opts ...Option) *World {
	w := &World{
		Node:       NewNode("world"),
		byActivity: make(map[Activity]*scheduleEntry),
		byNode:     make(map[*Node]*scheduleEntry),
		now:        time.Now,
		idleStep:   DefaultIdleStep,
		minStep:    DefaultMinStep,
	}
	w.unbounded = true
	w.role = w
	w.OnDraw = func(_ *Node, c Canvas) {
		c.SetFillColor(Lavender)
		c.FillRect(c.Viewport().Inset(-0.1))
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = mlog.WithComponent("world")
	}
	return w
}

// WorldOf returns the World behind n, or nil.
func WorldOf(n *Node) *World {
	if n == nil {
		return nil
	}
	w, _ := n.role.(*World)
	return w
}

func (w *World) contains(Point) bool { return true }

// invalidate hands damage in the world's canonical space to every eye
// directly under the world.
func (w *World) invalidate(r Rect, bounded bool) {
	for _, c := range w.children {
		if e := EyeOf(c); e != nil {
			e.invalidateOuter(r, bounded)
		}
	}
}

// Hands returns the hands directly under the world.
func (w *World) Hands() []*Hand {
	var hs []*Hand
	for _, c := range w.children {
		if h := HandOf(c); h != nil {
			hs = append(hs, h)
		}
	}
	return hs
}

// Eyes returns the eyes directly under the world.
func (w *World) Eyes() []*Eye {
	var es []*Eye
	for _, c := range w.children {
		if e := EyeOf(c); e != nil {
			es = append(es, e)
		}
	}
	return es
}

// SetEventSink sets the sink used by hands under this world that have none
// of their own.
func (w *World) SetEventSink(sink EventSink) {
	w.sink = sink
}

// Do runs fn while holding the world lock.
func (w *World) Do(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn()
}

// --- Activities ---

// StartActivity schedules a to step in the next batch. Activities that do
// not want steps and activities already scheduled are ignored.
func (w *World) StartActivity(a Activity) {
	w.schedule(a, nil)
}

func (w *World) schedule(a Activity, n *Node) {
	if !a.WantsSteps() {
		return
	}
	if _, ok := w.byActivity[a]; ok {
		return
	}
	w.seq++
	e := &scheduleEntry{act: a, node: n, due: w.now(), seq: w.seq, fresh: true}
	w.byActivity[a] = e
	if n != nil {
		w.byNode[n] = e
	}
	heap.Push(&w.queue, e)
}

// StopActivity removes a from the schedule. Unknown activities are ignored.
func (w *World) StopActivity(a Activity) {
	e, ok := w.byActivity[a]
	if !ok {
		return
	}
	w.remove(e)
}

func (w *World) remove(e *scheduleEntry) {
	if e.index >= 0 {
		heap.Remove(&w.queue, e.index)
	}
	e.gone = true
	delete(w.byActivity, e.act)
	if e.node != nil {
		delete(w.byNode, e.node)
	}
}

// NumActivities returns the number of scheduled activities.
func (w *World) NumActivities() int {
	return len(w.byActivity)
}

// IsScheduled reports whether a is scheduled.
func (w *World) IsScheduled(a Activity) bool {
	_, ok := w.byActivity[a]
	return ok
}

// IsStepping reports whether n's step hook is scheduled.
func (w *World) IsStepping(n *Node) bool {
	_, ok := w.byNode[n]
	return ok
}

func (w *World) startStepping(n *Node) {
	if _, ok := w.byNode[n]; ok {
		return
	}
	w.schedule(&nodeStepper{n: n}, n)
}

func (w *World) stopStepping(n *Node) {
	if e, ok := w.byNode[n]; ok {
		w.remove(e)
	}
}

func (w *World) interval(a Activity) time.Duration {
	return max(a.StepTime(), w.minStep)
}

// --- Batches ---

// Step runs one scheduling batch: every entry due by now is stepped, then
// re-queued if it still wants steps. New entries are due on registration
// and see the time since then as dt; later steps see their interval plus
// lateness.
// A failing activity is logged and dropped.
func (w *World) Step() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.step()
}

func (w *World) step() {
	start := time.Now()
	now := w.now()
	var stats debugStats
	for {
		e := w.queue.peek()
		if e == nil || e.due.After(now) {
			break
		}
		heap.Pop(&w.queue)
		if !e.act.WantsSteps() {
			w.remove(e)
			continue
		}
		// A first step only covers the time since registration.
		dt := now.Sub(e.due)
		if !e.fresh {
			dt += e.act.StepTime()
		}
		e.fresh = false
		stats.stepped++

		if err := runStep(e.act, dt); err != nil {
			stats.dropped++
			w.log.Error("activity failed",
				slog.String("activity", activityName(e)),
				slog.Any("err", err))
			if !e.gone {
				w.remove(e)
			}
			continue
		}
		if e.gone {
			continue
		}
		if !e.act.WantsSteps() {
			w.remove(e)
			continue
		}
		e.due = now.Add(w.interval(e.act))
		heap.Push(&w.queue, e)
	}
	stats.queued = w.queue.Len()
	stats.duration = time.Since(start)
	w.debugLog(stats)
}

func runStep(a Activity, dt time.Duration) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return a.Step(dt)
}

func activityName(e *scheduleEntry) string {
	if e.node != nil {
		return "node " + e.node.Name
	}
	return reflect.TypeOf(e.act).String()
}

// StepTime returns how long the scheduler may sleep before the next batch:
// the idle step when nothing is queued, zero when the earliest entry is
// overdue, and otherwise the time until it is due, capped at the idle step.
func (w *World) StepTime() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stepTime()
}

func (w *World) stepTime() time.Duration {
	e := w.queue.peek()
	if e == nil {
		return w.idleStep
	}
	d := e.due.Sub(w.now())
	if d <= 0 {
		return 0
	}
	return min(d, w.idleStep)
}

// Run steps the world until ctx is cancelled. Cancellation is checked at
// the top of every sleep/step cycle; a batch in progress always completes.
func (w *World) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C
	for {
		if ctx.Err() != nil {
			return nil
		}
		timer.Reset(w.StepTime())
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}
		w.Step()
	}
}
