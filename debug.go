package morphic

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	mlog "github.com/phanxgames/morphic/internal/log"
)

// globalDebug enables the tree checks below. Toggled by SetDebugMode.
var globalDebug bool

// SetDebugMode turns on structural checks (disposed-node panics, depth and
// fan-out warnings) and per-step scheduler stats.
func SetDebugMode(on bool) {
	globalDebug = on
}

// debugStats holds per-step scheduler metrics. Only populated in debug mode.
type debugStats struct {
	stepped  int
	dropped  int
	queued   int
	duration time.Duration
}

func (w *World) debugLog(stats debugStats) {
	if !globalDebug || stats.stepped == 0 {
		return
	}
	w.log.Debug("step",
		slog.Int("stepped", stats.stepped),
		slog.Int("dropped", stats.dropped),
		slog.Int("queued", stats.queued),
		slog.Duration("took", stats.duration))
}

// debugCheckDisposed panics with a descriptive message when a disposed node
// is used in a tree operation.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("morphic debug: %s on disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}

const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.owner {
		depth++
	}
	if depth > debugMaxTreeDepth {
		mlog.WithComponent("tree").Warn("tree depth exceeds threshold",
			slog.Int("depth", depth), slog.Int("max", debugMaxTreeDepth), slog.String("node", n.Name))
	}
}

const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		mlog.WithComponent("tree").Warn("child count exceeds threshold",
			slog.Int("children", len(n.children)), slog.Int("max", debugMaxChildCount), slog.String("node", n.Name))
	}
}

// drawFailures counts draw hooks that panicked since process start.
var drawFailures atomic.Int64

// DrawFailures returns how many draw hooks have failed and been replaced by
// the error marker.
func DrawFailures() int64 {
	return drawFailures.Load()
}
