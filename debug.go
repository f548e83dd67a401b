package geoview

import (
	"fmt"
	"time"
)

// FrameStats holds the timing of the most recent frame. It is overwritten
// every frame.
type FrameStats struct {
	// Frame is the whole frame.
	Frame time.Duration
	// Events is the wait in AdvanceToNextFrame.
	Events time.Duration
	// Update covers the domain update, user callback, event handling and
	// the queue drain.
	Update  time.Duration
	Record  time.Duration
	Present time.Duration
}

// StatsObserver receives every frame's stats.
type StatsObserver interface {
	ObserveFrame(stats FrameStats)
}

// globalDebug mirrors the most recently set Application debug flag so that
// node operations (which lack an Application pointer) can check it cheaply.
var globalDebug bool

// softAssert logs a warning and returns false when ok is false.
func softAssert(ok bool, msg string, args ...any) bool {
	if !ok {
		logger().Warn("assertion failed: "+msg, args...)
	}
	return ok
}

// debugLog logs frame timing at debug level.
func debugLog(stats FrameStats, frame uint64) {
	logger().Debug("frame",
		"n", frame,
		"total", stats.Frame,
		"events", stats.Events,
		"update", stats.Update,
		"record", stats.Record,
		"present", stats.Present)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("geoview debug: %s on disposed node %q", op, n.Name))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 64

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		logger().Warn("tree depth exceeds threshold",
			"depth", depth, "threshold", debugMaxTreeDepth, "node", n.Name)
	}
}

// debugCheckChildCount warns if a node has too many children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		logger().Warn("child count exceeds threshold",
			"node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
	}
}
