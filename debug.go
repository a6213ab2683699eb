package tactile

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// debugStats holds per-frame timing and hit metrics.
// Only populated when Config.Debug is true.
type debugStats struct {
	sweepTime   time.Duration
	ingestTime  time.Duration
	hoverTime   time.Duration
	processTime time.Duration
	touchCount  int
	nodeCount   int
	hoverCount  int
}

// debugLog reports the stats of one tick at debug level.
func (c *Context) debugLog(stats debugStats) {
	if !c.cfg.Debug {
		return
	}
	total := stats.sweepTime + stats.ingestTime + stats.hoverTime + stats.processTime
	Logger().WithFields(logrus.Fields{
		"frame":   c.frame,
		"sweep":   stats.sweepTime,
		"ingest":  stats.ingestTime,
		"hover":   stats.hoverTime,
		"process": stats.processTime,
		"total":   total,
		"touches": stats.touchCount,
		"nodes":   stats.nodeCount,
		"hovers":  stats.hoverCount,
	}).Debug("tick")
}

func debugEnabled(n *Node) bool {
	return n.ctx != nil && n.ctx.cfg.Debug
}

// debugCheckDisposed panics with a descriptive message when a disposed node
// is used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("tactile debug: %s on disposed node %q", op, n.ID))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		Logger().WithFields(logrus.Fields{
			"node":  n.Path(),
			"depth": depth,
		}).Warnf("tree depth exceeds %d", debugMaxTreeDepth)
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		Logger().WithFields(logrus.Fields{
			"node":     n.Path(),
			"children": len(n.children),
		}).Warnf("child count exceeds %d", debugMaxChildCount)
	}
}
