package pool

import (
	"github.com/eapache/queue"

	"github.com/ajitpratap0/rime/pkg/config"
	"github.com/ajitpratap0/rime/pkg/scene"
)

// ReclamationQueue defers the destruction of cleared container nodes.
// Entries are popped a fixed number at a time, once per host tick. In
// interleaved mode every node is preceded by a marker entry, so with one
// entry per tick a node enqueued before a drain is destroyed by the second
// drain.
//
// There is no way to take a node back out of the queue.
type ReclamationQueue struct {
	entries *queue.Queue
	perTick int
	direct  bool
	pending int
	destroy func(*scene.Node)
}

// reclaimEntry is a queue slot; a nil node is a marker.
type reclaimEntry struct {
	node *scene.Node
}

// NewReclamationQueue creates a queue that releases nodes through destroy.
// A non-positive DrainPerTick is treated as 1.
func NewReclamationQueue(cfg config.ReclamationConfig, destroy func(*scene.Node)) *ReclamationQueue {
	perTick := cfg.DrainPerTick
	if perTick <= 0 {
		perTick = 1
	}
	return &ReclamationQueue{
		entries: queue.New(),
		perTick: perTick,
		direct:  cfg.IsDirect(),
		destroy: destroy,
	}
}

// Enqueue schedules n for destruction
func (q *ReclamationQueue) Enqueue(n *scene.Node) {
	if n == nil {
		return
	}
	if !q.direct {
		q.entries.Add(reclaimEntry{})
	}
	q.entries.Add(reclaimEntry{node: n})
	q.pending++
}

// Drain pops up to DrainPerTick entries and returns how many nodes it
// destroyed.
func (q *ReclamationQueue) Drain() int {
	return q.pop(q.perTick)
}

// Flush pops every entry.
func (q *ReclamationQueue) Flush() int {
	return q.pop(q.entries.Length())
}

func (q *ReclamationQueue) pop(n int) int {
	destroyed := 0
	for i := 0; i < n && q.entries.Length() > 0; i++ {
		entry := q.entries.Remove().(reclaimEntry)
		if entry.node == nil {
			continue
		}
		q.pending--
		q.destroy(entry.node)
		destroyed++
	}
	return destroyed
}

// Len returns the number of queued entries, markers included
func (q *ReclamationQueue) Len() int {
	return q.entries.Length()
}

// Pending returns the number of nodes waiting for destruction
func (q *ReclamationQueue) Pending() int {
	return q.pending
}
