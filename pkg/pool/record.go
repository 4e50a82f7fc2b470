package pool

import (
	"sort"

	"github.com/eapache/queue"

	"github.com/ajitpratap0/rime/pkg/scene"
)

// record is the per-key state shared by both pool families. A handle is in
// available or in checkedOut, never in both.
type record[H comparable] struct {
	available  *queue.Queue
	checkedOut map[H]uint64
	seq        uint64

	// template is bound on the first successful resolution and kept for
	// the lifetime of the record
	template *scene.Template
	// container groups the node-backed handles of this key; nil until the
	// first node-backed registration
	container *scene.Node
}

func newRecord[H comparable]() *record[H] {
	return &record[H]{
		available:  queue.New(),
		checkedOut: make(map[H]uint64),
	}
}

// dequeue pops the oldest available handle
func (r *record[H]) dequeue() (H, bool) {
	var zero H
	if r.available.Length() == 0 {
		return zero, false
	}
	return r.available.Remove().(H), true
}

// checkOut marks h as in use
func (r *record[H]) checkOut(h H) {
	r.seq++
	r.checkedOut[h] = r.seq
}

// release moves h from checkedOut to the tail of available. Handles that
// are not checked out are refused.
func (r *record[H]) release(h H) bool {
	if _, ok := r.checkedOut[h]; !ok {
		return false
	}
	delete(r.checkedOut, h)
	r.available.Add(h)
	return true
}

func (r *record[H]) isCheckedOut(h H) bool {
	_, ok := r.checkedOut[h]
	return ok
}

// inUse returns the checked-out handles in checkout order
func (r *record[H]) inUse() []H {
	handles := make([]H, 0, len(r.checkedOut))
	for h := range r.checkedOut {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool {
		return r.checkedOut[handles[i]] < r.checkedOut[handles[j]]
	})
	return handles
}

// idle returns the available handles in FIFO order without removing them
func (r *record[H]) idle() []H {
	handles := make([]H, r.available.Length())
	for i := range handles {
		handles[i] = r.available.Get(i).(H)
	}
	return handles
}

// drain empties available and returns its handles in FIFO order
func (r *record[H]) drain() []H {
	handles := make([]H, 0, r.available.Length())
	for r.available.Length() > 0 {
		handles = append(handles, r.available.Remove().(H))
	}
	return handles
}

func (r *record[H]) sizes() (available, checkedOut int) {
	return r.available.Length(), len(r.checkedOut)
}
