package matcher

import (
	"sort"

	"github.com/ludo-technologies/treediff/internal/tree"
)

// PriorityQueue groups subtrees by priority and hands out the bucket with
// the highest priority first. Subtrees below the minimum priority or the
// minimum size are dropped on insertion.
type PriorityQueue struct {
	priority    func(*tree.Node) int
	minPriority int
	minSize     int
	buckets     map[int][]*tree.Node
	keys        []int // ascending
}

// NewPriorityQueue creates a queue seeded with root
func NewPriorityQueue(root *tree.Node, opts Options) *PriorityQueue {
	q := &PriorityQueue{
		priority:    opts.priority(),
		minPriority: opts.priorityFloor(),
		minSize:     opts.SubtreeMinSize,
		buckets:     make(map[int][]*tree.Node),
	}
	q.add(root)
	return q
}

// IsEmpty reports whether the queue holds no subtree
func (q *PriorityQueue) IsEmpty() bool {
	return len(q.keys) == 0
}

// CurrentPriority returns the highest priority in the queue, -1 if empty
func (q *PriorityQueue) CurrentPriority() int {
	if q.IsEmpty() {
		return -1
	}
	return q.keys[len(q.keys)-1]
}

// Pop removes and returns the bucket with the highest priority
func (q *PriorityQueue) Pop() []*tree.Node {
	if q.IsEmpty() {
		return nil
	}
	p := q.keys[len(q.keys)-1]
	q.keys = q.keys[:len(q.keys)-1]
	bucket := q.buckets[p]
	delete(q.buckets, p)
	return bucket
}

// Open inserts the children of n
func (q *PriorityQueue) Open(n *tree.Node) {
	for _, c := range n.Children {
		q.add(c)
	}
}

// PopOpen pops the current bucket and opens every popped subtree
func (q *PriorityQueue) PopOpen() []*tree.Node {
	popped := q.Pop()
	for _, n := range popped {
		q.Open(n)
	}
	return popped
}

// Clear empties the queue
func (q *PriorityQueue) Clear() {
	q.buckets = make(map[int][]*tree.Node)
	q.keys = nil
}

func (q *PriorityQueue) add(n *tree.Node) {
	p := q.priority(n)
	if p < q.minPriority || n.Size() < q.minSize {
		return
	}
	if _, ok := q.buckets[p]; !ok {
		i := sort.SearchInts(q.keys, p)
		q.keys = append(q.keys, 0)
		copy(q.keys[i+1:], q.keys[i:])
		q.keys[i] = p
	}
	q.buckets[p] = append(q.buckets[p], n)
}

// Synchronize pops and opens the queue with the higher priority until both
// share their current priority. Both queues are cleared as soon as one of
// them runs empty. It reports whether both queues still hold subtrees.
func Synchronize(q1, q2 *PriorityQueue) bool {
	if q1.IsEmpty() || q2.IsEmpty() {
		q1.Clear()
		q2.Clear()
		return false
	}
	for q1.CurrentPriority() != q2.CurrentPriority() {
		if q1.CurrentPriority() > q2.CurrentPriority() {
			q1.PopOpen()
		} else {
			q2.PopOpen()
		}
		if q1.IsEmpty() || q2.IsEmpty() {
			q1.Clear()
			q2.Clear()
			return false
		}
	}
	return true
}
