package engine

import (
	"sync"

	"github.com/emirpasic/gods/queues/priorityqueue"
)

// byBound orders subproblems by bound, then by creation sequence
func byBound(a, b interface{}) int {
	na, nb := a.(*subproblem), b.(*subproblem)
	switch {
	case na.bound < nb.bound:
		return -1
	case na.bound > nb.bound:
		return 1
	case na.seq < nb.seq:
		return -1
	case na.seq > nb.seq:
		return 1
	default:
		return 0
	}
}

// nodeQueue is the shared open list.
// active counts nodes handed to a worker and not yet finished; the search is
// exhausted when the heap is empty and active is zero.
type nodeQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	heap    *priorityqueue.Queue
	nextSeq uint64
	active  int

	popped    int64
	nodeLimit int64
	stopped   bool
	reason    string
}

func newNodeQueue(nodeLimit int64) *nodeQueue {
	q := &nodeQueue{
		heap:      priorityqueue.NewWith(byBound),
		nodeLimit: nodeLimit,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push adds nodes and returns how many are open
func (q *nodeQueue) push(nodes ...*subproblem) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.enqueueLocked(nodes)
	q.cond.Broadcast()
	return q.heap.Size()
}

func (q *nodeQueue) enqueueLocked(nodes []*subproblem) {
	for _, n := range nodes {
		n.seq = q.nextSeq
		q.nextSeq++
		q.heap.Enqueue(n)
	}
}

// pop blocks until a node is available. It returns false once the queue is
// stopped or the search is exhausted.
func (q *nodeQueue) pop() (*subproblem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if q.stopped {
			return nil, false
		}
		if q.nodeLimit > 0 && q.popped >= q.nodeLimit {
			q.stopLocked(ReasonNodeLimit)
			return nil, false
		}
		if v, ok := q.heap.Dequeue(); ok {
			q.active++
			q.popped++
			return v.(*subproblem), true
		}
		if q.active == 0 {
			q.cond.Broadcast()
			return nil, false
		}
		q.cond.Wait()
	}
}

// done finishes a popped node. Children are enqueued in the same critical
// section as the active decrement so exhaustion is never observed early.
func (q *nodeQueue) done(children ...*subproblem) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.enqueueLocked(children)
	q.active--
	q.cond.Broadcast()
	return q.heap.Size()
}

// stop ends dequeuing. The first reason wins.
func (q *nodeQueue) stop(reason string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stopLocked(reason)
}

func (q *nodeQueue) stopLocked(reason string) {
	if !q.stopped {
		q.stopped = true
		q.reason = reason
	}
	q.cond.Broadcast()
}

// isStopped reports whether a limit or cancellation has ended dequeuing
func (q *nodeQueue) isStopped() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stopped
}

// stopReason returns why the queue was stopped, or "" if it was not
func (q *nodeQueue) stopReason() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.reason
}

// minBound returns the smallest bound among open nodes
func (q *nodeQueue) minBound() (float64, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	v, ok := q.heap.Peek()
	if !ok {
		return 0, false
	}
	return v.(*subproblem).bound, true
}

// size returns the number of open nodes
func (q *nodeQueue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.heap.Size()
}

// drain removes and returns every open node in queue order.
// Call it only after all workers have returned.
func (q *nodeQueue) drain() []*subproblem {
	q.mu.Lock()
	defer q.mu.Unlock()
	nodes := make([]*subproblem, 0, q.heap.Size())
	for {
		v, ok := q.heap.Dequeue()
		if !ok {
			return nodes
		}
		nodes = append(nodes, v.(*subproblem))
	}
}
