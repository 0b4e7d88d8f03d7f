// Package crawler implements the recursive crawl/merge engine: the frontier
// and dedup tracker, pagination expansion, link discovery, the wave loop that
// drives fetches, and the post-crawl cleanup of paging artifacts.
package crawler

// Task identifies one document to fetch. Identity is the exact URI string
// including any query parameters; a base URI and its paginated variant are
// distinct tasks.
type Task string

// Frontier is the FIFO queue of pending tasks. It is not safe for concurrent
// use; only the engine touches it, between waves.
type Frontier struct {
	tasks []Task
}

// Push appends tasks to the queue.
func (f *Frontier) Push(tasks ...Task) {
	f.tasks = append(f.tasks, tasks...)
}

// TakeUpTo removes and returns at most n tasks from the front of the queue.
func (f *Frontier) TakeUpTo(n int) []Task {
	if n <= 0 || len(f.tasks) == 0 {
		return nil
	}
	if n > len(f.tasks) {
		n = len(f.tasks)
	}
	out := make([]Task, n)
	copy(out, f.tasks[:n])
	f.tasks = f.tasks[n:]
	return out
}

// Len returns the number of pending tasks.
func (f *Frontier) Len() int {
	return len(f.tasks)
}

// Tracker records every task identifier that has been queued or dispatched.
// A task in the tracker is never dispatched again; this is the crawl's core
// correctness guarantee.
type Tracker struct {
	seen map[Task]struct{}
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[Task]struct{})}
}

// Mark records the task and reports whether it was new.
func (t *Tracker) Mark(task Task) bool {
	if _, ok := t.seen[task]; ok {
		return false
	}
	t.seen[task] = struct{}{}
	return true
}

// Seen reports whether the task has been queued or dispatched before.
func (t *Tracker) Seen(task Task) bool {
	_, ok := t.seen[task]
	return ok
}

// Len returns the number of tracked tasks.
func (t *Tracker) Len() int {
	return len(t.seen)
}
