package systems

// LazyUpdate queues structural mutations (entity creation, deletion,
// component insertion) raised while component storage is being iterated.
// Applying them in place would invalidate the iteration, so systems defer
// them here and the game loop flushes the queue strictly after the pass
// completes.
type LazyUpdate struct {
	ops []func()
}

// Defer queues op for the next flush. Ops run in the order they were queued.
func (l *LazyUpdate) Defer(op func()) {
	l.ops = append(l.ops, op)
}

// Flush runs all queued ops and empties the queue. Ops queued during the
// flush run in the same flush.
func (l *LazyUpdate) Flush() {
	for i := 0; i < len(l.ops); i++ {
		l.ops[i]()
	}
	l.ops = l.ops[:0]
}

// Len returns the number of pending ops.
func (l *LazyUpdate) Len() int {
	return len(l.ops)
}
