// Package net defines the replication intents the physics core emits. The
// transport layer that consumes them (framing, sockets, serialization) lives
// outside this repository; the core only tags entities.
package net

// Replicated marks an entity whose state is mirrored to remote peers. The ID
// is stable across the wire; entity handles are process-local.
type Replicated struct {
	ID uint32
}

// Dirty marks a replicated entity whose state changed this step and must be
// re-sent. Inserted only through the deferred update queue, so marking is
// safe from inside component iteration. The replication layer removes it
// after sending.
type Dirty struct{}

// Delete marks a replicated entity for deletion. The replication layer
// observes the intent, notifies peers, and then removes the entity; the
// handle stays valid until it does.
type Delete struct{}
