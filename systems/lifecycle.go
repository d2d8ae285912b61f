package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/voidbound/skiff/net"
)

// Deleter is the single entity-deletion operation. On a networked role a
// replicated entity is not removed directly: a Delete intent is queued so
// the replication layer can observe the deletion before the handle dies.
// Everything else is removed immediately.
type Deleter struct {
	world  *ecs.World
	repMap *ecs.Map[net.Replicated]
	delMap *ecs.Map[net.Delete]
}

// NewDeleter creates a deleter on the given world.
func NewDeleter(w *ecs.World) *Deleter {
	return &Deleter{
		world:  w,
		repMap: ecs.NewMap[net.Replicated](w),
		delMap: ecs.NewMap[net.Delete](w),
	}
}

// Delete removes e, routing through replication when required. Only an
// authoritative role may delete entities. Must be called outside component
// iteration; callers inside a pass defer the call through the lazy queue.
func (d *Deleter) Delete(role Role, lazy *LazyUpdate, e ecs.Entity) {
	if !role.Authoritative() {
		panic("delete entity on non-authoritative role " + role.String())
	}
	if !d.world.Alive(e) {
		return
	}
	if role.Networked() && d.repMap.Get(e) != nil {
		lazy.Defer(func() {
			if d.world.Alive(e) && d.delMap.Get(e) == nil {
				d.delMap.Add(e, &net.Delete{})
			}
		})
		return
	}
	d.world.RemoveEntity(e)
}
