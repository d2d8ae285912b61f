package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/voidbound/skiff/net"
)

func TestDeleteStandaloneIsImmediate(t *testing.T) {
	world := ecs.NewWorld()
	d := NewDeleter(world)
	lazy := &LazyUpdate{}

	mapper := ecs.NewMap1[net.Replicated](world)
	e := mapper.NewEntity(&net.Replicated{ID: 1})

	d.Delete(RoleStandalone, lazy, e)
	if world.Alive(e) {
		t.Error("standalone delete should remove the entity immediately")
	}
	if lazy.Len() != 0 {
		t.Errorf("standalone delete deferred %d ops, want 0", lazy.Len())
	}
}

func TestDeleteServerDefersReplicated(t *testing.T) {
	world := ecs.NewWorld()
	d := NewDeleter(world)
	lazy := &LazyUpdate{}
	delMap := ecs.NewMap[net.Delete](world)

	mapper := ecs.NewMap1[net.Replicated](world)
	e := mapper.NewEntity(&net.Replicated{ID: 7})

	d.Delete(RoleServer, lazy, e)

	// The entity stays alive: the replication layer must observe the
	// intent before the handle dies.
	if !world.Alive(e) {
		t.Fatal("replicated entity removed before the replication layer saw it")
	}
	if delMap.Get(e) != nil {
		t.Error("delete intent applied before flush")
	}

	lazy.Flush()
	if !world.Alive(e) {
		t.Fatal("flush must only tag, not remove")
	}
	if delMap.Get(e) == nil {
		t.Error("delete intent missing after flush")
	}

	// Deleting again is idempotent: one intent, no panic.
	d.Delete(RoleServer, lazy, e)
	lazy.Flush()
	if delMap.Get(e) == nil {
		t.Error("delete intent lost on repeat delete")
	}
}

func TestDeleteServerRemovesUnreplicated(t *testing.T) {
	world := ecs.NewWorld()
	d := NewDeleter(world)
	lazy := &LazyUpdate{}

	mapper := ecs.NewMap1[net.Dirty](world)
	e := mapper.NewEntity(&net.Dirty{})

	d.Delete(RoleServer, lazy, e)
	if world.Alive(e) {
		t.Error("unreplicated entity should be removed immediately on a server")
	}
}

func TestDeleteDeadEntityIsNoop(t *testing.T) {
	world := ecs.NewWorld()
	d := NewDeleter(world)
	lazy := &LazyUpdate{}

	mapper := ecs.NewMap1[net.Dirty](world)
	e := mapper.NewEntity(&net.Dirty{})
	world.RemoveEntity(e)

	d.Delete(RoleStandalone, lazy, e)
	if lazy.Len() != 0 {
		t.Error("deleting a dead entity should defer nothing")
	}
}

func TestDeleteClientPanics(t *testing.T) {
	world := ecs.NewWorld()
	d := NewDeleter(world)
	lazy := &LazyUpdate{}

	mapper := ecs.NewMap1[net.Dirty](world)
	e := mapper.NewEntity(&net.Dirty{})

	defer func() {
		if recover() == nil {
			t.Error("expected panic when a client deletes an entity")
		}
	}()
	d.Delete(RoleClient, lazy, e)
}
