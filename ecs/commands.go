package ecs

import "reflect"

// Commands provides a buffer for deferred ECS operations that are executed at the end of a frame.
// This prevents structural changes to the ECS storage during system execution.
type Commands struct {
	storage *Storage
	spawns  []spawnCommand
	deletes []deleteCommand
	adds    []addComponentCommand
	removes []removeComponentCommand
	defers  []deferCommand
}

func newCommands(storage *Storage) *Commands {
	return &Commands{storage: storage}
}

type deferCommand struct {
	fn func()
}

type spawnCommand struct {
	entity     EntityId
	parent     EntityId
	components []any
}

type deleteCommand struct {
	entity    EntityId
	recursive bool
}

type addComponentCommand struct {
	entity    EntityId
	component any
}

type removeComponentCommand struct {
	entity   EntityId
	compType reflect.Type
}

// Defer queues a function execution operation.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, deferCommand{fn: fn})
}

// Spawn queues an entity spawn operation with the given components.
// The returned id is reserved immediately and becomes live on Flush.
func (c *Commands) Spawn(components ...any) EntityId {
	return c.SpawnChild(0, components...)
}

// SpawnChild queues a spawn whose entity is linked under parent on Flush.
// A zero parent spawns a root entity.
func (c *Commands) SpawnChild(parent EntityId, components ...any) EntityId {
	id := c.storage.reserve()
	c.spawns = append(c.spawns, spawnCommand{entity: id, parent: parent, components: components})
	return id
}

// Delete queues an entity deletion operation.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, deleteCommand{entity: entity})
}

// DeleteRecursive queues deletion of an entity and all of its descendants.
func (c *Commands) DeleteRecursive(entity EntityId) {
	c.deletes = append(c.deletes, deleteCommand{entity: entity, recursive: true})
}

// AddComponent queues a component addition operation.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, addComponentCommand{
		entity:    entity,
		component: component,
	})
}

// RemoveComponent queues a component removal operation.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.removes = append(c.removes, removeComponentCommand{
		entity:   entity,
		compType: compType,
	})
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.deletes) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush flushes all commands to the provided storage, reseting the buffer state.
// Spawns are applied first so later operations can target entities spawned in
// the same frame; operations on entities that are already dead are dropped.
func (c *Commands) Flush(storage *Storage) {
	for _, cmd := range c.spawns {
		if storage.materialize(cmd.entity, cmd.components) && cmd.parent != 0 {
			storage.SetParent(cmd.entity, cmd.parent)
		}
	}

	for _, cmd := range c.deletes {
		if cmd.recursive {
			storage.DeleteRecursive(cmd.entity)
		} else {
			storage.Delete(cmd.entity)
		}
	}

	for _, cmd := range c.removes {
		storage.RemoveComponent(cmd.entity, cmd.compType)
	}

	for _, cmd := range c.adds {
		storage.AddComponent(cmd.entity, cmd.component)
	}

	for _, df := range c.defers {
		df.fn()
	}

	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
}
