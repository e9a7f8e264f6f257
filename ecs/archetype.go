package ecs

import (
	"reflect"
	"slices"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

// Archetype represents a unique combination of component types
type Archetype struct {
	id       uint32
	types    []reflect.Type
	storages []componentColumn
	entities []EntityId // row -> owning entity, zero for empty rows
}

// NewArchetype creates a new archetype with the given ID and sorted component types
func NewArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:       id,
		types:    types,
		storages: make([]componentColumn, len(types)),
	}

	// Initialize storage for each component type
	for idx, typ := range types {
		col := registry.newColumn(typ)
		if col == nil {
			panic("component type " + typ.String() + " not registered")
		}
		a.storages[idx] = col
	}

	return a
}

// spawn stores the components for entity and returns the row they landed in.
// Every column is appended in lockstep so all storages agree on the row.
func (a *Archetype) spawn(entity EntityId, components []any) uint32 {
	var row int
	for _, comp := range components {
		compType := reflect.TypeOf(comp)
		if compType.Kind() == reflect.Ptr {
			compType = compType.Elem()
		}

		if idx := a.column(compType); idx >= 0 {
			row = a.storages[idx].Append(comp)
		}
	}

	for len(a.entities) <= row {
		a.entities = append(a.entities, 0)
	}
	a.entities[row] = entity

	return uint32(row)
}

func (a *Archetype) column(compType reflect.Type) int {
	for i, typ := range a.types {
		if typ == compType {
			return i
		}
	}
	return -1
}

// GetComponent returns the component of the given type stored in row
func (a *Archetype) GetComponent(row uint32, compType reflect.Type) any {
	idx := a.column(compType)
	if idx == -1 {
		return nil
	}

	return a.storages[idx].Get(int(row))
}

// setComponent overwrites a component value in place.
func (a *Archetype) setComponent(row uint32, compType reflect.Type, component any) bool {
	idx := a.column(compType)
	if idx == -1 {
		return false
	}
	return a.storages[idx].Set(int(row), component)
}

// delete frees a row. Rows of other entities are unaffected.
func (a *Archetype) delete(row uint32) {
	for _, storage := range a.storages {
		storage.Delete(int(row))
	}
	if int(row) < len(a.entities) {
		a.entities[row] = 0
	}
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return slices.Contains(a.types, compType)
}

// ID returns the archetype's unique identifier
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types for this archetype
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities stored in this archetype
func (a *Archetype) Len() int {
	if len(a.storages) == 0 {
		return 0
	}
	return a.storages[0].Len()
}

// compact reorganizes all component storage to eliminate empty slots.
// It returns the old row -> new row mapping so the owner can fix entity locations.
func (a *Archetype) compact() map[int]int {
	if len(a.storages) == 0 {
		return nil
	}

	indexMap := a.storages[0].Compact()
	for i := 1; i < len(a.storages); i++ {
		a.storages[i].Compact()
	}

	entities := make([]EntityId, len(indexMap))
	for oldRow, newRow := range indexMap {
		entities[newRow] = a.entities[oldRow]
	}
	a.entities = entities

	return indexMap
}

// Iter returns an iterator over the rows and owners of all live entities
func (a *Archetype) Iter() func(yield func(uint32, EntityId) bool) {
	return func(yield func(uint32, EntityId) bool) {
		if len(a.storages) == 0 {
			return
		}

		for row := range a.storages[0].Iter() {
			if !yield(uint32(row), a.entities[row]) {
				return
			}
		}
	}
}
