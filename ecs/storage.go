package ecs

import (
	"reflect"
	"sort"
	"unsafe"

	"github.com/kamstrup/intmap"
)

// Storage is the main ECS storage interface
type Storage struct {
	archetypes map[uint32]*Archetype
	registry   *ComponentRegistry

	entities []entityMeta
	free     []uint32
	alive    int

	parents  *intmap.Map[EntityId, EntityId]
	children *intmap.Map[EntityId, []EntityId]

	singletons map[reflect.Type]*singletonEntry
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes: make(map[uint32]*Archetype),
		registry:   registry,
		parents:    intmap.New[EntityId, EntityId](64),
		children:   intmap.New[EntityId, []EntityId](64),
		singletons: make(map[reflect.Type]*singletonEntry),
	}
}

// reserve allocates an entity id without storing any components for it.
// The id becomes visible to queries once materialize is called.
func (s *Storage) reserve() EntityId {
	if n := len(s.free); n > 0 {
		index := s.free[n-1]
		s.free = s.free[:n-1]
		meta := &s.entities[index]
		meta.reserved = true
		return NewEntityId(index, meta.generation)
	}

	index := uint32(len(s.entities))
	s.entities = append(s.entities, entityMeta{generation: 1, reserved: true})
	return NewEntityId(index, 1)
}

// meta returns the bookkeeping for id if id still names the slot's current entity.
func (s *Storage) meta(id EntityId) *entityMeta {
	index := id.Index()
	if int(index) >= len(s.entities) {
		return nil
	}
	meta := &s.entities[index]
	if meta.generation != id.Generation() {
		return nil
	}
	return meta
}

// materialize stores components for a reserved id. Reports false if the id was
// deleted before it could be spawned.
func (s *Storage) materialize(id EntityId, components []any) bool {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	meta := s.meta(id)
	if meta == nil || !meta.reserved {
		return false
	}

	types := extractComponentTypes(components)
	archetype := s.archetypeFor(types)

	meta.row = archetype.spawn(id, components)
	meta.archetype = archetype
	meta.reserved = false
	meta.alive = true
	s.alive++
	return true
}

func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	archetypeId := hashTypesToUint32(types)
	archetype, exists := s.archetypes[archetypeId]
	if !exists {
		archetype = NewArchetype(archetypeId, types, s.registry)
		s.archetypes[archetypeId] = archetype
	}
	return archetype
}

// GetArchetype returns an archetype storage (if one exists)
func (s *Storage) GetArchetype(components ...any) *Archetype {
	types := extractComponentTypes(components)
	archetypeId := hashTypesToUint32(types)
	return s.archetypes[archetypeId]
}

// GetArchetypeByTypes returns an archetype storage (if one exists) based on reflect.Type
func (s *Storage) GetArchetypeByTypes(types []reflect.Type) *Archetype {
	sorted := append([]reflect.Type(nil), types...)
	sort.Sort(byTypeName(sorted))
	archetypeId := hashTypesToUint32(sorted)
	return s.archetypes[archetypeId]
}

// Archetypes returns every archetype ordered by id.
func (s *Storage) Archetypes() []*Archetype {
	out := make([]*Archetype, 0, len(s.archetypes))
	for _, archetype := range s.archetypes {
		out = append(out, archetype)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Spawn creates a new entity with the provided components
func (s *Storage) Spawn(components ...any) EntityId {
	id := s.reserve()
	s.materialize(id, components)
	return id
}

// Alive reports whether id names a spawned entity that has not been deleted.
func (s *Storage) Alive(id EntityId) bool {
	meta := s.meta(id)
	return meta != nil && meta.alive
}

// EntityCount returns the number of live entities.
func (s *Storage) EntityCount() int {
	return s.alive
}

// Delete removes all data related to the entity ID. Children are detached, not deleted.
func (s *Storage) Delete(id EntityId) {
	meta := s.meta(id)
	if meta == nil || (!meta.alive && !meta.reserved) {
		return
	}

	if meta.alive {
		meta.archetype.delete(meta.row)
		s.alive--
	}

	s.detach(id)
	if kids, ok := s.children.Get(id); ok {
		for _, child := range kids {
			s.parents.Del(child)
		}
		s.children.Del(id)
	}

	meta.archetype = nil
	meta.row = 0
	meta.alive = false
	meta.reserved = false
	meta.generation++
	if meta.generation == 0 {
		meta.generation = 1
	}
	s.free = append(s.free, id.Index())
}

// AddComponent inserts component into the entity, overwriting an existing value of
// the same type. The entity id is unchanged. Reports false for dead entities.
func (s *Storage) AddComponent(id EntityId, component any) bool {
	meta := s.meta(id)
	if meta == nil || !meta.alive {
		return false
	}
	oldArchetype := meta.archetype

	compType := reflect.TypeOf(component)
	if compType.Kind() == reflect.Ptr {
		compType = compType.Elem()
	}

	if oldArchetype.HasComponent(compType) {
		return oldArchetype.setComponent(meta.row, compType, component)
	}

	newTypes := make([]reflect.Type, 0, len(oldArchetype.types)+1)
	newTypes = append(newTypes, oldArchetype.types...)
	newTypes = append(newTypes, compType)
	sort.Sort(byTypeName(newTypes))

	components := make([]any, 0, len(newTypes))
	for _, typ := range newTypes {
		if typ == compType {
			components = append(components, component)
		} else {
			components = append(components, oldArchetype.GetComponent(meta.row, typ))
		}
	}

	s.move(meta, id, newTypes, components)
	return true
}

// RemoveComponent drops a component from the entity. An entity left without
// components is deleted. Reports false if nothing was removed.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) bool {
	meta := s.meta(id)
	if meta == nil || !meta.alive || !meta.archetype.HasComponent(compType) {
		return false
	}
	oldArchetype := meta.archetype

	newTypes := make([]reflect.Type, 0, len(oldArchetype.types)-1)
	for _, typ := range oldArchetype.types {
		if typ != compType {
			newTypes = append(newTypes, typ)
		}
	}

	if len(newTypes) == 0 {
		s.Delete(id)
		return true
	}

	components := make([]any, 0, len(newTypes))
	for _, typ := range newTypes {
		components = append(components, oldArchetype.GetComponent(meta.row, typ))
	}

	s.move(meta, id, newTypes, components)
	return true
}

// move relocates an entity into the archetype for newTypes.
func (s *Storage) move(meta *entityMeta, id EntityId, newTypes []reflect.Type, components []any) {
	newArchetype := s.archetypeFor(newTypes)
	newRow := newArchetype.spawn(id, components)
	meta.archetype.delete(meta.row)
	meta.archetype = newArchetype
	meta.row = newRow
}

// Compact reorganizes every archetype to eliminate empty rows.
func (s *Storage) Compact() {
	for _, archetype := range s.archetypes {
		for _, newRow := range archetype.compact() {
			id := archetype.entities[newRow]
			if meta := s.meta(id); meta != nil {
				meta.row = uint32(newRow)
			}
		}
	}
}

// locate returns the archetype and row holding a live entity.
func (s *Storage) locate(id EntityId) (*Archetype, uint32, bool) {
	meta := s.meta(id)
	if meta == nil || !meta.alive {
		return nil, 0, false
	}
	return meta.archetype, meta.row, true
}

// GetComponent returns the component for the given entity ID and component type
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	archetype, row, ok := s.locate(id)
	if !ok {
		return nil
	}
	return archetype.GetComponent(row, compType)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	archetype, _, ok := s.locate(id)
	if !ok {
		return false
	}
	return archetype.HasComponent(compType)
}

// extractComponentTypes extracts and sorts component types from a slice of components
func extractComponentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		compType := reflect.TypeOf(comp)

		// If it's a pointer, get the underlying type
		if compType.Kind() == reflect.Ptr {
			compType = compType.Elem()
		}

		// Components can be structs or primitives (int, string, etc.)
		// But not pointers, maps, channels, or functions (those aren't value types)
		if compType.Kind() == reflect.Ptr || compType.Kind() == reflect.Map ||
			compType.Kind() == reflect.Chan || compType.Kind() == reflect.Func {
			panic("components cannot be pointers, maps, channels, or functions")
		}

		types = append(types, compType)
	}
	sort.Sort(byTypeName(types))
	return types
}

// hashTypesToUint32 generates a uint32 hash for a sorted slice of types
func hashTypesToUint32(types []reflect.Type) uint32 {
	var h uint32 = 2166136261     // FNV-1a 32-bit offset basis
	const prime uint32 = 16777619 // FNV-1a 32-bit prime

	for _, t := range types {
		// Use the type's pointer as a unique identifier
		ptr := dataPointer(t)
		val := uint32(uintptr(ptr))

		// Mix in all 4 bytes if on 64-bit system
		if unsafe.Sizeof(uintptr(0)) == 8 {
			val ^= uint32(uintptr(ptr) >> 32)
		}

		h ^= val
		h *= prime
	}

	return h
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns a typed pointer to an entity's component, or nil.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}
