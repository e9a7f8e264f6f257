package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

type fieldKind uint8

const (
	fieldRequired fieldKind = iota
	fieldOptional
	fieldWithout
	fieldEntityId
)

type viewField struct {
	kind   fieldKind
	typ    reflect.Type
	offset uintptr
}

var entityIdType = reflect.TypeFor[EntityId]()

// View represents a query for entities with a specific combination of components
// The type T should be a struct with embedded pointer fields for each component type
// Named fields can be marked with the `ecs:"optional"` or `ecs:"without"` struct tags.
// A field of type EntityId receives the id of the matched entity.
type View[T any] struct {
	storage *Storage
	fields  []viewField
}

// NewView creates a new view for the given struct type
// Embedded pointer fields are always required.
// Named pointer fields tagged `ecs:"optional"` are set to nil when absent.
// Named pointer fields tagged `ecs:"without"` exclude entities carrying the type
// and are always nil.
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()

	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	fields := make([]viewField, 0, structType.NumField())
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if field.Type == entityIdType {
			fields = append(fields, viewField{kind: fieldEntityId, offset: field.Offset})
			continue
		}

		if field.Type.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types or EntityId")
		}

		kind := fieldRequired
		if !field.Anonymous {
			switch tag := field.Tag.Get("ecs"); tag {
			case "":
			case "optional":
				kind = fieldOptional
			case "without":
				kind = fieldWithout
			default:
				panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" and \"without\" are supported)")
			}
		}

		fields = append(fields, viewField{
			kind:   kind,
			typ:    field.Type.Elem(),
			offset: field.Offset,
		})
	}

	return &View[T]{
		storage: storage,
		fields:  fields,
	}
}

// Fill populates the provided struct pointer with component data for the given entity
// Returns false if the entity is dead, missing a required component or carries an
// excluded one.
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	archetype, row, ok := v.storage.locate(id)
	if !ok || !v.matchesArchetype(archetype) {
		return false
	}

	return v.populateResult(unsafe.Pointer(ptr), archetype, id, int(row), v.buildStorageIndices(archetype))
}

// Get returns a populated view struct for the given entity, or nil if the entity
// doesn't match
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

// matchesArchetype checks required components are present and excluded ones absent
func (v *View[T]) matchesArchetype(archetype *Archetype) bool {
	for _, f := range v.fields {
		switch f.kind {
		case fieldRequired:
			if !archetype.HasComponent(f.typ) {
				return false
			}
		case fieldWithout:
			if archetype.HasComponent(f.typ) {
				return false
			}
		}
	}
	return true
}

func (v *View[T]) buildStorageIndices(archetype *Archetype) []int {
	storageIndices := make([]int, len(v.fields))
	for i, f := range v.fields {
		storageIndices[i] = -1
		if f.kind == fieldEntityId || f.kind == fieldWithout {
			continue
		}
		storageIndices[i] = archetype.column(f.typ)
	}
	return storageIndices
}

func (v *View[T]) populateResult(resultPtr unsafe.Pointer, archetype *Archetype, id EntityId, row int, storageIndices []int) bool {
	for i, f := range v.fields {
		fieldPtr := unsafe.Pointer(uintptr(resultPtr) + f.offset)

		if f.kind == fieldEntityId {
			*(*EntityId)(fieldPtr) = id
			continue
		}

		storageIdx := storageIndices[i]
		if storageIdx == -1 {
			if f.kind == fieldRequired {
				return false
			}
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}

		component := archetype.storages[storageIdx].Get(row)
		if component == nil {
			if f.kind == fieldRequired {
				return false
			}
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}

		componentPtr := dataPointer(component)
		*(*unsafe.Pointer)(fieldPtr) = componentPtr
	}
	return true
}

func (v *View[T]) iterArchetype(archetype *Archetype) iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		storageIndices := v.buildStorageIndices(archetype)

		var result T
		resultPtr := unsafe.Pointer(&result)

		for row, entityId := range archetype.Iter() {
			if !v.populateResult(resultPtr, archetype, entityId, int(row), storageIndices) {
				continue
			}
			if !yield(entityId, result) {
				return
			}
		}
	}
}

// Iter returns an iterator over all entities matching this view
// The iterator yields (EntityId, T) pairs where T is the populated view struct
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, archetype := range v.storage.archetypes {
			if !v.matchesArchetype(archetype) {
				continue
			}

			for id, item := range v.iterArchetype(archetype) {
				if !yield(id, item) {
					return
				}
			}
		}
	}
}

// Values returns an iterator over just the view structs (without entity IDs)
// This is useful when you only care about the component data, not which entity it belongs to
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}
