package ecs

import "reflect"

type singletonEntry struct {
	value reflect.Value
}

// AddSingleton stores a value that is not attached to any entity. Passing a
// pointer stores the pointed-to value by reference. An existing singleton of the
// same type is replaced.
func (s *Storage) AddSingleton(value any) {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			panic("cannot add nil singleton")
		}
	} else {
		heap := reflect.New(v.Type())
		heap.Elem().Set(v)
		v = heap
	}

	s.singletons[v.Type().Elem()] = &singletonEntry{value: v}
}

// ReadSingleton fills out, which must be a **T, with the stored singleton of type T.
// Reports false and leaves out untouched if none exists.
func (s *Storage) ReadSingleton(out any) bool {
	target := reflect.ValueOf(out)
	if target.Kind() != reflect.Ptr || target.Elem().Kind() != reflect.Ptr {
		panic("ReadSingleton expects a pointer to a pointer")
	}

	entry := s.getSingletonEntry(target.Elem().Type().Elem())
	if entry == nil {
		return false
	}
	target.Elem().Set(entry.value)
	return true
}

func (s *Storage) getSingletonEntry(t reflect.Type) *singletonEntry {
	return s.singletons[t]
}
