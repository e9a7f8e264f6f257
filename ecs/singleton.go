package ecs

// Singleton is a typed handle to a value stored with Storage.AddSingleton.
// Systems declare it as a field and the scheduler binds it on registration.
type Singleton[T any] struct {
	storage *Storage
	value   *T
}

// NewSingleton binds a handle to storage, adding initial (or the zero value)
// first when no singleton of type T exists yet.
func NewSingleton[T any](storage *Storage, initial ...T) *Singleton[T] {
	var existing *T
	if !storage.ReadSingleton(&existing) {
		var value T
		if len(initial) > 0 {
			value = initial[0]
		}
		storage.AddSingleton(value)
	}

	s := &Singleton[T]{}
	s.Init(storage)
	return s
}

// Init binds the handle to storage. Called by the scheduler.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
	s.value = nil
	s.lookup()
}

func (s *Singleton[T]) lookup() {
	if s.value == nil && s.storage != nil {
		s.storage.ReadSingleton(&s.value)
	}
}

// Get returns the stored value, or nil when none has been added.
func (s *Singleton[T]) Get() *T {
	s.lookup()
	return s.value
}

// Exists reports whether a value of type T is stored.
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}
