package ecs

import "slices"

// SetParent links child under parent, replacing any previous parent.
// Both ids may still be pending spawn. Reports false if either is dead.
func (s *Storage) SetParent(child, parent EntityId) bool {
	if child == parent || !s.exists(child) || !s.exists(parent) {
		return false
	}

	s.detach(child)
	s.parents.Put(child, parent)
	kids, _ := s.children.Get(parent)
	s.children.Put(parent, append(kids, child))
	return true
}

// Parent returns the parent of id, if any.
func (s *Storage) Parent(id EntityId) (EntityId, bool) {
	return s.parents.Get(id)
}

// Children returns a copy of the direct children of id.
func (s *Storage) Children(id EntityId) []EntityId {
	kids, _ := s.children.Get(id)
	return slices.Clone(kids)
}

// DeleteRecursive deletes id and every descendant.
func (s *Storage) DeleteRecursive(id EntityId) {
	for _, child := range s.Children(id) {
		s.DeleteRecursive(child)
	}
	s.Delete(id)
}

// detach removes id from its parent's child list.
func (s *Storage) detach(id EntityId) {
	parent, ok := s.parents.Get(id)
	if !ok {
		return
	}
	s.parents.Del(id)

	kids, _ := s.children.Get(parent)
	kids = slices.DeleteFunc(kids, func(c EntityId) bool { return c == id })
	if len(kids) == 0 {
		s.children.Del(parent)
	} else {
		s.children.Put(parent, kids)
	}
}

func (s *Storage) exists(id EntityId) bool {
	meta := s.meta(id)
	return meta != nil && (meta.alive || meta.reserved)
}
