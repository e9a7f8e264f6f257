package ecs

import "strconv"

// EntityId encodes a slot generation (upper 32 bits) and a slot index (lower 32 bits).
// The generation of a slot is bumped whenever its entity is deleted, so an id is
// never handed out twice. The zero id is never valid.
type EntityId uint64

// NewEntityId creates an EntityId from a slot index and generation
func NewEntityId(index uint32, generation uint32) EntityId {
	return EntityId(uint64(generation)<<32 | uint64(index))
}

// Index extracts the slot index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// Generation extracts the slot generation from the entity ID
func (e EntityId) Generation() uint32 {
	return uint32(e >> 32)
}

// String formats the id as <index>v<generation>.
func (e EntityId) String() string {
	return strconv.FormatUint(uint64(e.Index()), 10) + "v" + strconv.FormatUint(uint64(e.Generation()), 10)
}

// entityMeta tracks where a slot's current entity lives.
type entityMeta struct {
	generation uint32
	archetype  *Archetype
	row        uint32
	alive      bool
	reserved   bool
}
