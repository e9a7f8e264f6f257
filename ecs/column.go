package ecs

import (
	"iter"
	"math/bits"
	"reflect"
	"unsafe"
)

// componentColumn stores the values of one component type for an archetype.
// Rows are addressed by index; a freed row is reused by the next append.
type componentColumn interface {
	Append(item any) int
	Set(row int, item any) bool
	Delete(row int)
	Get(row int) any
	Has(row int) bool
	Len() int
	Compact() map[int]int
	Iter() iter.Seq[int]
}

// ComponentRegistry maps component types to column constructors. Each Storage
// owns one, so independent worlds never share registrations.
type ComponentRegistry struct {
	columns map[reflect.Type]func() componentColumn
}

// NewComponentRegistry creates an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{columns: make(map[reflect.Type]func() componentColumn)}
}

// RegisterComponent makes T usable as a component in storages built on r.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.columns[reflect.TypeFor[T]()] = func() componentColumn { return &column[T]{} }
}

func (r *ComponentRegistry) newColumn(t reflect.Type) componentColumn {
	ctor := r.columns[t]
	if ctor == nil {
		return nil
	}
	return ctor()
}

// eface mirrors the runtime layout of an interface value.
type eface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

func dataPointer(v any) unsafe.Pointer {
	return (*eface)(unsafe.Pointer(&v)).data
}

const chunkSize = 64

// chunk is allocated once and never moved, so pointers handed out by Get stay
// valid until the row is deleted or the column compacted.
type chunk[T any] struct {
	live   uint64
	values [chunkSize]T
}

type column[T any] struct {
	chunks []*chunk[T]
	free   []int
	end    int
	count  int
}

func unwrap[T any](item any) (T, bool) {
	switch v := item.(type) {
	case *T:
		return *v, true
	case T:
		return v, true
	}
	var zero T
	return zero, false
}

func (c *column[T]) slot(row int) (*chunk[T], uint64) {
	if row < 0 || row >= c.end {
		return nil, 0
	}
	return c.chunks[row/chunkSize], 1 << (row % chunkSize)
}

func (c *column[T]) Append(item any) int {
	value, ok := unwrap[T](item)
	if !ok {
		return -1
	}

	var row int
	if n := len(c.free); n > 0 {
		row = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		row = c.end
		c.end++
		if row/chunkSize >= len(c.chunks) {
			c.chunks = append(c.chunks, new(chunk[T]))
		}
	}

	ch, bit := c.slot(row)
	ch.values[row%chunkSize] = value
	ch.live |= bit
	c.count++
	return row
}

func (c *column[T]) Set(row int, item any) bool {
	ch, bit := c.slot(row)
	if ch == nil || ch.live&bit == 0 {
		return false
	}
	value, ok := unwrap[T](item)
	if !ok {
		return false
	}
	ch.values[row%chunkSize] = value
	return true
}

func (c *column[T]) Get(row int) any {
	ch, bit := c.slot(row)
	if ch == nil || ch.live&bit == 0 {
		return nil
	}
	return &ch.values[row%chunkSize]
}

func (c *column[T]) Has(row int) bool {
	ch, bit := c.slot(row)
	return ch != nil && ch.live&bit != 0
}

func (c *column[T]) Delete(row int) {
	ch, bit := c.slot(row)
	if ch == nil || ch.live&bit == 0 {
		return
	}
	var zero T
	ch.values[row%chunkSize] = zero
	ch.live &^= bit
	c.free = append(c.free, row)
	c.count--
}

func (c *column[T]) Len() int {
	return c.count
}

// Compact packs live rows to the front, preserving their order, and returns
// the old row -> new row mapping.
func (c *column[T]) Compact() map[int]int {
	moved := make(map[int]int, c.count)
	packed := make([]*chunk[T], (c.count+chunkSize-1)/chunkSize)
	for i := range packed {
		packed[i] = new(chunk[T])
	}

	next := 0
	for row := range c.Iter() {
		dst := packed[next/chunkSize]
		dst.values[next%chunkSize] = c.chunks[row/chunkSize].values[row%chunkSize]
		dst.live |= 1 << (next % chunkSize)
		moved[row] = next
		next++
	}

	c.chunks = packed
	c.free = nil
	c.end = next
	return moved
}

// Iter yields live rows in ascending order, skipping empty chunks a word at a time.
func (c *column[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i, ch := range c.chunks {
			for live := ch.live; live != 0; live &= live - 1 {
				if !yield(i*chunkSize + bits.TrailingZeros64(live)) {
					return
				}
			}
		}
	}
}
