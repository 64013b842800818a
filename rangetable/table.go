package rangetable

import (
	"sync"

	"github.com/iotaledger/hive.go/runtime/options"
	"github.com/iotaledger/hive.go/smallrange"
	"github.com/iotaledger/hive.go/stringify"
)

// Table is a dense, index-addressed collection of optional SmallRanges. Every slot costs exactly the width of the
// packed storage type: absent slots hold the reserved all-zero pattern, so the Table needs no presence markers and no
// per-slot indirection. It is safe for concurrent use.
type Table[T smallrange.Storage] struct {
	slots []smallrange.SmallRange[T]
	count int

	mutex sync.RWMutex
}

// New creates a new Table.
func New[T smallrange.Storage](opts ...options.Option[Table[T]]) *Table[T] {
	return options.Apply(new(Table[T]), opts)
}

// WithInitialSlots preallocates the given number of (absent) slots.
func WithInitialSlots[T smallrange.Storage](slotCount int) options.Option[Table[T]] {
	return func(t *Table[T]) {
		t.slots = make([]smallrange.SmallRange[T], slotCount)
	}
}

// Set stores the given SmallRange at index, growing the Table as needed. Storing the absent state clears the slot,
// which makes Set with a zero value equivalent to Delete. Negative indexes lie outside the Table and are ignored.
func (t *Table[T]) Set(index int, r smallrange.SmallRange[T]) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.set(index, r)
}

// Get returns the SmallRange stored at index together with a flag that reports whether the slot holds a present range.
// Indexes outside the current extent read as absent.
func (t *Table[T]) Get(index int) (r smallrange.SmallRange[T], exists bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if index < 0 || index >= len(t.slots) {
		return r, false
	}
	r = t.slots[index]

	return r, !r.IsAbsent()
}

// Delete clears the slot at index and returns true if it held a present range.
func (t *Table[T]) Delete(index int) (deleted bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if index < 0 || index >= len(t.slots) {
		return false
	}

	if deleted = !t.slots[index].IsAbsent(); deleted {
		t.slots[index] = smallrange.SmallRange[T]{}
		t.count--
	}

	return deleted
}

// Count returns the number of present ranges in the Table.
func (t *Table[T]) Count() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.count
}

// Slots returns the current extent of the Table, absent slots included.
func (t *Table[T]) Slots() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return len(t.slots)
}

// ForEach invokes the consumer for every present range in ascending index order until the consumer returns false.
func (t *Table[T]) ForEach(consumer func(index int, r smallrange.SmallRange[T]) bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	for index, r := range t.slots {
		if r.IsAbsent() {
			continue
		}

		if !consumer(index, r) {
			return
		}
	}
}

// String returns a human-readable version of the Table.
func (t *Table[T]) String() string {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return stringify.Struct("rangetable.Table",
		stringify.NewStructField("slots", len(t.slots)),
		stringify.NewStructField("count", t.count),
	)
}

// set stores the given SmallRange at index while the caller holds the write lock.
func (t *Table[T]) set(index int, r smallrange.SmallRange[T]) {
	if index < 0 {
		return
	}

	if index >= len(t.slots) {
		if r.IsAbsent() {
			return
		}

		t.slots = append(t.slots, make([]smallrange.SmallRange[T], index+1-len(t.slots))...)
	}

	if !t.slots[index].IsAbsent() {
		t.count--
	}
	if !r.IsAbsent() {
		t.count++
	}

	t.slots[index] = r
}
