package smallrange

// region Iterator /////////////////////////////////////////////////////////////////////////////////////////////////////

// Iterator walks the values of a SmallRange in ascending order. The interval bounds are decoded once when the Iterator
// is constructed, advancing the cursor performs no further decoding. An Iterator is single-pass and strictly forward,
// iteration is restarted by constructing a new Iterator.
type Iterator[T Storage] struct {
	cursor T
	end    T
}

// Iterator returns a new Iterator over the values of the interval, holding its own copy of the decoded bounds. It
// panics on the absent state.
func (s SmallRange[T]) Iterator() *Iterator[T] {
	start, length := s.decode()

	return &Iterator[T]{
		cursor: start,
		end:    start + length,
	}
}

// HasNext returns true if the Iterator has another value that shall be visited.
func (i *Iterator[T]) HasNext() bool {
	return i.cursor < i.end
}

// Next returns the next value of the walk.
func (i *Iterator[T]) Next() T {
	if i.cursor >= i.end {
		panic("Iterator is exhausted - check HasNext() before calling this method")
	}

	value := i.cursor
	i.cursor++

	return value
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region ForEach //////////////////////////////////////////////////////////////////////////////////////////////////////

// ForEach invokes the consumer for every value of the interval in ascending order until the consumer returns false.
// Like the Iterator it decodes the bounds only once and advances a plain cursor afterwards. It panics on the absent
// state.
func (s SmallRange[T]) ForEach(consumer func(value T) bool) {
	start, length := s.decode()

	for value, end := start, start+length; value < end; value++ {
		if !consumer(value) {
			return
		}
	}
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
