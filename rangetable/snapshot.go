package rangetable

import (
	"io"
	"math"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/serializer/v2"
	"github.com/iotaledger/hive.go/serializer/v2/stream"
	"github.com/iotaledger/hive.go/smallrange"
)

// Export writes a snapshot of the Table to the given writer. Only present slots are written, as a collection of
// (index, packed value) pairs, so the snapshot size follows the number of present ranges rather than the extent of
// the Table.
func (t *Table[T]) Export(writer io.WriteSeeker) error {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return stream.WriteCollection(writer, serializer.SeriLengthPrefixTypeAsUint32, func() (elementsCount int, err error) {
		for index, r := range t.slots {
			if r.IsAbsent() {
				continue
			}

			if err = stream.Write(writer, uint64(index)); err != nil {
				return 0, ierrors.Wrapf(err, "failed to write index %d", index)
			}
			if err = stream.WriteBytes(writer, r.Bytes()); err != nil {
				return 0, ierrors.Wrapf(err, "failed to write range at index %d", index)
			}

			elementsCount++
		}

		return elementsCount, nil
	})
}

// Import reads a snapshot from the given reader into the Table, replacing its current content. The replacement only
// happens once the whole snapshot was read, a snapshot that fails to read leaves the Table unchanged. Indexes that do
// not fit the addressable extent are rejected with ErrIndexOutOfBounds.
func (t *Table[T]) Import(reader io.Reader) error {
	imported := new(Table[T])
	if err := stream.ReadCollection(reader, serializer.SeriLengthPrefixTypeAsUint32, func(i int) error {
		index, err := stream.Read[uint64](reader)
		if err != nil {
			return ierrors.Wrapf(err, "failed to read index of element %d", i)
		}
		if index > uint64(math.MaxInt) {
			return ierrors.Wrapf(ErrIndexOutOfBounds, "snapshot index %d exceeds the addressable extent", index)
		}

		packedBytes, err := stream.ReadBytes(reader, int(smallrange.Bits[T]()/8))
		if err != nil {
			return ierrors.Wrapf(err, "failed to read range at index %d", index)
		}

		r, _, err := smallrange.FromBytes[T](packedBytes)
		if err != nil {
			return ierrors.Wrapf(err, "failed to parse range at index %d", index)
		}

		imported.set(int(index), r)

		return nil
	}); err != nil {
		return ierrors.Wrap(err, "failed to read snapshot elements")
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.slots = imported.slots
	t.count = imported.count

	return nil
}
