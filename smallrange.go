package smallrange

import (
	"fmt"
	"io"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/lo"
	"github.com/iotaledger/hive.go/serializer/v2/stream"
)

// SmallRange is a half-open interval [start, end) packed into a single unsigned integer of the storage type T. The
// upper half of the bits holds start+1, the lower half holds length+1, so a SmallRange occupies half the memory of the
// equivalent two-field Range while still deriving all of its bounds in constant time by shifting and masking.
//
// The +1 bias of the two halves keeps every packed interval non-zero, which reserves the all-zero pattern of T for the
// absence of an interval: the zero value of SmallRange is that absent state (reported by IsAbsent) and carrying an
// optional interval therefore costs no storage beyond the interval itself. The price of the packing is a reduced bound
// domain, start and length are each limited to MaxHalf instead of the full width of T.
type SmallRange[T Storage] struct {
	packed T
}

// New creates a new SmallRange spanning [start, end). It returns ErrInvalidRange if end is smaller than start and
// ErrCapacityExceeded if start or the resulting length exceeds MaxHalf of the storage type.
func New[T Storage](start, end T) (SmallRange[T], error) {
	if end < start {
		return SmallRange[T]{}, ierrors.Wrapf(ErrInvalidRange, "cannot create range [%d, %d)", start, end)
	}

	maxHalf := MaxHalf[T]()
	if start > maxHalf {
		return SmallRange[T]{}, ierrors.Wrapf(ErrCapacityExceeded, "start %d is above the maximum of %d", start, maxHalf)
	}
	if length := end - start; length > maxHalf {
		return SmallRange[T]{}, ierrors.Wrapf(ErrCapacityExceeded, "length %d is above the maximum of %d", length, maxHalf)
	}

	return SmallRange[T]{packed: pack[T](uint64(start), uint64(end-start))}, nil
}

// MustNew creates a new SmallRange spanning [start, end) and panics if the bounds are invalid. It is intended for
// statically known bounds.
func MustNew[T Storage](start, end T) SmallRange[T] {
	return lo.PanicOnErr(New(start, end))
}

// Empty returns the canonical empty SmallRange [0, 0). It is a present interval of length zero and therefore distinct
// from the zero value of the type, which represents the absence of an interval altogether.
func Empty[T Storage]() SmallRange[T] {
	return SmallRange[T]{packed: pack[T](0, 0)}
}

// FromBytes unmarshals a SmallRange from a sequence of bytes.
func FromBytes[T Storage](bytes []byte) (result SmallRange[T], consumedBytes int, err error) {
	byteReader := stream.NewByteReader(bytes)
	if result, err = FromReader[T](byteReader); err != nil {
		err = ierrors.Errorf("failed to parse SmallRange from ByteReader: %w", err)

		return
	}
	consumedBytes = byteReader.BytesRead()

	return
}

// FromReader unmarshals a SmallRange from the given reader. The packed value is read little-endian at the width of
// the storage type; all-zero bytes unmarshal to the absent state. Any other pattern must carry the +1 bias in both of
// its halves, a zero half is rejected with ErrParseBytesFailed.
func FromReader[T Storage](reader io.Reader) (result SmallRange[T], err error) {
	if result.packed, err = readPacked[T](reader); err != nil {
		err = ierrors.Errorf("failed to read packed value (%v): %w", err, ErrParseBytesFailed)

		return
	}
	if result.packed != 0 && !isWellFormed(result.packed) {
		err = ierrors.Errorf("packed value %d has a zero half: %w", uint64(result.packed), ErrParseBytesFailed)
		result = SmallRange[T]{}

		return
	}

	return
}

// IsAbsent returns true if the SmallRange is the zero value of the type, the reserved all-zero bit pattern that
// represents the absence of an interval. All other accessors panic on the absent state, it has no bounds to report.
func (s SmallRange[T]) IsAbsent() bool {
	return s.packed == 0
}

// Start returns the inclusive lower bound of the interval.
func (s SmallRange[T]) Start() T {
	start, _ := s.decode()

	return start
}

// End returns the exclusive upper bound of the interval.
func (s SmallRange[T]) End() T {
	start, length := s.decode()

	return start + length
}

// Len returns the number of values contained in the interval.
func (s SmallRange[T]) Len() T {
	_, length := s.decode()

	return length
}

// IsEmpty returns true if the interval contains no values.
func (s SmallRange[T]) IsEmpty() bool {
	return s.Len() == 0
}

// Contains returns true if the given value lies within the interval. An empty interval contains no values.
func (s SmallRange[T]) Contains(value T) bool {
	start, length := s.decode()

	return value >= start && value < start+length
}

// Overlaps returns true if the two intervals share at least one value. Empty intervals overlap nothing, and two
// adjacent intervals do not overlap either.
func (s SmallRange[T]) Overlaps(other SmallRange[T]) bool {
	start, length := s.decode()
	otherStart, otherLength := other.decode()
	if length == 0 || otherLength == 0 {
		return false
	}

	return start < otherStart+otherLength && otherStart < start+length
}

// Compare compares the packed representations of the two SmallRanges. Through the bit layout this sorts intervals by
// start first and by length second, with the absent state ordered before every present interval.
func (s SmallRange[T]) Compare(other SmallRange[T]) int {
	return lo.Compare(s.packed, other.packed)
}

// ToRange converts the SmallRange into the equivalent two-field Range. The conversion exists for consumers that need
// directly addressable bounds, which the packed form cannot offer because no bound is stored as its own field.
func (s SmallRange[T]) ToRange() Range[T] {
	start, length := s.decode()

	return Range[T]{Start: start, End: start + length}
}

// Bytes returns a marshaled version of the SmallRange. The packed value is encoded little-endian at the width of the
// storage type, with the absent state marshaling to all-zero bytes.
func (s SmallRange[T]) Bytes() []byte {
	byteBuffer := stream.NewByteBuffer(int(Bits[T]() / 8))
	if err := s.writePacked(byteBuffer); err != nil {
		panic(err)
	}

	return lo.PanicOnErr(byteBuffer.Bytes())
}

// Encode returns a serialized version of the SmallRange.
func (s SmallRange[T]) Encode() (serialized []byte, err error) {
	return s.Bytes(), nil
}

// Decode deserializes a SmallRange from the given data and returns the amount of consumed bytes.
func (s *SmallRange[T]) Decode(data []byte) (consumed int, err error) {
	result, consumed, err := FromBytes[T](data)
	if err != nil {
		return 0, err
	}
	*s = result

	return consumed, nil
}

// String returns a human-readable version of the SmallRange.
func (s SmallRange[T]) String() string {
	if s.IsAbsent() {
		return "SmallRange(absent)"
	}

	start, length := s.decode()

	return fmt.Sprintf("SmallRange[%d, %d)", start, start+length)
}

// decode unpacks the interval bounds and panics on the absent state, which can never hold an interval.
func (s SmallRange[T]) decode() (start, length T) {
	if s.packed == 0 {
		panic("SmallRange is absent - check IsAbsent() before accessing its bounds")
	}

	start64, length64 := unpack(s.packed)

	return T(start64), T(length64)
}

// writePacked writes the packed value to the given writer at the width of the storage type.
func (s SmallRange[T]) writePacked(writer io.Writer) error {
	switch Bits[T]() {
	case 16:
		return stream.Write(writer, uint16(s.packed))
	case 32:
		return stream.Write(writer, uint32(s.packed))
	default:
		return stream.Write(writer, uint64(s.packed))
	}
}

// readPacked reads a packed value from the given reader at the width of the storage type.
func readPacked[T Storage](reader io.Reader) (packed T, err error) {
	switch Bits[T]() {
	case 16:
		value, valueErr := stream.Read[uint16](reader)
		if valueErr != nil {
			return packed, valueErr
		}

		return T(value), nil
	case 32:
		value, valueErr := stream.Read[uint32](reader)
		if valueErr != nil {
			return packed, valueErr
		}

		return T(value), nil
	default:
		value, valueErr := stream.Read[uint64](reader)
		if valueErr != nil {
			return packed, valueErr
		}

		return T(value), nil
	}
}

// code contract (make sure the type implements all required methods).
var _ fmt.Stringer = SmallRange[uint64]{}
