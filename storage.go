package smallrange

import "unsafe"

// Storage is the closed set of unsigned integer types a SmallRange can be packed into. The set is restricted to the
// exact types below on purpose: named types with one of these underlying types are rejected as well, so no additional
// width can be compiled against the codec. The uint member follows the register width of the platform, like the other
// members it splits into two equally sized halves.
type Storage interface {
	uint16 | uint32 | uint64 | uint
}

// Bits returns the total bit width of the storage type.
func Bits[T Storage]() uint {
	var value T

	return uint(unsafe.Sizeof(value)) * 8
}

// HalfBits returns the bit width of the two halves that hold the biased start and length of a packed interval.
func HalfBits[T Storage]() uint {
	return Bits[T]() / 2
}

// MaxHalf returns the largest start or length value that fits the storage type. Each half is stored with a +1 bias in
// a HalfBits wide field, so the largest storable biased value 2^HalfBits-1 corresponds to a logical value of
// 2^HalfBits-2.
func MaxHalf[T Storage]() T {
	return T(1)<<HalfBits[T]() - 2
}
