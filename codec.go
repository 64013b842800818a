package smallrange

// pack encodes a start/length pair into the packed form of the storage type. Both halves are stored with a +1 bias,
// which makes every packed interval non-zero and thereby reserves the all-zero pattern for the absent state. The
// arithmetic is performed on a uint64 intermediate so the logic stays identical for all storage widths.
//
// pack is the unchecked hot path: inputs above MaxHalf truncate silently, the exported constructors enforce the
// capacity precondition before delegating here.
func pack[T Storage](start, length uint64) T {
	return T(((start + 1) << HalfBits[T]()) | (length + 1))
}

// unpack decodes a packed value back into its start/length pair. It is the single source of truth for every derived
// accessor, none of which store start, end or length redundantly. The packed value must be well-formed and non-zero.
func unpack[T Storage](packed T) (start, length uint64) {
	halfBits := HalfBits[T]()
	lowMask := uint64(1)<<halfBits - 1

	start = (uint64(packed) >> halfBits) - 1
	length = (uint64(packed) & lowMask) - 1

	return start, length
}

// isWellFormed reports whether a packed value carries the +1 bias in both of its halves. Values produced by pack
// always do, but deserialized foreign bytes may not, and unpack underflows on a zero half.
func isWellFormed[T Storage](packed T) bool {
	halfBits := HalfBits[T]()

	return packed>>halfBits != 0 && packed&(T(1)<<halfBits-1) != 0
}
