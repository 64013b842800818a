package rangetable

import "github.com/iotaledger/hive.go/ierrors"

var (
	// ErrIndexOutOfBounds is returned when an index outside the extent of the table is accessed.
	ErrIndexOutOfBounds = ierrors.New("index is out of bounds")

	// ErrSlotWidthMismatch is returned when a file-backed table is opened with a storage type whose width does not
	// match the width recorded in the file.
	ErrSlotWidthMismatch = ierrors.New("slot width does not match")
)
