package smallrange

import "github.com/iotaledger/hive.go/ierrors"

var (
	// ErrInvalidRange is returned if a constructor receives an end bound that is smaller than its start bound.
	ErrInvalidRange = ierrors.New("end must not be smaller than start")

	// ErrCapacityExceeded is returned if a start or length does not fit the half-width capacity of the storage type.
	ErrCapacityExceeded = ierrors.New("half-width capacity exceeded")

	// ErrParseBytesFailed is returned if information can not be parsed from a sequence of bytes.
	ErrParseBytesFailed = ierrors.New("failed to parse bytes")
)
